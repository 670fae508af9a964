package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-auth-trust/internal/domain"
)

// ChallengeRepo manages pending SMS verification codes.
// PK: phone. Rows expire via the expires_at TTL attribute.
type ChallengeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChallengeRepo(client *dynamodb.Client, tableName string) *ChallengeRepo {
	return &ChallengeRepo{client: client, tableName: tableName}
}

func (r *ChallengeRepo) Put(ctx context.Context, c *domain.Challenge) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ChallengeRepo) Get(ctx context.Context, phone string) (*domain.Challenge, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	var c domain.Challenge
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChallengeRepo) Delete(ctx context.Context, phone string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	return err
}
