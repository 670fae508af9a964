package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-trust/internal/domain"
)

// CredentialRepo provides typed DynamoDB operations for the credentials table.
// PK: account_id; GSI email-index on the normalized (lowercased) email.
type CredentialRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCredentialRepo(client *dynamodb.Client, tableName string) *CredentialRepo {
	return &CredentialRepo{client: client, tableName: tableName}
}

func (r *CredentialRepo) Put(ctx context.Context, c *domain.Credential) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CredentialRepo) Get(ctx context.Context, accountID string) (*domain.Credential, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("account_id", accountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	return unmarshalCredential(out.Item)
}

func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#e = :v"),
		ExpressionAttributeNames:  map[string]string{"#e": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	return unmarshalCredential(out.Items[0])
}

func (r *CredentialRepo) UpdateRole(ctx context.Context, accountID string, role domain.Role) error {
	return r.update(ctx, accountID, map[string]interface{}{"role": role.String()})
}

// GetRole re-reads just the role attribute. Used as the read-back confirmation
// after every UpdateRole, since the store offers no visible transaction.
func (r *CredentialRepo) GetRole(ctx context.Context, accountID string) (domain.Role, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  strKey("account_id", accountID),
		ProjectionExpression: aws.String("#r"),
		ExpressionAttributeNames: map[string]string{
			"#r": "role",
		},
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	v, ok := out.Item["role"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("credential has no role attribute: %w", domain.ErrIntegrity)
	}
	return domain.ParseRole(v.Value)
}

func (r *CredentialRepo) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	return r.update(ctx, accountID, map[string]interface{}{"password_hash": passwordHash})
}

func (r *CredentialRepo) update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("account_id", accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func unmarshalCredential(item map[string]types.AttributeValue) (*domain.Credential, error) {
	var c domain.Credential
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, err
	}
	// Reject rows carrying a role outside the closed enum instead of letting
	// them flow into a token.
	if _, err := domain.ParseRole(c.Role.String()); err != nil {
		return nil, err
	}
	return &c, nil
}
