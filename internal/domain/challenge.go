package domain

// Challenge is a pending one-time SMS code.
// PK: phone (normalized E.164). ExpiresAt is a Unix timestamp used as DynamoDB TTL.
// Rows are owned by the challenge provider adapter; the trust state machine
// never reads them directly.
type Challenge struct {
	Phone     string `json:"phone" dynamodbav:"phone"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
