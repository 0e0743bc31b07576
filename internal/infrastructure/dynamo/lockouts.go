package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kinboard-api/internal/domain"
)

// LockoutRepo persists per-user failed-PIN counters.
// PK: user_id. TTL on expires_at garbage-collects stale records.
//
// IncrementFailure is an atomic ADD so two racing failed attempts are both
// counted; a plain get-then-set here would let concurrent attempts
// under-count and stretch the effective attempt budget.
type LockoutRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLockoutRepo(client *dynamodb.Client, tableName string) *LockoutRepo {
	return &LockoutRepo{client: client, tableName: tableName}
}

// Get returns the lockout record for userID, or domain.ErrNotFound when none exists.
func (r *LockoutRepo) Get(ctx context.Context, userID string) (*domain.LockoutRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("user_id", userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get lockout %s: %v: %w", userID, err, domain.ErrStoreUnavailable)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("lockout %s: %w", userID, domain.ErrNotFound)
	}
	var rec domain.LockoutRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal lockout %s: %v: %w", userID, err, domain.ErrStoreUnavailable)
	}
	return &rec, nil
}

// IncrementFailure adds one failed attempt for userID and returns the record
// as it stands after the write. The record is created on first failure.
func (r *LockoutRepo) IncrementFailure(ctx context.Context, userID string, ttl time.Duration) (*domain.LockoutRecord, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("user_id", userID),
		UpdateExpression: aws.String("SET expires_at = :exp ADD failed_attempts :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":exp": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Add(ttl).Unix())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("increment lockout %s: %v: %w", userID, err, domain.ErrStoreUnavailable)
	}
	var rec domain.LockoutRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal lockout %s: %v: %w", userID, err, domain.ErrStoreUnavailable)
	}
	return &rec, nil
}

// SetLockedUntil stamps the lockout expiry on an existing record.
func (r *LockoutRepo) SetLockedUntil(ctx context.Context, userID string, until time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("user_id", userID),
		UpdateExpression: aws.String("SET locked_until = :lu, expires_at = :exp"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lu":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", until.Unix())},
			":exp": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", until.Add(time.Hour).Unix())},
		},
	})
	if err != nil {
		return fmt.Errorf("set lockout %s: %v: %w", userID, err, domain.ErrStoreUnavailable)
	}
	return nil
}

// Delete removes the lockout record. Idempotent: deleting an absent record
// is not an error.
func (r *LockoutRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return fmt.Errorf("delete lockout %s: %v: %w", userID, err, domain.ErrStoreUnavailable)
	}
	return nil
}
