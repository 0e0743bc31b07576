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

// EventRepo provides typed DynamoDB operations for the events table.
type EventRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEventRepo(client *dynamodb.Client, tableName string) *EventRepo {
	return &EventRepo{client: client, tableName: tableName}
}

func (r *EventRepo) Put(ctx context.Context, e *domain.Event) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("event_id", eventID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	if !e.Enable {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return &e, nil
}

// ListByFamily returns the family's enabled events via the
// family_id-starts_at-index GSI. When from/to are non-zero the range key
// condition narrows the query to events starting inside the window.
func (r *EventRepo) ListByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Event, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("family_id-starts_at-index"),
		KeyConditionExpression: aws.String("family_id = :fid"),
		// "enable" collides with a reserved word, hence the name alias.
		FilterExpression:         aws.String("#en = :t"),
		ExpressionAttributeNames: map[string]string{"#en": fieldEnable},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fid": &types.AttributeValueMemberS{Value: familyID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
	}
	if !from.IsZero() && !to.IsZero() {
		fromAV, err := attributevalue.Marshal(from)
		if err != nil {
			return nil, fmt.Errorf("marshal window start: %w", err)
		}
		toAV, err := attributevalue.Marshal(to)
		if err != nil {
			return nil, fmt.Errorf("marshal window end: %w", err)
		}
		input.KeyConditionExpression = aws.String("family_id = :fid AND starts_at BETWEEN :from AND :to")
		input.ExpressionAttributeValues[":from"] = fromAV
		input.ExpressionAttributeValues[":to"] = toAV
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	var events []domain.Event
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepo) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("event_id", eventID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *EventRepo) SoftDelete(ctx context.Context, eventID string) error {
	return r.Update(ctx, eventID, map[string]interface{}{fieldEnable: false})
}
