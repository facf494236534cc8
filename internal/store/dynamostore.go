package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"ticketbot/core/logger"
	"ticketbot/internal/model"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists tickets in a DynamoDB table keyed by ticket_id.
// Intended for deployments without a relational database; supports
// DynamoDB Local via DYNAMO_LOCAL for development.
type DynamoStore struct {
	db    *dynamodb.Client
	table string
}

// NewDynamoStore builds a client from the default AWS config chain.
// When DYNAMO_LOCAL is set it targets a local endpoint with dummy
// credentials and creates the table if it does not exist.
func NewDynamoStore(ctx context.Context) (*DynamoStore, error) {
	table := "ticketbot_tickets"
	if v := os.Getenv("DYNAMO_TABLE_NAME"); v != "" {
		table = v
	}

	var client *dynamodb.Client
	if os.Getenv("DYNAMO_LOCAL") != "" {
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("dummy"),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "dummy")),
		)
		if err != nil {
			return nil, fmt.Errorf("dynamostore: load config: %w", err)
		}
		client = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String("http://localhost:8000")
		})
	} else {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamostore: load config: %w", err)
		}
		client = dynamodb.NewFromConfig(cfg)
	}

	s := &DynamoStore{db: client, table: table}
	if os.Getenv("DYNAMO_LOCAL") != "" {
		if err := s.EnsureTable(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// EnsureTable creates the tickets table when it is missing. Used with
// DynamoDB Local only; production tables are provisioned out of band.
func (s *DynamoStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}

	_, err = s.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("ticket_id"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("ticket_id"),
				KeyType:       types.KeyTypeHash,
			},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		return fmt.Errorf("dynamostore: create table %s: %w", s.table, err)
	}
	return nil
}

func (s *DynamoStore) Create(ctx context.Context, t *model.Ticket) error {
	if t == nil {
		return fmt.Errorf("dynamostore: nil ticket")
	}
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	assigned := t.ID == ""
	for attempt := 1; ; attempt++ {
		if assigned {
			t.ID = NewID()
		}
		_, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.table),
			ConditionExpression: aws.String("attribute_not_exists(ticket_id)"),
			Item: map[string]types.AttributeValue{
				"ticket_id":  &types.AttributeValueMemberS{Value: t.ID},
				"user_id":    &types.AttributeValueMemberN{Value: strconv.FormatInt(t.UserID, 10)},
				"department": &types.AttributeValueMemberS{Value: t.Department},
				"status":     &types.AttributeValueMemberS{Value: string(t.Status)},
				"issue":      &types.AttributeValueMemberS{Value: t.Issue},
				"created_at": &types.AttributeValueMemberS{Value: t.CreatedAt.Format(time.RFC3339)},
			},
		})
		if err == nil {
			return nil
		}
		var cond *types.ConditionalCheckFailedException
		if !assigned || !errors.As(err, &cond) || attempt >= createAttempts {
			return fmt.Errorf("dynamostore: put ticket: %w", err)
		}
		logger.DB.Warn("ticket id collision",
			slog.String("event", "ticket.id_collision"),
			slog.String("ticket_id", t.ID),
			slog.Int("attempt", attempt),
		)
	}
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*model.Ticket, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"ticket_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamostore: get ticket: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	return itemToTicket(out.Item)
}

func (s *DynamoStore) Close(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"ticket_id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET #st = :closed, closed_at = :at"),
		ConditionExpression: aws.String("attribute_exists(ticket_id) AND #st = :open"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":closed": &types.AttributeValueMemberS{Value: string(model.StatusClosed)},
			":open":   &types.AttributeValueMemberS{Value: string(model.StatusOpen)},
			":at":     &types.AttributeValueMemberS{Value: now},
		},
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrNotFound
		}
		return fmt.Errorf("dynamostore: close ticket: %w", err)
	}
	return nil
}

func itemToTicket(item map[string]types.AttributeValue) (*model.Ticket, error) {
	t := model.Ticket{
		ID:         stringAttr(item, "ticket_id"),
		Department: stringAttr(item, "department"),
		Status:     model.Status(stringAttr(item, "status")),
		Issue:      stringAttr(item, "issue"),
	}

	if v, ok := item["user_id"].(*types.AttributeValueMemberN); ok {
		uid, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dynamostore: parse user_id %q: %w", v.Value, err)
		}
		t.UserID = uid
	}

	if v := stringAttr(item, "created_at"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("dynamostore: parse created_at %q: %w", v, err)
		}
		t.CreatedAt = ts
	}
	if v := stringAttr(item, "closed_at"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("dynamostore: parse closed_at %q: %w", v, err)
		}
		t.ClosedAt = &ts
	}
	return &t, nil
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
