package services

import (
	"context"
	"errors"
	"fmt"

	"dropby_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConnectionRepository implements ConnectionStore on the Connections
// table. The pair key as partition key is the uniqueness guarantee for
// the unordered pair; connectionId lookups go through a GSI.
type ConnectionRepository struct {
	Dynamo *DynamoService
}

func (r *ConnectionRepository) InsertConnection(ctx context.Context, conn *models.Connection) error {
	err := r.Dynamo.PutItemWithCondition(ctx, models.ConnectionsTable, conn,
		"attribute_not_exists(pairKey)", nil, nil)
	if errors.Is(err, ErrConditionFailed) {
		return ErrConnectionExists
	}
	return err
}

func (r *ConnectionRepository) GetByPair(ctx context.Context, pairKey string) (*models.Connection, error) {
	item, err := r.Dynamo.GetItem(ctx, models.ConnectionsTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	})
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var conn models.Connection
	if err := attributevalue.UnmarshalMap(item, &conn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}
	return &conn, nil
}

func (r *ConnectionRepository) GetByID(ctx context.Context, connectionID string) (*models.Connection, error) {
	items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.ConnectionsTable, models.ConnectionIDIndex,
		"connectionId = :id",
		map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: connectionID},
		}, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var conn models.Connection
	if err := attributevalue.UnmarshalMap(items[0], &conn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}
	return &conn, nil
}

// UpdateStatus transitions a connection out of pending. The condition on
// the current status makes concurrent responders race safely: exactly
// one transition wins, the rest get ErrStaleTransition.
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, pairKey, newStatus, respondedAt string, isActive bool) (*models.Connection, error) {
	updateExpression := "SET #status = :status, isActive = :active"
	values := map[string]types.AttributeValue{
		":status":  &types.AttributeValueMemberS{Value: newStatus},
		":active":  &types.AttributeValueMemberBOOL{Value: isActive},
		":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
	}
	if respondedAt != "" {
		updateExpression += ", respondedAt = :respondedAt"
		values[":respondedAt"] = &types.AttributeValueMemberS{Value: respondedAt}
	}

	attrs, err := r.Dynamo.UpdateItemWithCondition(ctx, models.ConnectionsTable,
		updateExpression, "#status = :pending",
		map[string]types.AttributeValue{
			"pairKey": &types.AttributeValueMemberS{Value: pairKey},
		},
		values,
		map[string]string{"#status": "status"})
	if errors.Is(err, ErrConditionFailed) {
		return nil, ErrStaleTransition
	}
	if err != nil {
		return nil, err
	}

	var conn models.Connection
	if err := attributevalue.UnmarshalMap(attrs, &conn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}
	return &conn, nil
}

func (r *ConnectionRepository) ListBySender(ctx context.Context, senderID string) ([]models.Connection, error) {
	return r.listByIndex(ctx, models.ConnectionSenderIndex, "senderId = :user", senderID)
}

func (r *ConnectionRepository) ListByReceiver(ctx context.Context, receiverID string) ([]models.Connection, error) {
	return r.listByIndex(ctx, models.ConnectionReceiverIndex, "receiverId = :user", receiverID)
}

func (r *ConnectionRepository) listByIndex(ctx context.Context, index, keyCondition, userID string) ([]models.Connection, error) {
	items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.ConnectionsTable, index, keyCondition,
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		}, nil, 100)
	if err != nil {
		return nil, err
	}

	var conns []models.Connection
	if err := attributevalue.UnmarshalListOfMaps(items, &conns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
	}
	return conns, nil
}
