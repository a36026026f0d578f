package services

import (
	"context"
	"errors"
	"fmt"

	"dropby_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ChatRoomRepository implements ChatRoomStore on the ChatRooms table.
type ChatRoomRepository struct {
	Dynamo *DynamoService
}

func (r *ChatRoomRepository) InsertRoom(ctx context.Context, room *models.ChatRoom) error {
	err := r.Dynamo.PutItemWithCondition(ctx, models.ChatRoomsTable, room,
		"attribute_not_exists(pairKey)", nil, nil)
	if errors.Is(err, ErrConditionFailed) {
		return ErrRoomExists
	}
	return err
}

func (r *ChatRoomRepository) GetByPair(ctx context.Context, pairKey string) (*models.ChatRoom, error) {
	item, err := r.Dynamo.GetItem(ctx, models.ChatRoomsTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	})
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalRoom(item)
}

func (r *ChatRoomRepository) GetByRoomID(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.ChatRoomsTable, models.RoomIDIndex,
		"roomId = :room",
		map[string]types.AttributeValue{
			":room": &types.AttributeValueMemberS{Value: roomID},
		}, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return unmarshalRoom(items[0])
}

// ListForUser queries both participant GSIs; each user appears in exactly
// one slot per room because participants are stored sorted.
func (r *ChatRoomRepository) ListForUser(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	queries := []struct {
		index        string
		keyCondition string
	}{
		{models.RoomParticipantAIndex, "participantA = :user"},
		{models.RoomParticipantBIndex, "participantB = :user"},
	}
	for _, q := range queries {
		items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.ChatRoomsTable, q.index, q.keyCondition,
			map[string]types.AttributeValue{
				":user": &types.AttributeValueMemberS{Value: userID},
			}, nil, 100)
		if err != nil {
			return nil, err
		}
		var page []models.ChatRoom
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat rooms: %w", err)
		}
		rooms = append(rooms, page...)
	}
	return rooms, nil
}

func (r *ChatRoomRepository) SetLastMessage(ctx context.Context, pairKey string, preview models.MessagePreview, unreadFor, updatedAt string) error {
	previewAttr, err := attributevalue.Marshal(preview)
	if err != nil {
		return fmt.Errorf("failed to marshal message preview: %w", err)
	}

	_, err = r.Dynamo.UpdateItem(ctx, models.ChatRoomsTable,
		"SET lastMessage = :preview, updatedAt = :now, unreadCounts.#uid = if_not_exists(unreadCounts.#uid, :zero) + :one",
		map[string]types.AttributeValue{
			"pairKey": &types.AttributeValueMemberS{Value: pairKey},
		},
		map[string]types.AttributeValue{
			":preview": previewAttr,
			":now":     &types.AttributeValueMemberS{Value: updatedAt},
			":zero":    &types.AttributeValueMemberN{Value: "0"},
			":one":     &types.AttributeValueMemberN{Value: "1"},
		},
		map[string]string{"#uid": unreadFor})
	return err
}

func (r *ChatRoomRepository) ResetUnread(ctx context.Context, pairKey, userID, updatedAt string) error {
	_, err := r.Dynamo.UpdateItem(ctx, models.ChatRoomsTable,
		"SET unreadCounts.#uid = :zero, updatedAt = :now",
		map[string]types.AttributeValue{
			"pairKey": &types.AttributeValueMemberS{Value: pairKey},
		},
		map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":now":  &types.AttributeValueMemberS{Value: updatedAt},
		},
		map[string]string{"#uid": userID})
	return err
}

func unmarshalRoom(item map[string]types.AttributeValue) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := attributevalue.UnmarshalMap(item, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat room: %w", err)
	}
	return &room, nil
}
