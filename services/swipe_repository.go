package services

import (
	"context"
	"errors"
	"fmt"

	"dropby_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SwipeRepository implements SwipeStore on the Swipes table.
type SwipeRepository struct {
	Dynamo *DynamoService
}

// InsertSwipe claims the (swiper, target) slot with a conditional put.
// RFC3339 UTC strings compare lexicographically in time order, so the
// cooldown comparison happens inside the condition expression and the
// whole check-and-claim is a single atomic write.
func (r *SwipeRepository) InsertSwipe(ctx context.Context, swipe *models.Swipe, now string) error {
	condition := "attribute_not_exists(swiperId) OR (isActive = :inactive AND cooldownExpiresAt < :now)"
	err := r.Dynamo.PutItemWithCondition(ctx, models.SwipesTable, swipe, condition, nil,
		map[string]types.AttributeValue{
			":inactive": &types.AttributeValueMemberBOOL{Value: false},
			":now":      &types.AttributeValueMemberS{Value: now},
		})
	if errors.Is(err, ErrConditionFailed) {
		return ErrSwipeSlotTaken
	}
	return err
}

func (r *SwipeRepository) GetSwipe(ctx context.Context, swiperID, targetUserID string) (*models.Swipe, error) {
	item, err := r.Dynamo.GetItem(ctx, models.SwipesTable, map[string]types.AttributeValue{
		"swiperId":     &types.AttributeValueMemberS{Value: swiperID},
		"targetUserId": &types.AttributeValueMemberS{Value: targetUserID},
	})
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var swipe models.Swipe
	if err := attributevalue.UnmarshalMap(item, &swipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipe: %w", err)
	}
	return &swipe, nil
}

func (r *SwipeRepository) ListBySwiper(ctx context.Context, swiperID string) ([]models.Swipe, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.SwipesTable, "swiperId = :swiper",
		map[string]types.AttributeValue{
			":swiper": &types.AttributeValueMemberS{Value: swiperID},
		}, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to query swipes: %w", err)
	}

	var swipes []models.Swipe
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}
	return swipes, nil
}

// DeactivateSwipe soft-deletes a swipe. The record and its cooldown stay
// in place, which is what keeps the cooldown honored across deletes.
func (r *SwipeRepository) DeactivateSwipe(ctx context.Context, swiperID, targetUserID string) error {
	_, err := r.Dynamo.UpdateItem(ctx, models.SwipesTable, "SET isActive = :inactive",
		map[string]types.AttributeValue{
			"swiperId":     &types.AttributeValueMemberS{Value: swiperID},
			"targetUserId": &types.AttributeValueMemberS{Value: targetUserID},
		},
		map[string]types.AttributeValue{
			":inactive": &types.AttributeValueMemberBOOL{Value: false},
		}, nil)
	return err
}
