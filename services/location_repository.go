package services

import (
	"context"
	"fmt"

	"dropby_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LocationRepository implements LocationStore on the Locations table.
// Drop time is the sort key, so the daily quota count is a key-range
// query and every ping stays queryable after deactivation.
type LocationRepository struct {
	Dynamo *DynamoService
}

func (r *LocationRepository) InsertPing(ctx context.Context, ping *models.LocationPing) error {
	return r.Dynamo.PutItem(ctx, models.LocationsTable, ping)
}

func (r *LocationRepository) ActivePing(ctx context.Context, userID, now string) (*models.LocationPing, error) {
	pings, err := r.queryUserPings(ctx, userID)
	if err != nil {
		return nil, err
	}

	var latest *models.LocationPing
	for i := range pings {
		p := &pings[i]
		if !p.IsActive || p.ExpiresAt <= now {
			continue
		}
		if latest == nil || p.DroppedAt > latest.DroppedAt {
			latest = p
		}
	}
	return latest, nil
}

func (r *LocationRepository) CountDropsSince(ctx context.Context, userID, since string) (int, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.LocationsTable,
		"userId = :user AND droppedAt >= :since",
		map[string]types.AttributeValue{
			":user":  &types.AttributeValueMemberS{Value: userID},
			":since": &types.AttributeValueMemberS{Value: since},
		}, nil, 50)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// DeactivatePings marks every active ping for the user inactive. Runs
// before a new drop is inserted so a consistent reader never sees two
// active pings for one user.
func (r *LocationRepository) DeactivatePings(ctx context.Context, userID string) (int, error) {
	pings, err := r.queryUserPings(ctx, userID)
	if err != nil {
		return 0, err
	}

	deactivated := 0
	for _, p := range pings {
		if !p.IsActive {
			continue
		}
		_, err := r.Dynamo.UpdateItem(ctx, models.LocationsTable, "SET isActive = :inactive",
			map[string]types.AttributeValue{
				"userId":    &types.AttributeValueMemberS{Value: p.UserID},
				"droppedAt": &types.AttributeValueMemberS{Value: p.DroppedAt},
			},
			map[string]types.AttributeValue{
				":inactive": &types.AttributeValueMemberBOOL{Value: false},
			}, nil)
		if err != nil {
			return deactivated, err
		}
		deactivated++
	}
	return deactivated, nil
}

func (r *LocationRepository) ListActivePings(ctx context.Context, now string) ([]models.LocationPing, error) {
	var pings []models.LocationPing
	err := r.Dynamo.ScanItems(ctx, models.LocationsTable,
		"isActive = :active AND expiresAt > :now",
		map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
			":now":    &types.AttributeValueMemberS{Value: now},
		}, nil, &pings)
	if err != nil {
		return nil, err
	}
	return pings, nil
}

func (r *LocationRepository) queryUserPings(ctx context.Context, userID string) ([]models.LocationPing, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.LocationsTable, "userId = :user",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		}, nil, 50)
	if err != nil {
		return nil, err
	}

	var pings []models.LocationPing
	if err := attributevalue.UnmarshalListOfMaps(items, &pings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pings: %w", err)
	}
	return pings, nil
}
