package services

import (
	"context"
	"errors"
	"fmt"

	"dropby_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserRepository implements UserStore on the UserProfiles table.
type UserRepository struct {
	Dynamo *DynamoService
}

func (r *UserRepository) FindUser(ctx context.Context, userID string) (*models.UserRecord, error) {
	item, err := r.Dynamo.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user models.UserRecord
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	return &user, nil
}

// ApplyUpdate writes exactly one enumerated profile mutation. The switch
// is the whole update surface; there is no generic field/value path.
func (r *UserRepository) ApplyUpdate(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserRecord, error) {
	var (
		updateExpression string
		values           map[string]types.AttributeValue
	)

	switch u := update.(type) {
	case models.SetDisplayName:
		updateExpression = "SET firstName = :first, lastName = :last"
		values = map[string]types.AttributeValue{
			":first": &types.AttributeValueMemberS{Value: u.FirstName},
			":last":  &types.AttributeValueMemberS{Value: u.LastName},
		}
	case models.SetBio:
		updateExpression = "SET bio = :bio"
		values = map[string]types.AttributeValue{
			":bio": &types.AttributeValueMemberS{Value: u.Bio},
		}
	case models.SetPrimaryPhoto:
		updateExpression = "SET photoKey = :photo"
		values = map[string]types.AttributeValue{
			":photo": &types.AttributeValueMemberS{Value: u.PhotoKey},
		}
	case models.SetGender:
		updateExpression = "SET gender = :gender"
		values = map[string]types.AttributeValue{
			":gender": &types.AttributeValueMemberS{Value: u.Gender},
		}
	default:
		return nil, &ValidationError{Reason: "unsupported profile update"}
	}

	attrs, err := r.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression,
		map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		}, values, nil)
	if err != nil {
		return nil, err
	}

	var user models.UserRecord
	if err := attributevalue.UnmarshalMap(attrs, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	return &user, nil
}
