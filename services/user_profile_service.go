package services

import (
	"context"
	"log"

	"dropby_server/models"
)

// UserProfileService is the user directory the match flows consume. It
// reads UserProfiles, resolves photo keys to URLs, and applies the
// closed set of profile updates. It implements Directory.
type UserProfileService struct {
	Users  UserStore
	Photos PhotoURLSigner
}

// Lookup returns the raw user record, or a NotFoundError.
func (ups *UserProfileService) Lookup(ctx context.Context, userID string) (*models.UserRecord, error) {
	user, err := ups.Users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "user", ID: userID}
	}
	return user, nil
}

// Card builds the public card other users see. A photo key that fails to
// presign degrades to a card without a photo rather than failing the
// caller.
func (ups *UserProfileService) Card(ctx context.Context, userID string) (*models.UserSummary, error) {
	user, err := ups.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	photoURL := ""
	if user.PhotoKey != "" && ups.Photos != nil {
		photoURL, err = ups.Photos.PhotoURL(ctx, user.PhotoKey)
		if err != nil {
			log.Printf("⚠️ Failed to presign photo for %s: %v", userID, err)
			photoURL = ""
		}
	}

	return &models.UserSummary{
		UserID:   user.UserID,
		Name:     user.DisplayName(),
		PhotoURL: photoURL,
		Bio:      user.Bio,
		Gender:   user.Gender,
	}, nil
}

// UpdateProfile applies enumerated updates in order. The first
// unsupported variant rejects the whole request.
func (ups *UserProfileService) UpdateProfile(ctx context.Context, userID string, updates []models.ProfileUpdate) (*models.UserRecord, error) {
	if len(updates) == 0 {
		return nil, &ValidationError{Reason: "no profile updates provided"}
	}
	if _, err := ups.Lookup(ctx, userID); err != nil {
		return nil, err
	}

	var user *models.UserRecord
	for _, update := range updates {
		var err error
		user, err = ups.Users.ApplyUpdate(ctx, userID, update)
		if err != nil {
			return nil, err
		}
	}
	return user, nil
}
