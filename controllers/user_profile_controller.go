package controllers

import (
	"encoding/json"
	"net/http"

	"dropby_server/models"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController exposes the read surface of the user directory
// and the closed set of profile updates.
type UserProfileController struct {
	ProfileService *services.UserProfileService
}

// GetCardHandler returns another user's public card.
func (c *UserProfileController) GetCardHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	userID := mux.Vars(r)["userId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	card, err := c.ProfileService.Card(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, card)
}

// UpdateProfileHandler applies enumerated updates to the caller's own
// profile. Each entry names its variant; unknown variants are rejected.
func (c *UserProfileController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	var request struct {
		Updates []profileUpdateRequest `json:"updates" validate:"required,min=1,dive"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	updates := make([]models.ProfileUpdate, 0, len(request.Updates))
	for _, raw := range request.Updates {
		update, err := raw.toUpdate()
		if err != nil {
			writeError(w, err)
			return
		}
		updates = append(updates, update)
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := c.ProfileService.UpdateProfile(ctx, userID, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// profileUpdateRequest is the wire form of one enumerated update.
type profileUpdateRequest struct {
	Kind  string          `json:"kind" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

func (p profileUpdateRequest) toUpdate() (models.ProfileUpdate, error) {
	switch p.Kind {
	case "displayName":
		var u models.SetDisplayName
		if err := json.Unmarshal(p.Value, &u); err != nil {
			return nil, &services.ValidationError{Reason: "invalid displayName update"}
		}
		return u, nil
	case "bio":
		var u models.SetBio
		if err := json.Unmarshal(p.Value, &u); err != nil {
			return nil, &services.ValidationError{Reason: "invalid bio update"}
		}
		return u, nil
	case "primaryPhoto":
		var u models.SetPrimaryPhoto
		if err := json.Unmarshal(p.Value, &u); err != nil {
			return nil, &services.ValidationError{Reason: "invalid primaryPhoto update"}
		}
		return u, nil
	case "gender":
		var u models.SetGender
		if err := json.Unmarshal(p.Value, &u); err != nil {
			return nil, &services.ValidationError{Reason: "invalid gender update"}
		}
		return u, nil
	default:
		return nil, &services.ValidationError{Reason: "unsupported profile update kind: " + p.Kind}
	}
}
