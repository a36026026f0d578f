package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"dropby_server/middleware"
	"dropby_server/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// requestContext bounds every storage round-trip a handler makes.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

// actor returns the authenticated caller's id; writes a 401 and returns
// false when the auth middleware did not run.
func actor(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "authentication required",
		})
		return "", false
	}
	return userID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "invalid request payload",
		})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// writeError maps the service error taxonomy onto HTTP statuses.
// Conflicts carry the existing record so clients can reconcile.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		authErr       *services.AuthorizationError
		quotaErr      *services.QuotaExceededError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": validationErr.Reason,
		})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": notFoundErr.Error(),
		})
	case errors.As(err, &conflictErr):
		body := map[string]interface{}{
			"success": false,
			"message": conflictErr.Reason,
		}
		if conflictErr.Existing != nil {
			body["existing"] = conflictErr.Existing
		}
		writeJSON(w, http.StatusConflict, body)
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"success": false,
			"message": authErr.Reason,
		})
	case errors.As(err, &quotaErr):
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"success": false,
			"message": quotaErr.Error(),
		})
	default:
		log.Printf("❌ Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "internal server error",
		})
	}
}
