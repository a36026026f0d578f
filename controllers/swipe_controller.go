package controllers

import (
	"net/http"

	"dropby_server/services"

	"github.com/gorilla/mux"
)

// SwipeController handles API requests against the swipe ledger.
type SwipeController struct {
	SwipeService *services.SwipeService
}

// RecordSwipeHandler records a swipe and reports whether it produced a
// match. 201 on success; degraded side effects surface in the body, not
// the status.
func (c *SwipeController) RecordSwipeHandler(w http.ResponseWriter, r *http.Request) {
	swiperID, ok := actor(w, r)
	if !ok {
		return
	}

	var request struct {
		TargetUserID   string `json:"targetUserId" validate:"required"`
		SwipeDirection string `json:"swipeDirection" validate:"required"`
		Message        string `json:"message,omitempty"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := c.SwipeService.RecordSwipe(ctx, swiperID, request.TargetUserID, request.SwipeDirection, request.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, result)
}

// GetSwipeHistoryHandler returns the caller's active swipes, optionally
// filtered by direction.
func (c *SwipeController) GetSwipeHistoryHandler(w http.ResponseWriter, r *http.Request) {
	swiperID, ok := actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	entries, err := c.SwipeService.History(ctx, swiperID, r.URL.Query().Get("direction"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

// DeleteSwipeHandler soft-deletes the caller's swipe on a target.
func (c *SwipeController) DeleteSwipeHandler(w http.ResponseWriter, r *http.Request) {
	swiperID, ok := actor(w, r)
	if !ok {
		return
	}
	targetUserID := mux.Vars(r)["targetUserId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := c.SwipeService.Delete(ctx, swiperID, targetUserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "swipe deleted successfully",
	})
}
