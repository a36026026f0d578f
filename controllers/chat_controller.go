package controllers

import (
	"net/http"

	"dropby_server/services"

	"github.com/gorilla/mux"
)

// ChatController handles API requests for chat rooms.
type ChatController struct {
	ChatService *services.ChatService
}

// CreateRoomHandler provisions (or returns) the room for the caller and
// another connected user. Safe to call repeatedly.
func (c *ChatController) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	var request struct {
		OtherUserID string `json:"otherUserId" validate:"required"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	room, err := c.ChatService.CreateOrGetRoom(ctx, userID, request.OtherUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, room)
}

// ListRoomsHandler returns the caller's chat rooms.
func (c *ChatController) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	rooms, err := c.ChatService.ListRoomsForUser(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, rooms)
}

// MarkReadHandler resets the caller's unread count for a room.
func (c *ChatController) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	roomID := mux.Vars(r)["roomId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := c.ChatService.MarkRead(ctx, roomID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "messages marked as read",
	})
}
