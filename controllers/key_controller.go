package controllers

import (
	"net/http"

	"dropby_server/services"

	"github.com/gorilla/mux"
)

// KeyController hands out per-room shared keys to room participants.
type KeyController struct {
	Keys        services.RoomKeyStore
	ChatService *services.ChatService
}

// GetKeyHandler returns the room's shared key, generating one on first
// request. Only participants may fetch it.
func (c *KeyController) GetKeyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	roomID := mux.Vars(r)["roomId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := c.ChatService.GetRoomForUser(ctx, roomID, userID); err != nil {
		writeError(w, err)
		return
	}

	key, err := c.Keys.EnsureKey(roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{
		"roomId": roomID,
		"key":    key,
	})
}

// EvictKeyHandler drops the room's shared key so the next fetch rotates
// it. Only participants may evict.
func (c *KeyController) EvictKeyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	roomID := mux.Vars(r)["roomId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := c.ChatService.GetRoomForUser(ctx, roomID, userID); err != nil {
		writeError(w, err)
		return
	}

	c.Keys.Evict(roomID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "room key evicted",
	})
}
