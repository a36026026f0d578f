package services

import (
	"context"
	"log"

	"dropby_server/models"
)

// MatchEvent is the payload each participant receives: it describes the
// OTHER user, plus the room when bootstrap succeeded.
type MatchEvent struct {
	MatchedUserID    string `json:"matchedUserId"`
	MatchedUserName  string `json:"matchedUserName"`
	MatchedUserPhoto string `json:"matchedUserPhoto,omitempty"`
	RoomID           string `json:"roomId,omitempty"`
	MatchedAt        string `json:"matchedAt"`
}

// NotificationService fans match events out to both participants'
// active sessions. Strictly best-effort: an offline user or a failed
// profile lookup is logged and skipped, never propagated.
type NotificationService struct {
	Deliverer Deliverer
	Directory Directory
}

// NotifyMatch pushes a new_match event to each participant describing
// the other one. Reports false when any delivery failed so the caller
// can surface the partial success.
func (ns *NotificationService) NotifyMatch(ctx context.Context, userA, userB string, match models.Match, roomID string) bool {
	delivered := ns.notifyOne(ctx, userA, userB, match, roomID)
	if !ns.notifyOne(ctx, userB, userA, match, roomID) {
		delivered = false
	}
	return delivered
}

func (ns *NotificationService) notifyOne(ctx context.Context, recipient, other string, match models.Match, roomID string) bool {
	card, err := ns.Directory.Card(ctx, other)
	if err != nil {
		log.Printf("⚠️ Skipping match notification to %s, card lookup for %s failed: %v", recipient, other, err)
		return false
	}

	delivered := ns.Deliverer.DeliverToUser(recipient, models.EventNewMatch, MatchEvent{
		MatchedUserID:    card.UserID,
		MatchedUserName:  card.Name,
		MatchedUserPhoto: card.PhotoURL,
		RoomID:           roomID,
		MatchedAt:        match.MatchedAt,
	})
	if !delivered {
		log.Printf("ℹ️ User %s has no active session, match notification dropped", recipient)
	}
	return delivered
}
