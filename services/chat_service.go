package services

import (
	"context"
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"dropby_server/models"
	"dropby_server/utils"
)

// ChatService bootstraps chat rooms and maintains their per-user
// metadata. Message bodies are relayed by the socket layer and never
// stored here; only the last-message preview and unread counts persist.
type ChatService struct {
	Rooms       ChatRoomStore
	Connections ConnectionStore
	Directory   Directory
	Clock       Clock
}

func (chs *ChatService) now() time.Time {
	if chs.Clock == nil {
		return SystemClock.Now()
	}
	return chs.Clock.Now()
}

// CreateOrGetRoom provisions the single room for a connected pair. The
// room id is derived from the sorted pair, so racing bootstrap attempts
// compute the same id; exactly one insert wins and the loser re-reads.
// Requires an accepted, active connection between the two users.
func (chs *ChatService) CreateOrGetRoom(ctx context.Context, userA, userB string) (*models.ChatRoom, error) {
	pairKey := utils.PairKey(userA, userB)

	conn, err := chs.Connections.GetByPair(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.Status != models.StatusAccepted || !conn.IsActive {
		return nil, &NotFoundError{Resource: "active connection"}
	}

	room, err := chs.Rooms.GetByPair(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	lo, hi := utils.SortPair(userA, userB)
	now := FormatTime(chs.now())
	room = &models.ChatRoom{
		PairKey:      pairKey,
		RoomID:       utils.RoomID(userA, userB),
		ParticipantA: lo,
		ParticipantB: hi,
		ConnectionID: conn.ConnectionID,
		UnreadCounts: map[string]int{lo: 0, hi: 0},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = chs.Rooms.InsertRoom(ctx, room)
	if errors.Is(err, ErrRoomExists) {
		log.Printf("🔁 Room insert for %s lost the race, adopting the winner", pairKey)
		winner, fetchErr := chs.Rooms.GetByPair(ctx, pairKey)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if winner == nil {
			return nil, errors.New("chat room vanished after conflicting insert")
		}
		return winner, nil
	}
	if err != nil {
		return nil, err
	}

	log.Printf("💬 Chat room %s created for %s and %s", room.RoomID, lo, hi)
	return room, nil
}

// GetRoomForUser fetches a room and verifies the caller belongs to it.
func (chs *ChatService) GetRoomForUser(ctx context.Context, roomID, userID string) (*models.ChatRoom, error) {
	room, err := chs.Rooms.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &NotFoundError{Resource: "chat room", ID: roomID}
	}
	if !room.HasParticipant(userID) {
		return nil, &AuthorizationError{Reason: "not a participant of this chat room"}
	}
	return room, nil
}

// ListRoomsForUser returns the caller's rooms as per-user summaries,
// most recently updated first is left to the client; order here follows
// the store.
func (chs *ChatService) ListRoomsForUser(ctx context.Context, userID string) ([]models.ChatRoomSummary, error) {
	rooms, err := chs.Rooms.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatRoomSummary, 0, len(rooms))
	for _, room := range rooms {
		if !room.IsActive {
			continue
		}
		summary := models.ChatRoomSummary{
			RoomID:      room.RoomID,
			LastMessage: room.LastMessage,
			UnreadCount: room.UnreadCounts[userID],
			UpdatedAt:   room.UpdatedAt,
		}
		card, cardErr := chs.Directory.Card(ctx, room.OtherParticipant(userID))
		if cardErr != nil {
			log.Printf("⚠️ Failed to load profile card for room %s: %v", room.RoomID, cardErr)
		} else {
			summary.OtherUser = card
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// RecordMessagePreview stores the truncated preview of a relayed message
// and bumps the other participant's unread count.
func (chs *ChatService) RecordMessagePreview(ctx context.Context, roomID, senderID, content string) (*models.ChatRoom, error) {
	room, err := chs.GetRoomForUser(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}

	preview := models.MessagePreview{
		Content:   truncate(content, models.PreviewMaxLen),
		SenderID:  senderID,
		Timestamp: FormatTime(chs.now()),
	}
	err = chs.Rooms.SetLastMessage(ctx, room.PairKey, preview, room.OtherParticipant(senderID), preview.Timestamp)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// MarkRead resets the caller's unread count for the room.
func (chs *ChatService) MarkRead(ctx context.Context, roomID, userID string) error {
	room, err := chs.GetRoomForUser(ctx, roomID, userID)
	if err != nil {
		return err
	}
	return chs.Rooms.ResetUnread(ctx, room.PairKey, userID, FormatTime(chs.now()))
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
