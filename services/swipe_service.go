package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"dropby_server/models"

	"github.com/google/uuid"
)

// SwipeService owns the swipe ledger and orchestrates the match flow:
// record the swipe, detect the mutual right-swipe, provision the
// connection and chat room, and fan the match event out to both users.
type SwipeService struct {
	Swipes      SwipeStore
	Directory   Directory
	Presence    *LocationService
	Connections *ConnectionService
	Chat        *ChatService
	Notifier    *NotificationService
	Clock       Clock
}

func (ss *SwipeService) now() time.Time {
	if ss.Clock == nil {
		return SystemClock.Now()
	}
	return ss.Clock.Now()
}

// RecordSwipe persists one directional decision and runs the match side
// effects. The ledger and connection writes are fatal to the request;
// chat bootstrap and notification failures only degrade the response.
func (ss *SwipeService) RecordSwipe(ctx context.Context, swiperID, targetUserID, direction, message string) (*models.SwipeResult, error) {
	if direction != models.DirectionRight && direction != models.DirectionLeft {
		return nil, &ValidationError{Reason: `direction must be either "right" or "left"`}
	}
	if swiperID == targetUserID {
		return nil, &ValidationError{Reason: "cannot swipe on yourself"}
	}
	if _, err := ss.Directory.Lookup(ctx, targetUserID); err != nil {
		return nil, err
	}
	if err := ss.Presence.RequireActivePresence(ctx, swiperID); err != nil {
		return nil, err
	}

	// Messages ride along only on right swipes.
	if direction != models.DirectionRight {
		message = ""
	}

	now := ss.now()
	cooldown := models.CooldownLeft
	if direction == models.DirectionRight {
		cooldown = models.CooldownRight
	}
	swipe := &models.Swipe{
		SwiperID:          swiperID,
		TargetUserID:      targetUserID,
		SwipeID:           uuid.NewString(),
		Direction:         direction,
		Message:           message,
		Timestamp:         FormatTime(now),
		IsActive:          true,
		CooldownExpiresAt: FormatTime(now.Add(cooldown)),
	}

	err := ss.Swipes.InsertSwipe(ctx, swipe, FormatTime(now))
	if errors.Is(err, ErrSwipeSlotTaken) {
		existing, fetchErr := ss.Swipes.GetSwipe(ctx, swiperID, targetUserID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, &ConflictError{Reason: "you have already swiped on this user", Existing: existing}
	}
	if err != nil {
		return nil, err
	}

	result := &models.SwipeResult{Swipe: *swipe}
	if direction != models.DirectionRight {
		return result, nil
	}

	match, err := ss.CheckForMatch(ctx, swipe)
	if err != nil {
		// The swipe is committed; a failed reverse lookup only costs the
		// immediate match detection, the other side's swipe will find it.
		log.Printf("⚠️ Match check failed for %s -> %s: %v", swiperID, targetUserID, err)
		result.Degraded = true
		return result, nil
	}
	if match == nil {
		return result, nil
	}

	result.IsMatch = true
	result.Match = match

	conn, err := ss.Connections.CreateFromMatch(ctx, swiperID, targetUserID)
	if err != nil {
		return nil, err
	}
	if conn.Status != models.StatusAccepted || !conn.IsActive {
		// The pair already carried a terminal rejection or withdrawal.
		// The match is reported, but no room is provisioned and no event
		// fires; the earlier decision stands.
		log.Printf("ℹ️ Match for %s and %s found a %s connection, leaving it untouched", swiperID, targetUserID, conn.Status)
		return result, nil
	}

	room, err := ss.Chat.CreateOrGetRoom(ctx, swiperID, targetUserID)
	if err != nil {
		degraded := &DownstreamDegradedError{Stage: "chat room bootstrap", Err: err}
		log.Printf("⚠️ %v", degraded)
		result.Degraded = true
	} else {
		result.RoomID = room.RoomID
	}

	if !ss.Notifier.NotifyMatch(ctx, swiperID, targetUserID, *match, result.RoomID) {
		// The match is committed either way; an undelivered event is the
		// same partial success as a failed room bootstrap.
		result.Degraded = true
	}
	return result, nil
}

// CheckForMatch looks up the reverse swipe. Read-only: all mutation
// happens in RecordSwipe. Only right swipes can match.
func (ss *SwipeService) CheckForMatch(ctx context.Context, swipe *models.Swipe) (*models.Match, error) {
	if swipe.Direction != models.DirectionRight {
		return nil, nil
	}
	reverse, err := ss.Swipes.GetSwipe(ctx, swipe.TargetUserID, swipe.SwiperID)
	if err != nil {
		return nil, err
	}
	if reverse == nil || !reverse.IsActive || reverse.Direction != models.DirectionRight {
		return nil, nil
	}
	return &models.Match{
		SwipeID:       swipe.SwipeID,
		MutualSwipeID: reverse.SwipeID,
		MatchedAt:     swipe.Timestamp,
	}, nil
}

// History returns the caller's active swipes, newest first, enriched
// with the target's card.
func (ss *SwipeService) History(ctx context.Context, swiperID, direction string) ([]models.SwipeHistoryEntry, error) {
	if direction != "" && direction != models.DirectionRight && direction != models.DirectionLeft {
		return nil, &ValidationError{Reason: `direction must be either "right" or "left"`}
	}

	swipes, err := ss.Swipes.ListBySwiper(ctx, swiperID)
	if err != nil {
		return nil, err
	}

	entries := []models.SwipeHistoryEntry{}
	for _, swipe := range swipes {
		if !swipe.IsActive {
			continue
		}
		if direction != "" && swipe.Direction != direction {
			continue
		}
		entry := models.SwipeHistoryEntry{Swipe: swipe}
		card, cardErr := ss.Directory.Card(ctx, swipe.TargetUserID)
		if cardErr != nil {
			log.Printf("⚠️ Failed to load card for swiped user %s: %v", swipe.TargetUserID, cardErr)
		} else {
			entry.TargetUser = card
		}
		entries = append(entries, entry)
	}

	// Newest first; timestamps are RFC3339 UTC so string order is time order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Swipe.Timestamp > entries[j].Swipe.Timestamp
	})
	return entries, nil
}

// Delete soft-deletes the caller's swipe on a target. The record and its
// cooldown are retained; re-swiping stays blocked until the cooldown
// expires.
func (ss *SwipeService) Delete(ctx context.Context, swiperID, targetUserID string) error {
	swipe, err := ss.Swipes.GetSwipe(ctx, swiperID, targetUserID)
	if err != nil {
		return err
	}
	if swipe == nil || !swipe.IsActive {
		return &NotFoundError{Resource: "swipe"}
	}
	return ss.Swipes.DeactivateSwipe(ctx, swiperID, targetUserID)
}
