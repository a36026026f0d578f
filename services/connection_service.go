package services

import (
	"context"
	"errors"
	"log"
	"time"

	"dropby_server/models"
	"dropby_server/utils"

	"github.com/google/uuid"
)

// Connection list kinds.
const (
	ListReceived = "received"
	ListSent     = "sent"
	ListActive   = "active"
)

// ConnectionService owns the request/accept/reject/withdraw lifecycle
// and the direct-to-accepted path used by the match orchestrator.
type ConnectionService struct {
	Connections ConnectionStore
	Directory   Directory
	Clock       Clock
}

func (cs *ConnectionService) now() time.Time {
	if cs.Clock == nil {
		return SystemClock.Now()
	}
	return cs.Clock.Now()
}

// SendRequest creates a pending connection. At most one connection can
// exist per unordered pair; the conditional insert closes the race
// between two users requesting each other at once.
func (cs *ConnectionService) SendRequest(ctx context.Context, senderID, receiverID, message string) (*models.Connection, error) {
	if senderID == receiverID {
		return nil, &ValidationError{Reason: "cannot send a connection request to yourself"}
	}
	if _, err := cs.Directory.Lookup(ctx, receiverID); err != nil {
		return nil, err
	}

	pairKey := utils.PairKey(senderID, receiverID)
	existing, err := cs.Connections.GetByPair(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Reason: "a connection already exists for this pair", Existing: existing}
	}

	conn := &models.Connection{
		PairKey:      pairKey,
		ConnectionID: uuid.NewString(),
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Status:       models.StatusPending,
		Message:      message,
		SentAt:       FormatTime(cs.now()),
		IsActive:     false,
	}
	err = cs.Connections.InsertConnection(ctx, conn)
	if errors.Is(err, ErrConnectionExists) {
		winner, fetchErr := cs.Connections.GetByPair(ctx, pairKey)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, &ConflictError{Reason: "a connection already exists for this pair", Existing: winner}
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Accept transitions a pending request; only the receiver may accept.
func (cs *ConnectionService) Accept(ctx context.Context, connectionID, actingUserID string) (*models.Connection, error) {
	return cs.respond(ctx, connectionID, actingUserID, models.StatusAccepted)
}

// Reject transitions a pending request; only the receiver may reject.
func (cs *ConnectionService) Reject(ctx context.Context, connectionID, actingUserID string) (*models.Connection, error) {
	return cs.respond(ctx, connectionID, actingUserID, models.StatusRejected)
}

// Withdraw cancels a pending request; only the sender may withdraw.
func (cs *ConnectionService) Withdraw(ctx context.Context, connectionID, actingUserID string) (*models.Connection, error) {
	return cs.respond(ctx, connectionID, actingUserID, models.StatusWithdrawn)
}

func (cs *ConnectionService) respond(ctx context.Context, connectionID, actingUserID, newStatus string) (*models.Connection, error) {
	conn, err := cs.Connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, &NotFoundError{Resource: "connection request", ID: connectionID}
	}

	switch newStatus {
	case models.StatusAccepted, models.StatusRejected:
		if conn.ReceiverID != actingUserID {
			return nil, &AuthorizationError{Reason: "only the receiver may respond to this request"}
		}
	case models.StatusWithdrawn:
		if conn.SenderID != actingUserID {
			return nil, &AuthorizationError{Reason: "only the sender may withdraw this request"}
		}
	}

	if conn.Status != models.StatusPending {
		return nil, &ConflictError{Reason: "request is not pending", Existing: conn}
	}

	respondedAt := ""
	if newStatus != models.StatusWithdrawn {
		respondedAt = FormatTime(cs.now())
	}

	updated, err := cs.Connections.UpdateStatus(ctx, conn.PairKey, newStatus, respondedAt, newStatus == models.StatusAccepted)
	if errors.Is(err, ErrStaleTransition) {
		// A concurrent responder won; report the final state.
		current, fetchErr := cs.Connections.GetByPair(ctx, conn.PairKey)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, &ConflictError{Reason: "request is not pending", Existing: current}
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateFromMatch provisions the accepted connection for a mutual match.
// Two racing swipes both land here: the conditional insert lets exactly
// one win, and the loser re-reads and adopts the winner's record. An
// existing rejected or withdrawn connection is terminal and is returned
// untouched; a match does not override a user's earlier decision.
func (cs *ConnectionService) CreateFromMatch(ctx context.Context, userA, userB string) (*models.Connection, error) {
	pairKey := utils.PairKey(userA, userB)

	existing, err := cs.Connections.GetByPair(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := FormatTime(cs.now())
	conn := &models.Connection{
		PairKey:      pairKey,
		ConnectionID: uuid.NewString(),
		SenderID:     userA,
		ReceiverID:   userB,
		Status:       models.StatusAccepted,
		SentAt:       now,
		RespondedAt:  now,
		IsActive:     true,
	}
	err = cs.Connections.InsertConnection(ctx, conn)
	if errors.Is(err, ErrConnectionExists) {
		log.Printf("🔁 Connection insert for %s lost the race, adopting the winner", pairKey)
		winner, fetchErr := cs.Connections.GetByPair(ctx, pairKey)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if winner == nil {
			return nil, errors.New("connection vanished after conflicting insert")
		}
		return winner, nil
	}
	if err != nil {
		return nil, err
	}

	log.Printf("🎉 New connection %s created between %s and %s", conn.ConnectionID, userA, userB)
	return conn, nil
}

// List returns the caller's connections for one of the three kinds,
// each enriched with the other participant's card.
func (cs *ConnectionService) List(ctx context.Context, userID, kind string) ([]models.ConnectionWithProfile, error) {
	var conns []models.Connection
	var err error

	switch kind {
	case ListReceived:
		conns, err = cs.Connections.ListByReceiver(ctx, userID)
		conns = filterConnections(conns, func(c models.Connection) bool {
			return c.Status == models.StatusPending
		})
	case ListSent:
		conns, err = cs.Connections.ListBySender(ctx, userID)
		conns = filterConnections(conns, func(c models.Connection) bool {
			return c.Status != models.StatusWithdrawn
		})
	case ListActive:
		var sent, received []models.Connection
		sent, err = cs.Connections.ListBySender(ctx, userID)
		if err == nil {
			received, err = cs.Connections.ListByReceiver(ctx, userID)
		}
		conns = filterConnections(append(sent, received...), func(c models.Connection) bool {
			return c.Status == models.StatusAccepted && c.IsActive
		})
	default:
		return nil, &ValidationError{Reason: "kind must be one of received, sent, active"}
	}
	if err != nil {
		return nil, err
	}

	results := make([]models.ConnectionWithProfile, 0, len(conns))
	for _, conn := range conns {
		entry := models.ConnectionWithProfile{Connection: conn}
		card, cardErr := cs.Directory.Card(ctx, conn.OtherParty(userID))
		if cardErr != nil {
			log.Printf("⚠️ Failed to load profile card for connection %s: %v", conn.ConnectionID, cardErr)
		} else {
			entry.OtherUser = card
		}
		results = append(results, entry)
	}
	return results, nil
}

func filterConnections(conns []models.Connection, keep func(models.Connection) bool) []models.Connection {
	filtered := conns[:0:0]
	for _, c := range conns {
		if keep(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
