package services

import (
	"context"

	"dropby_server/models"
)

// The stores below are the seams between services and DynamoDB. Services
// depend on these interfaces; the *_repository.go files implement them on
// DynamoService, and tests swap in in-memory fakes that keep the same
// uniqueness semantics.

// SwipeStore persists the append-only swipe ledger.
type SwipeStore interface {
	// InsertSwipe claims the (swiper, target) slot. The slot is free when
	// no record exists, or when the existing record is soft-deleted AND
	// its cooldown has expired. Returns ErrSwipeSlotTaken otherwise.
	InsertSwipe(ctx context.Context, swipe *models.Swipe, now string) error
	// GetSwipe returns (nil, nil) when no record exists for the pair.
	GetSwipe(ctx context.Context, swiperID, targetUserID string) (*models.Swipe, error)
	ListBySwiper(ctx context.Context, swiperID string) ([]models.Swipe, error)
	DeactivateSwipe(ctx context.Context, swiperID, targetUserID string) error
}

// ConnectionStore persists connection records keyed by the sorted pair.
type ConnectionStore interface {
	// InsertConnection returns ErrConnectionExists when the pair slot is
	// already occupied.
	InsertConnection(ctx context.Context, conn *models.Connection) error
	GetByPair(ctx context.Context, pairKey string) (*models.Connection, error)
	GetByID(ctx context.Context, connectionID string) (*models.Connection, error)
	// UpdateStatus transitions a pending connection. Returns
	// ErrStaleTransition when the record is no longer pending.
	UpdateStatus(ctx context.Context, pairKey, newStatus, respondedAt string, isActive bool) (*models.Connection, error)
	ListBySender(ctx context.Context, senderID string) ([]models.Connection, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]models.Connection, error)
}

// ChatRoomStore persists chat rooms keyed by the sorted pair.
type ChatRoomStore interface {
	// InsertRoom returns ErrRoomExists when the pair already has a room.
	InsertRoom(ctx context.Context, room *models.ChatRoom) error
	GetByPair(ctx context.Context, pairKey string) (*models.ChatRoom, error)
	GetByRoomID(ctx context.Context, roomID string) (*models.ChatRoom, error)
	ListForUser(ctx context.Context, userID string) ([]models.ChatRoom, error)
	SetLastMessage(ctx context.Context, pairKey string, preview models.MessagePreview, unreadFor, updatedAt string) error
	ResetUnread(ctx context.Context, pairKey, userID, updatedAt string) error
}

// LocationStore persists location pings. All pings are retained; only
// reads filter down to active, unexpired ones.
type LocationStore interface {
	InsertPing(ctx context.Context, ping *models.LocationPing) error
	// ActivePing returns (nil, nil) when the user has no active,
	// unexpired ping.
	ActivePing(ctx context.Context, userID, now string) (*models.LocationPing, error)
	CountDropsSince(ctx context.Context, userID, since string) (int, error)
	DeactivatePings(ctx context.Context, userID string) (int, error)
	ListActivePings(ctx context.Context, now string) ([]models.LocationPing, error)
}

// UserStore reads and narrowly updates the user directory table.
type UserStore interface {
	// FindUser returns (nil, nil) for an unknown user.
	FindUser(ctx context.Context, userID string) (*models.UserRecord, error)
	ApplyUpdate(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserRecord, error)
}

// Directory is the user-lookup collaborator the match flows consume:
// profile CRUD lives elsewhere, this is the read surface plus the public
// card with a resolved photo URL.
type Directory interface {
	Lookup(ctx context.Context, userID string) (*models.UserRecord, error)
	Card(ctx context.Context, userID string) (*models.UserSummary, error)
}

// Deliverer is the transport-level event delivery capability. The socket
// hub implements it; delivery is best-effort and DeliverToUser reports
// whether the user had a live session.
type Deliverer interface {
	DeliverToUser(userID, event string, payload interface{}) bool
}

// PhotoURLSigner resolves a stored photo key into a fetchable URL.
type PhotoURLSigner interface {
	PhotoURL(ctx context.Context, key string) (string, error)
}
