package services

import (
	"errors"
	"fmt"
)

// Storage-level sentinels. Repositories translate DynamoDB conditional
// failures into these so services can reconcile instead of erroring.
var (
	ErrSwipeSlotTaken   = errors.New("swipe slot already taken for this pair")
	ErrConnectionExists = errors.New("connection already exists for this pair")
	ErrRoomExists       = errors.New("chat room already exists for this pair")
	ErrStaleTransition  = errors.New("connection status changed under us")
	ErrItemNotFound     = errors.New("item not found")
)

// ValidationError: the caller sent something it can fix.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError: the referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ConflictError: the request lost to an already-existing record. Existing
// carries that record so the caller can reconcile idempotently.
type ConflictError struct {
	Reason   string
	Existing interface{}
}

func (e *ConflictError) Error() string { return e.Reason }

// QuotaExceededError: the user hit a rate cap and can retry tomorrow.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily drop limit reached, you can only drop %d times per day", e.Limit)
}

// AuthorizationError: the acting user is not allowed to touch this
// record. Deliberately carries nothing about the record itself.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// DownstreamDegradedError: a side effect of an already-committed write
// failed (chat bootstrap, notification). Logged and surfaced as partial
// success, never unwinding the committed state.
type DownstreamDegradedError struct {
	Stage string
	Err   error
}

func (e *DownstreamDegradedError) Error() string {
	return fmt.Sprintf("%s degraded: %v", e.Stage, e.Err)
}

func (e *DownstreamDegradedError) Unwrap() error { return e.Err }
