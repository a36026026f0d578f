package models

// Swipe is one user's directional decision about another. The table's
// composite key (swiperId, targetUserId) is what makes the "one active
// swipe per ordered pair" invariant a storage-level guarantee rather
// than an application-level check.
type Swipe struct {
	SwiperID          string `dynamodbav:"swiperId" json:"swiperId"`           // Partition Key
	TargetUserID      string `dynamodbav:"targetUserId" json:"targetUserId"`   // Sort Key
	SwipeID           string `dynamodbav:"swipeId" json:"swipeId"`
	Direction         string `dynamodbav:"direction" json:"direction"` // right, left
	Message           string `dynamodbav:"message,omitempty" json:"message,omitempty"`
	Timestamp         string `dynamodbav:"timestamp" json:"timestamp"`
	IsActive          bool   `dynamodbav:"isActive" json:"isActive"`
	CooldownExpiresAt string `dynamodbav:"cooldownExpiresAt" json:"cooldownExpiresAt"`
}

// Match is the read-only result of a mutual right-swipe check. It carries
// both swipe identifiers; all mutation happens in the orchestrator.
type Match struct {
	SwipeID       string `json:"swipeId"`
	MutualSwipeID string `json:"mutualSwipeId"`
	MatchedAt     string `json:"matchedAt"`
}

// SwipeResult is what recordSwipe hands back to the caller. Degraded is
// set when a side effect of a successful match (room bootstrap) failed;
// the swipe and connection themselves are already committed.
type SwipeResult struct {
	Swipe    Swipe  `json:"swipe"`
	IsMatch  bool   `json:"isMatch"`
	Match    *Match `json:"match,omitempty"`
	RoomID   string `json:"roomId,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// SwipeHistoryEntry pairs a ledger entry with the target's public card
// for history responses.
type SwipeHistoryEntry struct {
	Swipe      Swipe        `json:"swipe"`
	TargetUser *UserSummary `json:"targetUser,omitempty"`
}

const SwipesTable = "Swipes"
