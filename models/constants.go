package models

import "time"

// Swipe directions
const (
	DirectionRight = "right"
	DirectionLeft  = "left"
)

// Connection statuses
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

// Re-swipe cooldowns per direction
const (
	CooldownRight = 90 * 24 * time.Hour
	CooldownLeft  = 30 * 24 * time.Hour
)

// Presence rules
const (
	MaxDailyDrops = 3
	DropTTL       = 4 * time.Hour
)

// Socket event names
const (
	EventNewMatch      = "new_match"
	EventNewMessage    = "new_message"
	EventMessageSent   = "message_sent"
	EventMessagesRead  = "messages_read"
	EventRoomJoined    = "room_joined"
	EventRoomLeft      = "room_left"
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventTyping        = "user_typing"
	EventStoppedTyping = "user_stopped_typing"
	EventError         = "error"
)

// Max stored length of a chat room's last-message preview
const PreviewMaxLen = 120
