package models

// MessagePreview is the only persisted trace of a message: rooms keep a
// truncated preview of the latest message for list screens. Bodies are
// relayed over the socket layer and never stored.
type MessagePreview struct {
	Content   string `dynamodbav:"content" json:"content"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Timestamp string `dynamodbav:"timestamp" json:"timestamp"`
}

// ChatRoom is the conversation channel for one connected pair. Keyed by
// the sorted pair so a second bootstrap attempt lands on the same item.
type ChatRoom struct {
	PairKey      string          `dynamodbav:"pairKey" json:"-"` // Partition Key
	RoomID       string          `dynamodbav:"roomId" json:"roomId"`
	ParticipantA string          `dynamodbav:"participantA" json:"participantA"` // lexicographically first
	ParticipantB string          `dynamodbav:"participantB" json:"participantB"`
	ConnectionID string          `dynamodbav:"connectionId" json:"connectionId"`
	LastMessage  *MessagePreview `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	UnreadCounts map[string]int  `dynamodbav:"unreadCounts,omitempty" json:"unreadCounts,omitempty"`
	IsActive     bool            `dynamodbav:"isActive" json:"isActive"`
	CreatedAt    string          `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    string          `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether userID belongs to the room.
func (r *ChatRoom) HasParticipant(userID string) bool {
	return r.ParticipantA == userID || r.ParticipantB == userID
}

// OtherParticipant returns the participant that is not userID.
func (r *ChatRoom) OtherParticipant(userID string) string {
	if r.ParticipantA == userID {
		return r.ParticipantB
	}
	return r.ParticipantA
}

// ChatRoomSummary is the per-user view of a room for list responses.
type ChatRoomSummary struct {
	RoomID      string          `json:"roomId"`
	OtherUser   *UserSummary    `json:"otherUser,omitempty"`
	LastMessage *MessagePreview `json:"lastMessage,omitempty"`
	UnreadCount int             `json:"unreadCount"`
	UpdatedAt   string          `json:"updatedAt"`
}

const ChatRoomsTable = "ChatRooms"

// GSI names on the ChatRooms table
const (
	RoomIDIndex           = "roomId-index"
	RoomParticipantAIndex = "participantA-index"
	RoomParticipantBIndex = "participantB-index"
)
