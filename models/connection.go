package models

// Connection is the durable relationship record between two users. The
// partition key is the sorted pair key, so at most one record can exist
// for an unordered pair no matter which side's request lands first.
type Connection struct {
	PairKey      string `dynamodbav:"pairKey" json:"-"` // Partition Key, "a#b" with a < b
	ConnectionID string `dynamodbav:"connectionId" json:"id"`
	SenderID     string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID   string `dynamodbav:"receiverId" json:"receiverId"`
	Status       string `dynamodbav:"status" json:"status"` // pending, accepted, rejected, withdrawn
	Message      string `dynamodbav:"message,omitempty" json:"message,omitempty"`
	SentAt       string `dynamodbav:"sentAt" json:"sentAt"`
	RespondedAt  string `dynamodbav:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	IsActive     bool   `dynamodbav:"isActive" json:"isActive"`
}

// OtherParty returns the participant that is not userID.
func (c *Connection) OtherParty(userID string) string {
	if c.SenderID == userID {
		return c.ReceiverID
	}
	return c.SenderID
}

// Involves reports whether userID is one of the two participants.
func (c *Connection) Involves(userID string) bool {
	return c.SenderID == userID || c.ReceiverID == userID
}

// ConnectionWithProfile pairs a connection with the other participant's
// public card for list responses.
type ConnectionWithProfile struct {
	Connection Connection   `json:"connection"`
	OtherUser  *UserSummary `json:"otherUser,omitempty"`
}

const ConnectionsTable = "Connections"

// GSI names on the Connections table
const (
	ConnectionIDIndex       = "connectionId-index"
	ConnectionSenderIndex   = "senderId-index"
	ConnectionReceiverIndex = "receiverId-index"
)
