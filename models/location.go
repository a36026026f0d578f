package models

// Coordinates of a drop.
type Coordinates struct {
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
}

// LocationPing is a time-boxed location broadcast. Every ping is kept
// (the sort key is the drop time); only the latest one may be active.
type LocationPing struct {
	UserID      string      `dynamodbav:"userId" json:"userId"`       // Partition Key
	DroppedAt   string      `dynamodbav:"droppedAt" json:"droppedAt"` // Sort Key
	PingID      string      `dynamodbav:"pingId" json:"id"`
	UserName    string      `dynamodbav:"userName" json:"userName"`
	UserPhoto   string      `dynamodbav:"userPhoto,omitempty" json:"userPhoto,omitempty"`
	Coordinates Coordinates `dynamodbav:"coordinates" json:"coordinates"`
	ExpiresAt   string      `dynamodbav:"expiresAt" json:"expiresAt"`
	IsActive    bool        `dynamodbav:"isActive" json:"isActive"`
	UserBio     string      `dynamodbav:"userBio,omitempty" json:"userBio,omitempty"`
	Age         int         `dynamodbav:"age" json:"age"`
	Gender      string      `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
}

// NearbyUser is a ping enriched with the distance from the query point.
type NearbyUser struct {
	LocationPing
	DistanceKm float64 `json:"distance"`
}

const LocationsTable = "Locations"
