package models

// UserRecord is what the user directory hands back for a lookup. Profile
// CRUD itself lives outside this service; we only read what match and
// presence flows need, plus the closed set of updates below.
type UserRecord struct {
	UserID    string `dynamodbav:"userId" json:"userId"` // Partition Key
	FirstName string `dynamodbav:"firstName" json:"firstName"`
	LastName  string `dynamodbav:"lastName" json:"lastName"`
	PhotoKey  string `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	Bio       string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Gender    string `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	BirthDate string `dynamodbav:"birthDate,omitempty" json:"birthDate,omitempty"`
}

// DisplayName joins the name parts for event payloads.
func (u *UserRecord) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserSummary is the public card other users see in lists and events.
type UserSummary struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// ProfileUpdate is one allowed profile mutation. Updates arrive as a
// closed set of variants; anything outside the enumeration is rejected
// at the boundary instead of being patched through by field name.
type ProfileUpdate interface {
	profileUpdate()
}

type SetDisplayName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SetBio struct {
	Bio string `json:"bio"`
}

type SetPrimaryPhoto struct {
	PhotoKey string `json:"photoKey"`
}

type SetGender struct {
	Gender string `json:"gender"`
}

func (SetDisplayName) profileUpdate()  {}
func (SetBio) profileUpdate()          {}
func (SetPrimaryPhoto) profileUpdate() {}
func (SetGender) profileUpdate()       {}

const UserProfilesTable = "UserProfiles"
