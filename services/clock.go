package services

import "time"

// Clock abstracts time.Now so the quota day boundary and cooldown math
// are testable with a fixed clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock is the default Clock used when services are wired without
// an explicit one.
var SystemClock Clock = realClock{}

// FormatTime renders a timestamp the way every table stores it. RFC3339
// in UTC keeps string comparison consistent with time ordering, which
// the cooldown condition expression relies on.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
