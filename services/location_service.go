package services

import (
	"context"
	"log"
	"sort"
	"time"

	"dropby_server/models"
	"dropby_server/utils"

	"github.com/google/uuid"
)

// LocationService is the presence gate: a user must hold an active,
// unexpired drop before swiping, and may drop at most three times per
// server-local day.
type LocationService struct {
	Locations LocationStore
	Directory Directory
	Clock     Clock
}

func (ls *LocationService) now() time.Time {
	if ls.Clock == nil {
		return SystemClock.Now()
	}
	return ls.Clock.Now()
}

// Drop deactivates any prior active pings and inserts a fresh one with a
// 4 hour expiry. Deactivation lands first, so a reader filtering on
// isActive never observes two live pings for one user.
func (ls *LocationService) Drop(ctx context.Context, userID string, lat, lon float64) (*models.LocationPing, error) {
	now := ls.now()

	count, err := ls.CountTodaysDrops(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxDailyDrops {
		return nil, &QuotaExceededError{Limit: models.MaxDailyDrops}
	}

	user, err := ls.Directory.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := ls.Locations.DeactivatePings(ctx, userID); err != nil {
		return nil, err
	}

	ping := &models.LocationPing{
		UserID:    userID,
		DroppedAt: FormatTime(now),
		PingID:    uuid.NewString(),
		UserName:  user.DisplayName(),
		UserPhoto: user.PhotoKey,
		Coordinates: models.Coordinates{
			Latitude:  lat,
			Longitude: lon,
		},
		ExpiresAt: FormatTime(now.Add(models.DropTTL)),
		IsActive:  true,
		UserBio:   user.Bio,
		Age:       ageFromBirthDate(user.BirthDate, now),
		Gender:    user.Gender,
	}
	if err := ls.Locations.InsertPing(ctx, ping); err != nil {
		return nil, err
	}

	log.Printf("📍 User %s dropped at (%.4f, %.4f), drop %d of %d today", userID, lat, lon, count+1, models.MaxDailyDrops)
	return ping, nil
}

// RequireActivePresence rejects swipe attempts from users without a live
// drop.
func (ls *LocationService) RequireActivePresence(ctx context.Context, userID string) error {
	ping, err := ls.Locations.ActivePing(ctx, userID, FormatTime(ls.now()))
	if err != nil {
		return err
	}
	if ping == nil {
		return &ValidationError{Reason: "an active location drop is required before swiping"}
	}
	return nil
}

// Current returns the user's active ping, or a NotFoundError.
func (ls *LocationService) Current(ctx context.Context, userID string) (*models.LocationPing, error) {
	ping, err := ls.Locations.ActivePing(ctx, userID, FormatTime(ls.now()))
	if err != nil {
		return nil, err
	}
	if ping == nil {
		return nil, &NotFoundError{Resource: "active location"}
	}
	return ping, nil
}

// CountTodaysDrops counts drops since the server-local midnight.
func (ls *LocationService) CountTodaysDrops(ctx context.Context, userID string) (int, error) {
	now := ls.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return ls.Locations.CountDropsSince(ctx, userID, FormatTime(midnight))
}

// Remove deactivates the user's active pings; NotFoundError when there
// were none.
func (ls *LocationService) Remove(ctx context.Context, userID string) error {
	deactivated, err := ls.Locations.DeactivatePings(ctx, userID)
	if err != nil {
		return err
	}
	if deactivated == 0 {
		return &NotFoundError{Resource: "active location"}
	}
	return nil
}

// Nearby returns other users' active drops within radiusKm of the point,
// closest first. The heavy lifting of a real proximity index lives
// outside this service; this is the consuming query.
func (ls *LocationService) Nearby(ctx context.Context, userID string, lat, lon, radiusKm float64) ([]models.NearbyUser, error) {
	pings, err := ls.Locations.ListActivePings(ctx, FormatTime(ls.now()))
	if err != nil {
		return nil, err
	}

	nearby := []models.NearbyUser{}
	for _, ping := range pings {
		if ping.UserID == userID {
			continue
		}
		distance := utils.DistanceKm(lat, lon, ping.Coordinates.Latitude, ping.Coordinates.Longitude)
		if radiusKm > 0 && distance > radiusKm {
			continue
		}
		nearby = append(nearby, models.NearbyUser{LocationPing: ping, DistanceKm: distance})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

func ageFromBirthDate(birthDate string, now time.Time) int {
	if birthDate == "" {
		return 0
	}
	born, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		if born, err = time.Parse(time.RFC3339, birthDate); err != nil {
			return 0
		}
	}
	years := int(now.Sub(born).Hours() / (365.25 * 24))
	if years < 0 {
		return 0
	}
	return years
}
