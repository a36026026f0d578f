package controllers

import (
	"net/http"
	"strconv"

	"dropby_server/services"
)

// LocationController handles API requests for presence drops.
type LocationController struct {
	LocationService *services.LocationService
}

// DropHandler records a new location drop for the caller.
func (c *LocationController) DropHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	var request struct {
		Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
		Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	ping, err := c.LocationService.Drop(ctx, userID, request.Latitude, request.Longitude)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, ping)
}

// CurrentHandler returns the caller's active drop.
func (c *LocationController) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	ping, err := c.LocationService.Current(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, ping)
}

// RemoveHandler deactivates the caller's active drop.
func (c *LocationController) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := c.LocationService.Remove(ctx, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "location removed successfully",
	})
}

// DailyCountHandler returns how many drops the caller made today.
func (c *LocationController) DailyCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	count, err := c.LocationService.CountTodaysDrops(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"count": count})
}

// NearbyHandler returns other users' active drops near a point.
func (c *LocationController) NearbyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	lat, latErr := strconv.ParseFloat(query.Get("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(query.Get("longitude"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, &services.ValidationError{Reason: "latitude and longitude are required"})
		return
	}
	radius := 1.0
	if raw := query.Get("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			radius = parsed
		}
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	users, err := c.LocationService.Nearby(ctx, userID, lat, lon, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}
