package routes

import (
	"dropby_server/controllers"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// RegisterLocationRoutes registers all presence routes under `/api/locations`
func RegisterLocationRoutes(router *mux.Router, locationService *services.LocationService, auth mux.MiddlewareFunc) {
	controller := &controllers.LocationController{LocationService: locationService}

	locationRouter := router.PathPrefix("/api/locations").Subrouter()
	locationRouter.Use(auth)

	locationRouter.HandleFunc("/drop", controller.DropHandler).Methods("POST")
	locationRouter.HandleFunc("/current", controller.CurrentHandler).Methods("GET")
	locationRouter.HandleFunc("/current", controller.RemoveHandler).Methods("DELETE")
	locationRouter.HandleFunc("/daily-count", controller.DailyCountHandler).Methods("GET")
	locationRouter.HandleFunc("/nearby", controller.NearbyHandler).Methods("GET")
}
