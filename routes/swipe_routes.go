package routes

import (
	"dropby_server/controllers"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes registers all swipe-related routes under `/api/swipes`
func RegisterSwipeRoutes(router *mux.Router, swipeService *services.SwipeService, auth mux.MiddlewareFunc) {
	controller := &controllers.SwipeController{SwipeService: swipeService}

	swipeRouter := router.PathPrefix("/api/swipes").Subrouter()
	swipeRouter.Use(auth)

	swipeRouter.HandleFunc("", controller.RecordSwipeHandler).Methods("POST")
	swipeRouter.HandleFunc("/history", controller.GetSwipeHistoryHandler).Methods("GET")
	swipeRouter.HandleFunc("/{targetUserId}", controller.DeleteSwipeHandler).Methods("DELETE")
}
