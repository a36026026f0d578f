package routes

import (
	"dropby_server/controllers"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes registers profile routes under `/api/users`
func RegisterUserProfileRoutes(router *mux.Router, profileService *services.UserProfileService, auth mux.MiddlewareFunc) {
	controller := &controllers.UserProfileController{ProfileService: profileService}

	userRouter := router.PathPrefix("/api/users").Subrouter()
	userRouter.Use(auth)

	userRouter.HandleFunc("/me", controller.UpdateProfileHandler).Methods("PATCH")
	userRouter.HandleFunc("/{userId}", controller.GetCardHandler).Methods("GET")
}
