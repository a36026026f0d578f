package routes

import (
	"dropby_server/controllers"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// RegisterKeyRoutes registers room key routes under `/api/keys`
func RegisterKeyRoutes(router *mux.Router, keys services.RoomKeyStore, chatService *services.ChatService, auth mux.MiddlewareFunc) {
	controller := &controllers.KeyController{Keys: keys, ChatService: chatService}

	keyRouter := router.PathPrefix("/api/keys").Subrouter()
	keyRouter.Use(auth)

	keyRouter.HandleFunc("/{roomId}", controller.GetKeyHandler).Methods("GET")
	keyRouter.HandleFunc("/{roomId}", controller.EvictKeyHandler).Methods("DELETE")
}
