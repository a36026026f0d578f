package routes

import (
	"dropby_server/controllers"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes registers all chat room routes under `/api/chats`
func RegisterChatRoutes(router *mux.Router, chatService *services.ChatService, auth mux.MiddlewareFunc) {
	controller := &controllers.ChatController{ChatService: chatService}

	chatRouter := router.PathPrefix("/api/chats").Subrouter()
	chatRouter.Use(auth)

	chatRouter.HandleFunc("/rooms", controller.CreateRoomHandler).Methods("POST")
	chatRouter.HandleFunc("/rooms", controller.ListRoomsHandler).Methods("GET")
	chatRouter.HandleFunc("/rooms/{roomId}/read", controller.MarkReadHandler).Methods("POST")
}
