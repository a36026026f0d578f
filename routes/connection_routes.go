package routes

import (
	"dropby_server/controllers"
	"dropby_server/services"

	"github.com/gorilla/mux"
)

// RegisterConnectionRoutes registers all connection routes under `/api/connections`
func RegisterConnectionRoutes(router *mux.Router, connectionService *services.ConnectionService, auth mux.MiddlewareFunc) {
	controller := &controllers.ConnectionController{ConnectionService: connectionService}

	connectionRouter := router.PathPrefix("/api/connections").Subrouter()
	connectionRouter.Use(auth)

	connectionRouter.HandleFunc("", controller.SendRequestHandler).Methods("POST")
	connectionRouter.HandleFunc("", controller.ListHandler).Methods("GET")
	connectionRouter.HandleFunc("/{connectionId}/{action}", controller.RespondHandler).Methods("POST")
}
