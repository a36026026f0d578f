package controllers

import (
	"net/http"

	"dropby_server/services"

	"github.com/gorilla/mux"
)

// ConnectionController handles API requests for the connection
// lifecycle.
type ConnectionController struct {
	ConnectionService *services.ConnectionService
}

// SendRequestHandler creates a pending connection request.
func (c *ConnectionController) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := actor(w, r)
	if !ok {
		return
	}

	var request struct {
		ReceiverID string `json:"receiverId" validate:"required"`
		Message    string `json:"message,omitempty" validate:"max=200"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	conn, err := c.ConnectionService.SendRequest(ctx, senderID, request.ReceiverID, request.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, conn)
}

// RespondHandler applies an accept, reject, or withdraw transition to a
// pending request.
func (c *ConnectionController) RespondHandler(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := actor(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	connectionID := vars["connectionId"]
	action := vars["action"]

	ctx, cancel := requestContext(r)
	defer cancel()

	var (
		conn interface{}
		err  error
	)
	switch action {
	case "accept":
		conn, err = c.ConnectionService.Accept(ctx, connectionID, actingUserID)
	case "reject":
		conn, err = c.ConnectionService.Reject(ctx, connectionID, actingUserID)
	case "withdraw":
		conn, err = c.ConnectionService.Withdraw(ctx, connectionID, actingUserID)
	default:
		err = &services.ValidationError{Reason: "action must be one of accept, reject, withdraw"}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, conn)
}

// ListHandler returns the caller's connections for a kind (received,
// sent, active).
func (c *ConnectionController) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = services.ListActive
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	conns, err := c.ConnectionService.List(ctx, userID, kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, conns)
}
