// Package api wires HTTP transport to the chat service.
package api

import (
	"github.com/gorilla/mux"

	"github.com/parleyhq/parley/internal/api/recovery"
	"github.com/parleyhq/parley/internal/auth"
	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/store"
)

// NewRouter builds the full route table.
func NewRouter(st store.Store, recon *chat.Reconciler, cookies *auth.Manager) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Conversation
	agent := NewAgentHandler(recon, cookies)
	root.HandleFunc("/api/agent", agent.PostMessage).Methods("POST")

	history := NewHistoryHandler(recon, cookies)
	root.HandleFunc("/api/session-history", history.GetHistory).Methods("GET")

	// Identity
	authHandler := NewAuthHandler(st.Users(), cookies)
	root.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	root.HandleFunc("/api/logout", authHandler.Logout).Methods("POST")

	// Accounts
	userHandler := NewUserHandler(st.Users())
	root.HandleFunc("/api/users", userHandler.CreateUser).Methods("POST")
	root.HandleFunc("/api/users/{userId}", userHandler.GetUser).Methods("GET")

	// Health
	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	return root
}
