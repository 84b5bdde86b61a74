package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/accountsvc/internal/api/handler"
	"github.com/mcoot/accountsvc/internal/api/middleware"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/services/auth"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	AccountService *account.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AccountService)
	sessionHandler := handler.NewSessionHandler(cfg.AuthService, cfg.AccountService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Registration and login require no session
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/sessions/login", sessionHandler.Login).Methods(http.MethodPost)

	// Session routes (require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// Account routes (require auth)
	accounts := api.PathPrefix("/accounts").Subrouter()
	accounts.Use(authMiddleware)
	accounts.HandleFunc("", accountHandler.List).Methods(http.MethodGet)
	accounts.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)
	accounts.HandleFunc("/me", accountHandler.UpdateMe).Methods(http.MethodPatch)
	accounts.HandleFunc("/{id:[0-9]+}", accountHandler.Get).Methods(http.MethodGet)
	accounts.HandleFunc("/{id:[0-9]+}", accountHandler.UpdateEmail).Methods(http.MethodPatch)
	accounts.HandleFunc("/{id:[0-9]+}", accountHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
