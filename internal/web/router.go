package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/services/auth"
	"github.com/mcoot/accountsvc/internal/web/handler"
	"github.com/mcoot/accountsvc/internal/web/middleware"
	"github.com/mcoot/accountsvc/internal/web/templates"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	AccountService *account.Service
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	renderer, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler(renderer)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.AccountService, renderer)
	usersHandler := handler.NewUsersHandler(cfg.AccountService, renderer)
	profileHandler := handler.NewProfileHandler(cfg.AccountService, renderer)

	// Public routes (optional auth so logged-in users get redirected away)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	protected.HandleFunc("/users", usersHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id:[0-9]+}/update", usersHandler.UpdatePage).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id:[0-9]+}/update", usersHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/users/{id:[0-9]+}/delete", usersHandler.Delete).Methods(http.MethodPost)
	protected.HandleFunc("/profile", profileHandler.ProfilePage).Methods(http.MethodGet)
	protected.HandleFunc("/profile", profileHandler.Update).Methods(http.MethodPost)

	return r, nil
}
