package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bunkerhq/bunker/internal/services/auth"
	"github.com/bunkerhq/bunker/internal/services/room"
	"github.com/bunkerhq/bunker/internal/web/handler"
	"github.com/bunkerhq/bunker/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController room.ControllerInterface
	StaticDir      string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	homeHandler := handler.NewHomeHandler(cfg.RoomController)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth for showing the user in the nav)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Auth actions (no auth required)
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.Use(flashMiddleware)
	authRoutes.Use(optionalAuthMiddleware)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)

	protected.HandleFunc("/room", roomHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/room/join", roomHandler.JoinByForm).Methods(http.MethodPost)
	protected.HandleFunc("/room/{id}", roomHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/room/{id}/qr", roomHandler.QR).Methods(http.MethodGet)
	protected.HandleFunc("/room/{id}/start", roomHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/room/{id}/reset", roomHandler.Reset).Methods(http.MethodPost)
	protected.HandleFunc("/room/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)

	return r
}
