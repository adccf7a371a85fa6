package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sandhyasneha/it-project-planner/internal/auth"
	"github.com/sandhyasneha/it-project-planner/internal/broadcast"
	"github.com/sandhyasneha/it-project-planner/internal/config"
	"github.com/sandhyasneha/it-project-planner/internal/email"
	"github.com/sandhyasneha/it-project-planner/internal/handler"
	"github.com/sandhyasneha/it-project-planner/internal/middleware"
	"github.com/sandhyasneha/it-project-planner/internal/planner"
	"github.com/sandhyasneha/it-project-planner/internal/store"
	ws "github.com/sandhyasneha/it-project-planner/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	planH        *handler.PlanHandler
	adminH       *handler.AdminHandler
	accountStore *store.AccountStore
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	accountStore := store.NewAccountStore(db, auth.Policy{Domain: cfg.App.EmailDomain})
	sessionStore := store.NewSessionStore(db)
	artifactStore := store.NewArtifactStore(db)
	drafts := handler.NewDraftState()

	generator := planner.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)

	emailClient := email.NewClient(
		cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password,
		email.WithFrom(cfg.Mail.From),
	)
	reminder := broadcast.NewReminder(accountStore, emailClient, hub, broadcast.Options{
		Weekday: cfg.Broadcast.ReminderWeekday,
		Dedup:   cfg.Broadcast.Dedup,
	}, logger.With("component", "broadcast"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(accountStore, sessionStore, drafts, logger.With("component", "auth")),
		planH:        handler.NewPlanHandler(generator, artifactStore, drafts, logger.With("component", "plan")),
		adminH:       handler.NewAdminHandler(reminder, logger.With("component", "admin")),
		accountStore: accountStore,
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes behind RequireAuth
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /logout", s.authH.Logout)
	protectedMux.HandleFunc("POST /api/plan/generate", s.planH.Generate)
	protectedMux.HandleFunc("POST /api/plan/save", s.planH.Save)
	protectedMux.HandleFunc("GET /api/plan/history", s.planH.History)
	protectedMux.HandleFunc("GET /api/plan/export", s.planH.Export)
	protectedMux.HandleFunc("GET /api/plan/export.xlsx", s.planH.ExportWorkbook)
	protectedMux.Handle("POST /api/admin/reminder", middleware.RequireAdmin(http.HandlerFunc(s.adminH.Reminder)))
	protectedMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// The catch-all routes through RequireAuth, so an unknown path is
	// answered 401 before 404 unless the caller holds a valid session.
	// Unauthenticated callers cannot probe which routes exist.
	authMiddleware := middleware.RequireAuth(s.sessionStore, s.accountStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
