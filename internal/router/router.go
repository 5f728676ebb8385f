package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"promptdeck-backend/internal/handlers"
	"promptdeck-backend/internal/middleware"
	"promptdeck-backend/internal/websocket"
)

func New(
	projectHandler *handlers.ProjectHandler,
	promptHandler *handlers.PromptHandler,
	documentHandler *handlers.DocumentHandler,
	sessionHandler *handlers.SessionHandler,
	settingsHandler *handlers.SettingsHandler,
	agentHandler *handlers.AgentHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	chatRateLimit int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Chat rate limiter (per IP): one LLM stream is expensive
	chatLimiter := middleware.NewRateLimiter(chatRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Project Routes ────
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Create)
			r.Get("/{id}", projectHandler.Get)
			r.Put("/{id}", projectHandler.Update)
			r.Delete("/{id}", projectHandler.Delete)
			r.Get("/{id}/prompts", projectHandler.ListPrompts)
			r.Post("/{id}/prompts", projectHandler.CreatePrompt)
			r.Get("/{id}/documents", projectHandler.ListDocuments)
			r.Post("/{id}/documents", projectHandler.CreateDocument)
			r.Get("/{id}/sessions", projectHandler.ListSessions)
			r.Post("/{id}/sessions", projectHandler.CreateSession)
		})

		// ──── Prompt Routes ────
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/{id}", promptHandler.Get)
			r.Put("/{id}", promptHandler.Update)
			r.Delete("/{id}", promptHandler.Delete)
			r.Get("/{id}/versions", promptHandler.ListVersions)
		})

		// ──── Document Routes ────
		r.Route("/documents", func(r chi.Router) {
			r.Get("/{id}", documentHandler.Get)
			r.Delete("/{id}", documentHandler.Delete)
		})

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/{id}", sessionHandler.Get)
			r.Put("/{id}", sessionHandler.Update)
			r.Delete("/{id}", sessionHandler.Delete)
			r.Get("/{id}/messages", sessionHandler.ListMessages)
		})

		// ──── Settings Routes ────
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.Get)
			r.Put("/", settingsHandler.Update)
		})

		// ──── AI Routes ────
		r.Route("/ai", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(chatLimiter.Middleware)
				r.Post("/chat", agentHandler.Chat)
			})
			r.Post("/apply", agentHandler.Apply)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
