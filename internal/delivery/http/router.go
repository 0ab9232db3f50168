package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bondbrightly/bond-server/internal/middleware"
)

// NewRouter wires the REST API and the websocket endpoint, with rate
// limiting and security headers applied the same way on both.
func NewRouter(h *Handler, apiLimiter, wsLimiter *middleware.IPRateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RateLimit(apiLimiter))

		api.Get("/health", h.HandleHealth)

		api.Post("/profile", h.HandleUpsertProfile)
		api.Get("/profile/{userID}", h.HandleGetProfile)
		api.Get("/users/search", h.HandleSearchUsers)

		api.Post("/friends/request", h.HandleFriendRequest)
		api.Get("/friends/{userID}", h.HandleListFriends)
		api.Delete("/friends/{friendshipID}", h.HandleRemoveFriend)

		api.Get("/messages/{userID}/{friendID}", h.HandleMessages)

		api.Post("/answers", h.HandleSubmitAnswer)
		api.Get("/answers/{userID}/{friendID}", h.HandleTodayAnswers)
	})

	r.With(middleware.RateLimit(wsLimiter)).Get("/ws", h.HandleWebSocket)

	return r
}
