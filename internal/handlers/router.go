package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"aliasgame/internal/middleware"
)

// Router builds the adapter's routes with the standard middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(middleware.RequestSizeLimiter(h.config.Server.MaxRequestSize))
	r.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(h.config.Server.RateLimit, h.config.Server.RateLimitBurst)
	r.Use(rateLimiter.Middleware())

	r.Route("/session/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Get("/qr", h.JoinQR)
		r.Post("/join", h.Join)
		r.Post("/leave", h.Leave)
		r.Post("/kick", h.Kick)
		r.Post("/team", h.SetTeam)
		r.Post("/start", h.Start)
		r.Post("/cancel", h.CancelGame)
		r.Post("/words", h.AnswerWords)
		r.Post("/answer", h.AnswerYesNo)
	})

	r.Get("/sse/session/{id}", h.StreamSession)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if h.registry == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Registry not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
