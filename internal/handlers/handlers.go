package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"aliasgame/internal/config"
	"aliasgame/internal/game"
	"aliasgame/internal/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	registry *store.Registry
	config   *config.ServerConfig
	log      zerolog.Logger
}

// New creates a new handler.
func New(registry *store.Registry, cfg *config.ServerConfig, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		config:   cfg,
		log:      log.With().Str("component", "handlers").Logger(),
	}
}

// Registry returns the handler's registry (for testing).
func (h *Handler) Registry() *store.Registry {
	return h.registry
}

type joinRequest struct {
	Name string `json:"name"`
}

type kickRequest struct {
	Name string `json:"name"`
}

type teamRequest struct {
	Name string `json:"name"`
	Team int    `json:"team"`
}

type wordsAnswer struct {
	Words []string `json:"words"`
}

type yesNoAnswer struct {
	Accept bool `json:"accept"`
}

// Join adds the caller to the session, creating the session on first
// use, and remembers the player in a cookie.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registry.GetOrCreate(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	player := session.Join(req.Name)
	if player == nil {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "player_" + sessionID,
		Value:    url.QueryEscape(player.Name),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.writeJSON(w, session.Snapshot())
}

// Leave removes the cookie player from the session.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	session, player, ok := h.sessionPlayer(w, r)
	if !ok {
		return
	}

	player.LeaveSession()

	http.SetCookie(w, &http.Cookie{
		Name:   "player_" + session.ID,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Kick removes a named player from the session.
func (h *Handler) Kick(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req kickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session.Kick(req.Name)
	w.WriteHeader(http.StatusNoContent)
}

// SetTeam moves a player between teams while no game is running.
func (h *Handler) SetTeam(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session.SetTeam(req.Name, req.Team)
	h.writeJSON(w, session.Snapshot())
}

// Start launches the game in the background.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if !session.CanRun() {
		http.Error(w, "Session is not ready to start", http.StatusConflict)
		return
	}

	// The game outlives this request; it is cancelled through the
	// session, not the request context.
	go func() {
		if err := session.Run(context.Background()); err != nil {
			h.log.Error().Err(err).Str("session", session.ID).Msg("game failed")
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}

// CancelGame aborts the running game.
func (h *Handler) CancelGame(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// GetSession returns a JSON snapshot for rendering.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, session.Snapshot())
}

// AnswerWords resolves a pending words request for the cookie player.
func (h *Handler) AnswerWords(w http.ResponseWriter, r *http.Request) {
	_, player, ok := h.sessionPlayer(w, r)
	if !ok {
		return
	}

	var answer wordsAnswer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req := player.Words.Pending()
	if req == nil {
		http.Error(w, "No pending words request", http.StatusConflict)
		return
	}
	req.Answer(answer.Words)
	w.WriteHeader(http.StatusNoContent)
}

// AnswerYesNo resolves a pending yes/no question for the cookie player.
func (h *Handler) AnswerYesNo(w http.ResponseWriter, r *http.Request) {
	_, player, ok := h.sessionPlayer(w, r)
	if !ok {
		return
	}

	var answer yesNoAnswer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req := player.YesNo.Pending()
	if req == nil {
		http.Error(w, "No pending question", http.StatusConflict)
		return
	}
	req.Answer(answer.Accept)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sessionID := chi.URLParam(r, "id")
	session, err := h.registry.Get(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (h *Handler) sessionPlayer(w http.ResponseWriter, r *http.Request) (*game.Session, *game.Player, bool) {
	session, ok := h.session(w, r)
	if !ok {
		return nil, nil, false
	}

	cookie, err := r.Cookie("player_" + session.ID)
	if err != nil {
		http.Error(w, "Not in session", http.StatusUnauthorized)
		return nil, nil, false
	}
	name, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		http.Error(w, "Not in session", http.StatusUnauthorized)
		return nil, nil, false
	}

	player := session.Player(name)
	if player == nil {
		http.Error(w, "Player not found", http.StatusUnauthorized)
		return nil, nil, false
	}
	return session, player, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}
