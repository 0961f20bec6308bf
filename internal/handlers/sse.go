package handlers

import (
	"net/http"
	"time"

	datastar "github.com/starfederation/datastar-go/datastar"

	"aliasgame/internal/game"
)

// promptSignals tells the client what the engine is currently asking the
// streaming player, alongside the session snapshot.
type promptSignals struct {
	WordsRequested bool   `json:"wordsRequested"`
	MaxWords       int    `json:"maxWords"`
	Question       string `json:"question"`
	Word           string `json:"word"`
}

func pendingPrompts(p *game.Player) promptSignals {
	var signals promptSignals
	if req := p.Words.Pending(); req != nil {
		signals.WordsRequested = true
		signals.MaxWords = req.Payload.Max
	}
	if req := p.YesNo.Pending(); req != nil {
		signals.Question = string(req.Payload.Kind)
		signals.Word = req.Payload.Word
	}
	return signals
}

// StreamSession streams session snapshots and pending prompts to one
// player. The stream holds a player connection for its lifetime, so a
// player counts as connected exactly while at least one stream (or other
// presence) is open.
func (h *Handler) StreamSession(w http.ResponseWriter, r *http.Request) {
	session, player, ok := h.sessionPlayer(w, r)
	if !ok {
		return
	}

	conn := player.AcquireConnection()
	defer conn.Release()

	h.log.Debug().
		Str("session", session.ID).
		Str("player", player.Name).
		Str("connection", conn.ID).
		Msg("sse stream opened")
	defer h.log.Debug().
		Str("session", session.ID).
		Str("player", player.Name).
		Msg("sse stream closed")

	sse := datastar.NewSSE(w, r)

	send := func() error {
		return sse.MarshalAndPatchSignals(map[string]any{
			"session": session.Snapshot(),
			"prompt":  pendingPrompts(player),
		})
	}

	if err := send(); err != nil {
		return
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := send(); err != nil {
				return
			}
		}
	}
}
