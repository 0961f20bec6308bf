package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aliasgame/internal/config"
	"aliasgame/internal/game"
	"aliasgame/internal/store"
)

// TestFullGameOverHTTP drives a relaxed single-player game through the
// adapter the way a real client would: poll for the engine's pending
// question, answer it, repeat until the game ends.
func TestFullGameOverHTTP(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Port = "0"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.RateLimit = 10000
	cfg.Server.RateLimitBurst = 10000
	cfg.Game.MinActiveTeams = 1
	cfg.Game.MinPlayersPerTeam = 1
	cfg.Game.TurnDuration = 5 * time.Second

	h := New(store.NewRegistry(cfg, zerolog.Nop()), cfg, zerolog.Nop())
	ts := httptest.NewServer(h.Router())
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp := postJSON(t, client, ts.URL+"/session/game1/join", map[string]string{"name": "alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, client, ts.URL+"/session/game1/team", map[string]any{"name": "alice", "team": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Hold a connection the way the SSE stream would.
	session, err := h.Registry().Get("game1")
	require.NoError(t, err)
	conn := session.Player("alice").AcquireConnection()
	defer conn.Release()

	resp = postJSON(t, client, ts.URL+"/session/game1/start", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	// Answer whatever the engine asks until the game finishes.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if r := postJSON(t, client, ts.URL+"/session/game1/words", map[string][]string{"words": {"cat", "dog"}}); r.StatusCode == http.StatusNoContent {
			continue
		}
		if r := postJSON(t, client, ts.URL+"/session/game1/answer", map[string]bool{"accept": true}); r.StatusCode == http.StatusNoContent {
			continue
		}

		if !session.IsRunning() && len(session.Teams()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	require.False(t, session.IsRunning(), "game should have finished")

	resp2, err := client.Get(ts.URL + "/session/game1")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&snap))

	require.Len(t, snap.Teams, 1)
	assert.Equal(t, 2, snap.Teams[0].Hits, "both words should have been guessed")
	assert.Equal(t, 0, snap.Teams[0].Misses)
	assert.False(t, snap.Running)
}
