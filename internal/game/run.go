package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Run is one player's timed turn against the shared word pool.
//
// The turn starts only after the player confirms readiness. From then on
// the loop shows a word, waits for an accept/reject decision, and keeps
// going while words and time remain. The time budget is the turn
// duration plus a short bonus window: no new word is shown after the
// nominal duration elapses, but a word already on screen is allowed to
// resolve inside the window instead of being truncated.
type Run struct {
	player *Player
	pool   *WordPool
	rules  Rules
	score  *Score
	log    zerolog.Logger

	running atomic.Bool

	mu    sync.RWMutex
	word  string
	start time.Time
}

func NewRun(player *Player, pool *WordPool, rules Rules, log zerolog.Logger) (*Run, error) {
	if player == nil {
		return nil, ErrMissingPlayer
	}
	if pool == nil {
		return nil, ErrMissingPool
	}
	return &Run{
		player: player,
		pool:   pool,
		rules:  rules,
		score:  NewScore(),
		log:    log.With().Str("player", player.Name).Logger(),
	}, nil
}

func (r *Run) Player() *Player { return r.player }
func (r *Run) Score() *Score   { return r.score }

func (r *Run) IsRunning() bool {
	return r.running.Load()
}

// Word returns the currently displayed word.
func (r *Run) Word() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.word
}

func (r *Run) setWord(w string) {
	r.mu.Lock()
	r.word = w
	r.mu.Unlock()
}

// TimeRemaining is the nominal time left in the turn: the full duration
// before the turn starts, clamped to zero once it expires. The bonus
// window is not included; it only lets an in-flight word resolve.
func (r *Run) TimeRemaining() time.Duration {
	if !r.running.Load() {
		return r.rules.TurnDuration
	}

	r.mu.RLock()
	start := r.start
	r.mu.RUnlock()

	remaining := r.rules.TurnDuration - time.Since(start)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Start drives the turn to completion. Cancellation and a negative
// readiness answer are normal endings, not failures; either way the turn
// finishes with running=false and whatever score it accumulated.
func (r *Run) Start(ctx context.Context) {
	ready, err := r.player.YesNo.Ask(ctx, YesNoPrompt{Kind: PromptReady})
	if err != nil || !ready {
		r.log.Debug().Msg("turn declined or cancelled before start")
		return
	}

	r.mu.Lock()
	r.start = time.Now()
	r.mu.Unlock()
	r.running.Store(true)
	defer r.running.Store(false)

	turnCtx, cancel := context.WithTimeout(ctx, r.rules.TurnDuration+r.rules.BonusWindow)
	defer cancel()

	r.log.Debug().Msg("turn started")

	for turnCtx.Err() == nil && r.pool.Len() > 0 && r.TimeRemaining() > 0 {
		word := r.pool.Pick(r.Word())
		r.setWord(word)

		accept, err := r.player.YesNo.Ask(turnCtx, YesNoPrompt{Kind: PromptWord, Word: word})
		if err != nil {
			// Time budget expired or the game was cancelled.
			break
		}

		if accept {
			r.pool.Remove(word)
			r.score.Hit()
		} else {
			r.score.Miss()
		}
	}

	r.log.Debug().
		Int("hits", r.score.Hits()).
		Int("misses", r.score.Misses()).
		Msg("turn ended")
}
