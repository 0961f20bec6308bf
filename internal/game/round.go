package game

import (
	"context"
	"sync"
)

// Round is one rotation of turns across the ordered players: at most one
// run per active player, fewer if the pool empties or the game is
// cancelled mid-rotation. The session's rotation cursor is advanced as
// turns are taken and persisted back even on cancellation, so the next
// game resumes rotation instead of restarting from player zero.
type Round struct {
	Index int

	session *Session

	mu      sync.RWMutex
	current *Run
}

func newRound(session *Session, index int) *Round {
	return &Round{Index: index, session: session}
}

// CurrentRun returns the run in progress, if any.
func (r *Round) CurrentRun() *Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Round) setCurrent(run *Run) {
	r.mu.Lock()
	r.current = run
	r.mu.Unlock()
}

func (r *Round) run(ctx context.Context) {
	players, pool := r.session.gameState()
	if len(players) == 0 || pool == nil {
		return
	}

	cursor := r.session.rotationCursor()
	defer func() {
		r.session.setRotationCursor(cursor)
		r.setCurrent(nil)
	}()

	for turn := 0; turn < len(players); turn++ {
		if ctx.Err() != nil || pool.Len() == 0 {
			return
		}

		player := players[cursor%len(players)]
		cursor++

		run, err := NewRun(player, pool, r.session.rules, r.session.log)
		if err != nil {
			// Players in the ordered list are never nil; nothing to do.
			return
		}

		r.setCurrent(run)
		run.Start(ctx)

		if team := r.session.Team(player.Team); team != nil {
			team.Score.Add(run.Score().Hits(), run.Score().Misses())
		}
	}
}
