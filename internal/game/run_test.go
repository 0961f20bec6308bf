package game

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestRun(t *testing.T, p *Player, pool *WordPool, rules Rules) *Run {
	t.Helper()
	run, err := NewRun(p, pool, rules, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	return run
}

func TestNewRun_RequiresPlayerAndPool(t *testing.T) {
	s := newTestSession(t)
	p := s.Join("alice")

	if _, err := NewRun(nil, NewWordPool(), testRules(), zerolog.Nop()); err != ErrMissingPlayer {
		t.Errorf("expected ErrMissingPlayer, got %v", err)
	}
	if _, err := NewRun(p, nil, testRules(), zerolog.Nop()); err != ErrMissingPool {
		t.Errorf("expected ErrMissingPool, got %v", err)
	}
}

func TestRun_DeclinedReady(t *testing.T) {
	s := newTestSession(t)
	p := s.Join("alice")
	pool := NewWordPool([]string{"cat", "dog"})
	run := newTestRun(t, p, pool, testRules())

	stop := serve(p, &playerScript{
		accept: func(q YesNoPrompt) bool { return q.Kind != PromptReady },
	})
	defer stop()

	run.Start(context.Background())

	if run.Score().Hits() != 0 || run.Score().Misses() != 0 {
		t.Error("declined turn must not touch the score")
	}
	if run.IsRunning() {
		t.Error("run must not be running after Start returns")
	}
	if pool.Len() != 2 {
		t.Error("declined turn must not consume words")
	}
}

func TestRun_AcceptAllConsumesPool(t *testing.T) {
	s := newTestSession(t)
	p := s.Join("alice")
	pool := NewWordPool([]string{"cat", "dog"})
	run := newTestRun(t, p, pool, testRules())

	stop := serve(p, &playerScript{accept: acceptAll})
	defer stop()

	run.Start(context.Background())

	if got := run.Score().Hits(); got != 2 {
		t.Errorf("expected 2 hits, got %d", got)
	}
	if got := run.Score().Misses(); got != 0 {
		t.Errorf("expected 0 misses, got %d", got)
	}
	if pool.Len() != 0 {
		t.Errorf("expected empty pool, got %d words", pool.Len())
	}
	if run.IsRunning() {
		t.Error("run must not be running after Start returns")
	}
}

func TestRun_RejectedWordStaysInPool(t *testing.T) {
	s := newTestSession(t)
	p := s.Join("alice")
	pool := NewWordPool([]string{"cat"})
	run := newTestRun(t, p, pool, testRules())

	rejected := false
	stop := serve(p, &playerScript{
		accept: func(q YesNoPrompt) bool {
			if q.Kind == PromptReady {
				return true
			}
			// Reject the first showing, accept the second.
			if !rejected {
				rejected = true
				return false
			}
			return true
		},
	})
	defer stop()

	run.Start(context.Background())

	if got := run.Score().Misses(); got != 1 {
		t.Errorf("expected 1 miss, got %d", got)
	}
	if got := run.Score().Hits(); got != 1 {
		t.Errorf("expected 1 hit, got %d", got)
	}
	if pool.Len() != 0 {
		t.Error("accepted word should have been removed")
	}
}

func TestRun_CancelledBeforeReady(t *testing.T) {
	s := newTestSession(t)
	p := s.Join("alice")
	pool := NewWordPool([]string{"cat"})
	run := newTestRun(t, p, pool, testRules())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		run.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cancelled run did not return")
	}

	if run.Score().Hits() != 0 || run.Score().Misses() != 0 {
		t.Error("cancelled turn must not score")
	}
}

func TestRun_TimeBudgetExpires(t *testing.T) {
	rules := testRules()
	rules.TurnDuration = 50 * time.Millisecond
	rules.BonusWindow = 20 * time.Millisecond

	s := newTestSession(t)
	p := s.Join("alice")
	pool := NewWordPool([]string{"cat", "dog"})
	run := newTestRun(t, p, pool, rules)

	// Answer only the readiness question; leave word decisions hanging
	// so the time budget is what ends the turn.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			if req := p.YesNo.Pending(); req != nil && req.Payload.Kind == PromptReady {
				req.Answer(true)
			}
			time.Sleep(time.Millisecond)
		}
	}()
	defer close(done)

	finished := make(chan struct{})
	go func() {
		run.Start(context.Background())
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not end when its time budget expired")
	}

	if run.IsRunning() {
		t.Error("run must not be running after the budget expires")
	}
	if pool.Len() != 2 {
		t.Error("unanswered words must stay in the pool")
	}
}

func TestRun_TimeRemaining(t *testing.T) {
	rules := testRules()

	s := newTestSession(t)
	p := s.Join("alice")
	run := newTestRun(t, p, NewWordPool([]string{"cat"}), rules)

	if got := run.TimeRemaining(); got != rules.TurnDuration {
		t.Errorf("idle run should report the full duration, got %v", got)
	}
}
