package game

import (
	"sync"
	"sync/atomic"
	"time"
)

// testRules keeps games short enough for tests while leaving ample
// headroom over scheduling jitter.
func testRules() Rules {
	return Rules{
		MinActiveTeams:    2,
		MinPlayersPerTeam: 2,
		MaxWordsPerPlayer: 10,
		TurnDuration:      5 * time.Second,
		BonusWindow:       time.Second,
	}
}

// playerScript services a player's interaction channels the way a remote
// participant adapter would: poll the pending request, answer it.
type playerScript struct {
	words  []string
	accept func(YesNoPrompt) bool

	turns atomic.Int32 // ready questions successfully answered
}

func acceptAll(YesNoPrompt) bool { return true }

// serve runs the script against the player until the returned stop
// function is called.
func serve(p *Player, script *playerScript) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}

			if req := p.Words.Pending(); req != nil {
				req.Answer(script.words)
			}
			if req := p.YesNo.Pending(); req != nil {
				answered := req.Answer(script.accept(req.Payload))
				if answered && req.Payload.Kind == PromptReady {
					script.turns.Add(1)
				}
			}

			time.Sleep(time.Millisecond)
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
