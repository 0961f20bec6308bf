package game

import "sync/atomic"

// Score is a hit/miss tally. Counts only ever grow; a fresh Score is
// constructed per team (and per run) each game.
type Score struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func NewScore() *Score {
	return &Score{}
}

func (s *Score) Hit()  { s.hits.Add(1) }
func (s *Score) Miss() { s.misses.Add(1) }

func (s *Score) Hits() int   { return int(s.hits.Load()) }
func (s *Score) Misses() int { return int(s.misses.Load()) }

// Add folds another tally into this one.
func (s *Score) Add(hits, misses int) {
	s.hits.Add(int64(hits))
	s.misses.Add(int64(misses))
}
