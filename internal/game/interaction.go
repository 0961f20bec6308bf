package game

import (
	"context"
	"sync"
	"sync/atomic"
)

// PromptKind says what a YesNo question is about.
type PromptKind string

const (
	// PromptReady asks a player whether they are ready to start their turn.
	PromptReady PromptKind = "ready"
	// PromptWord asks a player whether they accept the displayed word.
	PromptWord PromptKind = "word"
)

// WordsPrompt asks a player for their contributed words. Max is the most
// the engine will keep; anything beyond it is discarded.
type WordsPrompt struct {
	Max int
}

// YesNoPrompt asks a player a binary question.
type YesNoPrompt struct {
	Kind PromptKind
	Word string
}

// Request is one outstanding question addressed to a player. The engine
// parks on the reply; a participant adapter answers it out of band.
type Request[P, R any] struct {
	Payload P

	reply    chan R
	answered atomic.Bool
}

// Answer resolves the request. It reports false if the request was
// already answered. Answering a request the engine has stopped waiting
// on is harmless; the reply is dropped.
func (r *Request[P, R]) Answer(v R) bool {
	if !r.answered.CompareAndSwap(false, true) {
		return false
	}
	r.reply <- v // buffered, never blocks
	return true
}

// Interaction is a reusable request/response channel between the engine
// and one player. At most one request is outstanding at a time: the
// engine never asks a second question before the first resolves.
type Interaction[P, R any] struct {
	mu      sync.Mutex
	pending *Request[P, R]
}

func NewInteraction[P, R any]() *Interaction[P, R] {
	return &Interaction[P, R]{}
}

// Ask issues a request and suspends until the participant answers or ctx
// is cancelled. On cancellation no response is produced and ctx.Err() is
// returned. A second Ask while one is outstanding is an engine bug and
// fails with ErrRequestPending.
func (i *Interaction[P, R]) Ask(ctx context.Context, payload P) (R, error) {
	var zero R

	req := &Request[P, R]{Payload: payload, reply: make(chan R, 1)}

	i.mu.Lock()
	if i.pending != nil {
		i.mu.Unlock()
		return zero, ErrRequestPending
	}
	i.pending = req
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.pending = nil
		i.mu.Unlock()
	}()

	select {
	case v := <-req.reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Pending returns the outstanding request, or nil. Adapters poll this to
// learn what the engine is currently asking.
func (i *Interaction[P, R]) Pending() *Request[P, R] {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending
}
