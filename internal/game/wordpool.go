package game

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// WordPool is the merged, deduplicated set of words contributed by the
// active players for one game. It is mutated only by the single active
// run; the lock exists so snapshot readers never see a torn state.
type WordPool struct {
	mu    sync.RWMutex
	words []string
}

// NewWordPool merges contributions into a pool: whitespace is trimmed,
// blank entries are dropped, and duplicates are folded case-insensitively
// keeping the first spelling seen.
func NewWordPool(contributions ...[]string) *WordPool {
	seen := make(map[string]struct{})
	var words []string
	for _, list := range contributions {
		for _, w := range list {
			w = strings.TrimSpace(w)
			if w == "" {
				continue
			}
			key := strings.ToLower(w)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			words = append(words, w)
		}
	}
	return &WordPool{words: words}
}

func (p *WordPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.words)
}

// Words returns a copy of the remaining words.
func (p *WordPool) Words() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// Remove deletes a word from the pool. It reports whether the word was
// present; a word is removed exactly once.
func (p *WordPool) Remove(word string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.words {
		if w == word {
			p.words = append(p.words[:i], p.words[i+1:]...)
			return true
		}
	}
	return false
}

// Pick returns a uniformly random word, avoiding prev unless it is the
// only word left. When the naive pick lands on prev, the index is
// resampled over the remaining candidates and shifted past the collision
// so the choice stays uniform.
func (p *WordPool) Pick(prev string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.words) == 0 {
		return ""
	}
	if len(p.words) == 1 {
		return p.words[0]
	}

	index := rand.IntN(len(p.words))
	if p.words[index] == prev {
		idx := rand.IntN(len(p.words) - 1)
		if idx >= index {
			idx++
		}
		index = idx
	}

	return p.words[index]
}
