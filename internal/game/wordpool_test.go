package game

import (
	"strings"
	"testing"
)

func TestNewWordPool_MergesContributions(t *testing.T) {
	pool := NewWordPool(
		[]string{"cat", "dog"},
		[]string{"sun"},
		[]string{"CAT", "moon"},
		[]string{""},
		[]string{"  "},
	)

	if pool.Len() != 4 {
		t.Fatalf("expected pool of 4, got %d: %v", pool.Len(), pool.Words())
	}

	seen := make(map[string]bool)
	for _, w := range pool.Words() {
		seen[strings.ToLower(w)] = true
	}
	for _, want := range []string{"cat", "dog", "sun", "moon"} {
		if !seen[want] {
			t.Errorf("expected %q in pool", want)
		}
	}
}

func TestWordPool_RemoveOnce(t *testing.T) {
	pool := NewWordPool([]string{"cat", "dog"})

	if !pool.Remove("cat") {
		t.Error("first removal should succeed")
	}
	if pool.Remove("cat") {
		t.Error("second removal should report absence")
	}
	if pool.Len() != 1 {
		t.Errorf("expected 1 word left, got %d", pool.Len())
	}
}

func TestWordPool_PickAvoidsPrevious(t *testing.T) {
	pool := NewWordPool([]string{"cat", "dog", "sun"})

	for i := 0; i < 200; i++ {
		if got := pool.Pick("cat"); got == "cat" {
			t.Fatal("Pick returned the previous word with 3 words remaining")
		}
	}
}

func TestWordPool_PickSoleWord(t *testing.T) {
	pool := NewWordPool([]string{"cat"})

	if got := pool.Pick("cat"); got != "cat" {
		t.Errorf("expected the sole remaining word, got %q", got)
	}
}

func TestWordPool_PickEmpty(t *testing.T) {
	pool := NewWordPool()

	if got := pool.Pick(""); got != "" {
		t.Errorf("expected empty pick from empty pool, got %q", got)
	}
}
