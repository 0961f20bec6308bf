package game

import "time"

// Rules is the runtime policy for a session. The relaxed local-testing
// profile is just different values here, not a separate code path.
type Rules struct {
	MinActiveTeams    int
	MinPlayersPerTeam int
	MaxWordsPerPlayer int
	TurnDuration      time.Duration
	BonusWindow       time.Duration
}

// DefaultRules returns the strict party-game policy: two teams of two,
// one-minute turns with a short grace window for an in-flight word.
func DefaultRules() Rules {
	return Rules{
		MinActiveTeams:    2,
		MinPlayersPerTeam: 2,
		MaxWordsPerPlayer: 10,
		TurnDuration:      time.Minute,
		BonusWindow:       4 * time.Second,
	}
}
