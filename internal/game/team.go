package game

// SpectatorTeam is the reserved team id for players who are not
// competing. Active team ids are non-negative.
const SpectatorTeam = -1

// Team is a named grouping of active players with an aggregated score.
// Teams are derived, not persisted: the set is rebuilt from current
// player team ids at the start of each game.
type Team struct {
	ID    int
	Score *Score
}

func NewTeam(id int) *Team {
	return &Team{ID: id, Score: NewScore()}
}

func IsActive(p *Player) bool    { return p.Team >= 0 }
func IsSpectator(p *Player) bool { return !IsActive(p) }
