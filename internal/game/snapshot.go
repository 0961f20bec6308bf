package game

import "sort"

// Snapshot is a pull-based, consistent view of a session for rendering.
// It never exposes live engine objects.
type Snapshot struct {
	ID       string       `json:"id"`
	Running  bool         `json:"running"`
	MaxTeams int          `json:"maxTeams"`
	Players  []PlayerInfo `json:"players"`
	Teams    []TeamInfo   `json:"teams"`
	Round    *RoundInfo   `json:"round,omitempty"`
	Run      *RunInfo     `json:"run,omitempty"`
}

type PlayerInfo struct {
	Name       string `json:"name"`
	Team       int    `json:"team"`
	GameMaster bool   `json:"gameMaster"`
	Connected  bool   `json:"connected"`
}

type TeamInfo struct {
	ID     int `json:"id"`
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

type RoundInfo struct {
	Index int `json:"index"`
}

type RunInfo struct {
	Player      string `json:"player"`
	Word        string `json:"word"`
	Running     bool   `json:"running"`
	RemainingMs int64  `json:"remainingMs"`
	Hits        int    `json:"hits"`
	Misses      int    `json:"misses"`
}

// Snapshot captures the session state under the membership lock, so a
// reader never sees a player removed but game master not yet reassigned.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()

	snap := Snapshot{
		ID:       s.ID,
		Running:  s.running.Load(),
		MaxTeams: len(s.players) / 2,
	}

	for _, name := range s.order {
		p := s.players[name]
		snap.Players = append(snap.Players, PlayerInfo{
			Name:       p.Name,
			Team:       p.Team,
			GameMaster: p.IsGameMaster,
			Connected:  p.IsConnected(),
		})
	}

	ids := make([]int, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	round := s.currentRound
	teams := make([]*Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, s.teams[id])
	}
	s.mu.Unlock()

	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	for _, t := range teams {
		snap.Teams = append(snap.Teams, TeamInfo{
			ID:     t.ID,
			Hits:   t.Score.Hits(),
			Misses: t.Score.Misses(),
		})
	}

	if round != nil {
		snap.Round = &RoundInfo{Index: round.Index}
		if run := round.CurrentRun(); run != nil {
			snap.Run = &RunInfo{
				Player:      run.Player().Name,
				Word:        run.Word(),
				Running:     run.IsRunning(),
				RemainingMs: run.TimeRemaining().Milliseconds(),
				Hits:        run.Score().Hits(),
				Misses:      run.Score().Misses(),
			}
		}
	}

	return snap
}
