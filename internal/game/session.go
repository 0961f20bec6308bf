package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Session is one game room. It owns its players and teams and runs at
// most one game at a time. Membership is guarded by a single mutex; the
// running flag is an atomic guard so concurrent Run calls collapse to
// one.
type Session struct {
	ID string

	rules Rules
	log   zerolog.Logger

	running atomic.Bool

	mu         sync.Mutex
	players    map[string]*Player
	order      []string // join order; the deterministic iteration order
	teams      map[int]*Team
	nextPlayer int // rotation cursor, persisted across games
	lastActive time.Time
	gameCancel context.CancelFunc
	onEmpty    func(*Session)

	// Game state, populated for the duration of one Run.
	ordered      []*Player
	gameMaster   *Player
	pool         *WordPool
	currentRound *Round
}

// NewSession creates an empty session. onEmpty, if non-nil, is invoked
// after the last player leaves.
func NewSession(id string, rules Rules, log zerolog.Logger, onEmpty func(*Session)) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankSessionID
	}
	s := &Session{
		ID:         id,
		rules:      rules,
		log:        log.With().Str("session", id).Logger(),
		players:    make(map[string]*Player),
		teams:      make(map[int]*Team),
		lastActive: time.Now(),
		onEmpty:    onEmpty,
	}
	s.log.Debug().Msg("session created")
	return s, nil
}

// Join adds a player, or returns the existing one for an exact name
// match. The first player to join becomes game master. A blank name is
// rejected with nil.
func (s *Session) Join(name string) *Player {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()

	if p, ok := s.players[name]; ok {
		return p
	}

	p := newPlayer(name, s)
	p.IsGameMaster = len(s.players) == 0
	s.players[name] = p
	s.order = append(s.order, name)

	s.log.Debug().Str("player", name).Int("count", len(s.players)).Msg("player joined")
	return p
}

// Kick removes the named player. If they held game master it passes to
// the first remaining player in join order. Kicking an active player
// while a game is running cancels the game.
func (s *Session) Kick(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}

	s.mu.Lock()
	p, ok := s.players[name]
	if !ok {
		s.mu.Unlock()
		return
	}

	delete(s.players, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if p.IsGameMaster && len(s.players) > 0 {
		s.players[s.order[0]].IsGameMaster = true
	}

	var cancel context.CancelFunc
	if s.running.Load() && IsActive(p) {
		cancel = s.gameCancel
	}
	empty := len(s.players) == 0
	onEmpty := s.onEmpty
	count := len(s.players)
	s.mu.Unlock()

	s.log.Debug().Str("player", name).Int("count", count).Msg("player kicked")

	if cancel != nil {
		s.log.Info().Str("player", name).Msg("active player left mid-game; cancelling")
		cancel()
	}
	if empty && onEmpty != nil {
		onEmpty(s)
	}
}

// SetTeam moves a player between teams (SpectatorTeam to sit out).
// Ignored while a game is running or for unknown players.
func (s *Session) SetTeam(name string, team int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return
	}
	p, ok := s.players[name]
	if !ok {
		return
	}
	if team < 0 {
		team = SpectatorTeam
	}
	p.Team = team
}

// SetMaxWordsPerPlayer adjusts the per-player contribution cap for
// future games. Ignored while a game is running or for values below 1.
func (s *Session) SetMaxWordsPerPlayer(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() || n < 1 {
		return
	}
	s.rules.MaxWordsPerPlayer = n
}

// CanRun reports whether a game may start: nothing running, exactly one
// connected game master, and the connected active players form at least
// MinActiveTeams teams of at least MinPlayersPerTeam each.
func (s *Session) CanRun() bool {
	if s.running.Load() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gameMasters := 0
	teamSizes := make(map[int]int)
	for _, p := range s.players {
		if !p.IsConnected() {
			continue
		}
		if p.IsGameMaster {
			gameMasters++
		}
		if IsActive(p) {
			teamSizes[p.Team]++
		}
	}

	if gameMasters != 1 {
		return false
	}
	if len(teamSizes) < s.rules.MinActiveTeams {
		return false
	}
	for _, size := range teamSizes {
		if size < s.rules.MinPlayersPerTeam {
			return false
		}
	}
	return true
}

// Run executes one full game: collect words from the connected active
// players, rebuild teams and the interleaved turn order, then drive
// rounds until the pool empties or ctx is cancelled. Teardown runs on
// every exit path, so the session is never left running with stale game
// state. If eligibility does not hold, or another Run is already in
// flight, Run is a no-op.
func (s *Session) Run(ctx context.Context) error {
	if !s.CanRun() {
		return nil
	}

	gameCtx, cancel := context.WithCancel(ctx)

	// The CAS and the cancel hook are published in one critical section
	// so a kick never observes running=true with no way to cancel.
	s.mu.Lock()
	if !s.running.CompareAndSwap(false, true) {
		s.mu.Unlock()
		cancel()
		return nil
	}
	defer s.teardown(cancel)

	s.lastActive = time.Now()
	s.gameCancel = cancel
	active := make([]*Player, 0, len(s.players))
	for _, name := range s.order {
		if p := s.players[name]; IsActive(p) {
			active = append(active, p)
		}
	}
	s.mu.Unlock()

	gm, err := singleGameMaster(active)
	if err != nil {
		return err
	}

	pool, err := s.collectWords(gameCtx, active)
	if err != nil {
		// Cancelled while collecting; clean teardown, nothing raised.
		return nil
	}
	if pool.Len() == 0 {
		s.log.Info().Msg("no words contributed; game aborted")
		return nil
	}

	ids := activeTeamIDs(active)

	s.mu.Lock()
	s.teams = make(map[int]*Team, len(ids))
	for _, id := range ids {
		s.teams[id] = NewTeam(id)
	}
	s.ordered = interleave(active, ids)
	s.gameMaster = gm
	s.pool = pool
	s.mu.Unlock()

	s.log.Info().
		Int("players", len(active)).
		Int("teams", len(ids)).
		Int("words", pool.Len()).
		Msg("game started")

	for i := 0; gameCtx.Err() == nil && pool.Len() > 0; i++ {
		round := newRound(s, i)
		s.mu.Lock()
		s.currentRound = round
		s.mu.Unlock()
		round.run(gameCtx)
	}

	s.log.Info().Msg("game finished")
	return nil
}

// Cancel aborts the running game, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.gameCancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// teardown releases all per-game state. Teams are kept so the last
// scoreboard stays readable; they are rebuilt at the next game start.
func (s *Session) teardown(cancel context.CancelFunc) {
	cancel()

	s.mu.Lock()
	s.gameCancel = nil
	s.ordered = nil
	s.gameMaster = nil
	s.pool = nil
	s.currentRound = nil
	s.mu.Unlock()

	s.running.Store(false)
}

// collectWords asks every connected active player for their words, in
// join order, one outstanding request per player. Contributions beyond
// the per-player cap are discarded.
func (s *Session) collectWords(ctx context.Context, active []*Player) (*WordPool, error) {
	contributions := make([][]string, 0, len(active))
	for _, p := range active {
		if !p.IsConnected() {
			continue
		}
		words, err := p.Words.Ask(ctx, WordsPrompt{Max: s.rules.MaxWordsPerPlayer})
		if err != nil {
			return nil, err
		}
		if len(words) > s.rules.MaxWordsPerPlayer {
			words = words[:s.rules.MaxWordsPerPlayer]
		}
		contributions = append(contributions, words)
	}
	return NewWordPool(contributions...), nil
}

// singleGameMaster enforces the exactly-one-game-master invariant for a
// starting game. Violations are collaborator bugs and fail loudly.
func singleGameMaster(active []*Player) (*Player, error) {
	var gm *Player
	for _, p := range active {
		if !p.IsGameMaster {
			continue
		}
		if gm != nil {
			return nil, fmt.Errorf("%w: multiple game masters", ErrGameMasterCount)
		}
		gm = p
	}
	if gm == nil {
		return nil, fmt.Errorf("%w: none found", ErrGameMasterCount)
	}
	return gm, nil
}

func activeTeamIDs(active []*Player) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, p := range active {
		if _, ok := seen[p.Team]; !ok {
			seen[p.Team] = struct{}{}
			ids = append(ids, p.Team)
		}
	}
	sort.Ints(ids)
	return ids
}

// interleave builds the turn order by cycling teams in id order and
// taking one not-yet-placed player from each visited team, so no team
// plays twice in a row.
func interleave(active []*Player, teamIDs []int) []*Player {
	buffer := make([]*Player, len(active))
	copy(buffer, active)

	ordered := make([]*Player, 0, len(active))
	ti := 0
	for len(buffer) > 0 {
		id := teamIDs[ti%len(teamIDs)]
		ti++
		for i, p := range buffer {
			if p.Team == id {
				ordered = append(ordered, p)
				buffer = append(buffer[:i], buffer[i+1:]...)
				break
			}
		}
	}
	return ordered
}

// gameState hands the current ordered players and pool to a round.
func (s *Session) gameState() ([]*Player, *WordPool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordered, s.pool
}

func (s *Session) rotationCursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextPlayer
}

func (s *Session) setRotationCursor(cursor int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPlayer = cursor
}

func (s *Session) IsRunning() bool {
	return s.running.Load()
}

// LastActive is read by the registry's idle collector. It refreshes on
// join and on game start.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Player looks up a member by exact name.
func (s *Session) Player(name string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[name]
}

// Players returns the members in join order.
func (s *Session) Players() []*Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Player, 0, len(s.players))
	for _, name := range s.order {
		out = append(out, s.players[name])
	}
	return out
}

// PlayerCount returns the number of members.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// MaxTeams is a lobby hint: half the member count.
func (s *Session) MaxTeams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players) / 2
}

// Team looks up a team from the current (or last) game.
func (s *Session) Team(id int) *Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams[id]
}

// Teams returns the current (or last) game's teams in id order.
func (s *Session) Teams() []*Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.teams[id])
	}
	return out
}

// GameMaster returns the game master of the running game, or nil.
func (s *Session) GameMaster() *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameMaster
}

// PlayersOrdered returns the running game's turn order, or nil.
func (s *Session) PlayersOrdered() []*Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ordered == nil {
		return nil
	}
	out := make([]*Player, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// CurrentRound returns the round in progress, or nil.
func (s *Session) CurrentRound() *Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRound
}
