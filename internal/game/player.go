package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Player is one session participant. Name is unique within the session.
// Team and IsGameMaster are mutated only under the owning session's lock;
// connectivity is a reference count so a player can hold several open
// views at once.
//
// The two interaction channels are how the engine asks the player
// anything: Words for contributed words, YesNo for ready/accept
// decisions. A remote-participant adapter services both.
type Player struct {
	Name     string
	JoinedAt time.Time

	Team         int
	IsGameMaster bool

	Words *Interaction[WordsPrompt, []string]
	YesNo *Interaction[YesNoPrompt, bool]

	session     *Session
	connections atomic.Int32
}

func newPlayer(name string, session *Session) *Player {
	return &Player{
		Name:     name,
		JoinedAt: time.Now(),
		Team:     SpectatorTeam,
		Words:    NewInteraction[WordsPrompt, []string](),
		YesNo:    NewInteraction[YesNoPrompt, bool](),
		session:  session,
	}
}

// Connection is a scoped presence handle. Release is idempotent.
type Connection struct {
	ID     string
	player *Player
	once   sync.Once
}

func (c *Connection) Release() {
	c.once.Do(func() {
		c.player.connections.Add(-1)
	})
}

// AcquireConnection registers one presence (an open view, a stream).
// Concurrent acquisitions are legal and expected.
func (p *Player) AcquireConnection() *Connection {
	p.connections.Add(1)
	return &Connection{ID: uuid.NewString(), player: p}
}

// IsConnected reports whether at least one presence is held.
func (p *Player) IsConnected() bool {
	return p.connections.Load() > 0
}

// Session returns the owning session. The reference is navigational
// only; the session owns the player, never the other way around.
func (p *Player) Session() *Session {
	return p.session
}

// LeaveSession removes this player from its session.
func (p *Player) LeaveSession() {
	p.session.Kick(p.Name)
}
