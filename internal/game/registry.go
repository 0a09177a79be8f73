package game

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"sync"
	"time"
)

// Registry owns every live room and routes actions to them. Room lookup is
// guarded here; room mutation is serialized inside each Room.
type Registry struct {
	cfg BoardConfig

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry(cfg BoardConfig) *Registry {
	return &Registry{
		cfg:   cfg,
		rooms: make(map[string]*Room),
	}
}

// Get returns a live room by code.
func (g *Registry) Get(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// CreateOrJoin joins an existing room or creates one on an unseen code with
// the joining player as host. The room's mode is fixed by the creating
// request; later joiners inherit it.
//
// Membership changes happen while the registry still holds the entry: a
// concurrent Leave or Expire emptying the room cannot delete it between the
// lookup and the join, so a joiner is never appended to an orphaned room.
func (g *Registry) CreateOrJoin(code string, mode Mode, name string) (*Room, *Player, []Outgoing, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[code]
	if !ok {
		created, err := newRoom(code, mode, g.cfg, mrand.New(mrand.NewSource(time.Now().UnixNano())))
		if err != nil {
			return nil, nil, nil, err
		}
		r = created
		g.rooms[code] = r
	}

	p, events, err := r.join(newPlayerID(), name)
	if err != nil {
		if r.empty() {
			delete(g.rooms, code)
		}
		return nil, nil, nil, err
	}
	return r, p, events, nil
}

// Leave removes a player explicitly and destroys the room once empty.
func (g *Registry) Leave(code, playerID string) []Outgoing {
	r, err := g.Get(code)
	if err != nil {
		return nil
	}
	events, left := r.Leave(playerID)
	if left == 0 {
		g.removeIfEmpty(code)
	}
	return events
}

// Expire handles a lapsed reconnection grace window; see Room.Expire.
func (g *Registry) Expire(code, playerID string) ([]Outgoing, bool) {
	r, err := g.Get(code)
	if err != nil {
		return nil, false
	}
	events, left, expired := r.Expire(playerID)
	if expired && left == 0 {
		g.removeIfEmpty(code)
	}
	return events, expired
}

// removeIfEmpty drops the registry entry only if the room is still empty at
// the moment of removal. A join racing the last departure keeps the room alive.
func (g *Registry) removeIfEmpty(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.rooms[code]; ok {
		r.mu.Lock()
		empty := len(r.players) == 0
		r.mu.Unlock()
		if empty {
			delete(g.rooms, code)
		}
	}
}

// Count reports live rooms, for logging and health detail.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func newPlayerID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("150405.000000000")))[:16]
	}
	return hex.EncodeToString(b[:])
}
