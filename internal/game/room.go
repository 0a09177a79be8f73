package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/minemates/minemates/internal/board"
)

// BoardConfig carries the generation parameters shared by every board a
// room creates.
type BoardConfig struct {
	Rows  int
	Cols  int
	Mines int
}

// Room is one live game. All exported methods serialize through mu, so two
// actions on the same room are applied in lock-acquisition order and a
// board is never touched from two goroutines at once. Methods return the
// events to deliver; callers broadcast after the lock is released.
type Room struct {
	Code string
	Mode Mode

	mu      sync.Mutex
	cfg     BoardConfig
	rng     *rand.Rand
	phase   Phase
	players []*Player // join order
	hostID  string
	winner  string

	shared *board.Board            // cooperative
	boards map[string]*board.Board // competitive, by player ID

	nextPlayer int
}

func newRoom(code string, mode Mode, cfg BoardConfig, rng *rand.Rand) (*Room, error) {
	r := &Room{
		Code: code,
		Mode: mode,
		cfg:  cfg,
		rng:  rng,
	}
	switch mode {
	case ModeCooperative:
		b, err := board.New(cfg.Rows, cfg.Cols, cfg.Mines, rng)
		if err != nil {
			return nil, err
		}
		r.shared = b
		r.phase = PhaseReady
	case ModeCompetitive:
		r.boards = make(map[string]*board.Board, 2)
		r.phase = PhaseWaiting
	default:
		return nil, fmt.Errorf("game: unknown mode %q", mode)
	}
	return r, nil
}

func (r *Room) player(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerViews() []PlayerView {
	views := make([]PlayerView, 0, len(r.players))
	for _, p := range r.players {
		v := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Color:     p.Color,
			Score:     p.Score,
			Connected: p.Connected,
			Host:      p.ID == r.hostID,
		}
		if r.Mode == ModeCompetitive {
			v.Status = p.Status
			if b := r.boards[p.ID]; b != nil {
				v.Progress = b.Progress()
			}
		} else {
			v.Progress = p.Score
		}
		views = append(views, v)
	}
	return views
}

func (r *Room) roomState() RoomStateEvent {
	return RoomStateEvent{
		Type:    "room_state",
		Phase:   r.phase,
		HostID:  r.hostID,
		Winner:  r.winner,
		Players: r.playerViews(),
	}
}

// snapshotLocked builds the full-state view for one player. Mines are
// revealed only in terminal phases.
func (r *Room) snapshotLocked(playerID string) Snapshot {
	snap := Snapshot{
		Type:    "state_snapshot",
		Room:    r.Code,
		Mode:    r.Mode,
		Phase:   r.phase,
		You:     playerID,
		HostID:  r.hostID,
		Winner:  r.winner,
		Players: r.playerViews(),
	}
	reveal := r.phase.terminal()
	switch r.Mode {
	case ModeCooperative:
		v := r.shared.View(reveal)
		snap.Board = &v
	case ModeCompetitive:
		if b := r.boards[playerID]; b != nil {
			p := r.player(playerID)
			v := b.View(reveal || (p != nil && p.Status == StatusFailed))
			snap.Board = &v
		}
	}
	return snap
}

// Snapshot returns the authoritative full state for one player, sent as a
// single atomic message on join, reconnect and reset.
func (r *Room) Snapshot(playerID string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(playerID)
}

// snapshotAll emits a personalized snapshot for every connected member.
func (r *Room) snapshotAll() []Outgoing {
	out := make([]Outgoing, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected {
			out = append(out, sendTo(p.ID, r.snapshotLocked(p.ID)))
		}
	}
	return out
}

// join appends a player. Competitive rooms hold exactly two.
func (r *Room) join(id, name string) (*Player, []Outgoing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Mode == ModeCompetitive && len(r.players) >= 2 {
		return nil, nil, ErrRoomFull
	}

	p := &Player{
		ID:        id,
		Name:      name,
		Color:     palette[r.nextPlayer%len(palette)],
		Status:    StatusWaiting,
		Connected: true,
	}
	r.nextPlayer++
	r.players = append(r.players, p)
	if r.hostID == "" {
		r.hostID = id
	}
	if r.Mode == ModeCompetitive && len(r.players) == 2 && r.phase == PhaseWaiting {
		r.phase = PhaseReady
	}

	return p, []Outgoing{broadcast(r.roomState())}, nil
}

// Reattach flips a returning player back to connected and restores the
// in-game status a disconnect suspended. It reports false when the player
// no longer exists (grace window lapsed).
func (r *Room) Reattach(playerID string) ([]Outgoing, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil {
		return nil, false
	}
	p.Connected = true
	if p.Status == StatusDisconnected {
		p.Status = p.priorStatus
	}
	return []Outgoing{broadcast(r.roomState())}, true
}

// Disconnect marks a member's transport as dropped without removing them;
// their slot survives until the grace window lapses.
func (r *Room) Disconnect(playerID string) []Outgoing {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil {
		return nil
	}
	p.Connected = false
	if r.Mode == ModeCompetitive && p.Status != StatusDisconnected {
		p.priorStatus = p.Status
		p.Status = StatusDisconnected
	}
	return []Outgoing{
		broadcast(DisconnectedEvent{Type: "disconnected", PlayerID: playerID}),
		broadcast(r.roomState()),
	}
}

// removeLocked drops a player permanently, promoting the next-oldest member
// to host when needed. Returns the remaining member count.
func (r *Room) removeLocked(playerID string) int {
	for i, p := range r.players {
		if p.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	delete(r.boards, playerID)
	if r.hostID == playerID && len(r.players) > 0 {
		r.hostID = r.players[0].ID
	}
	if r.Mode == ModeCompetitive && r.phase == PhaseReady && len(r.players) < 2 {
		r.phase = PhaseWaiting
	}
	return len(r.players)
}

func (r *Room) empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// Leave removes a player explicitly. The second return is the remaining
// member count; zero means the room should be destroyed.
func (r *Room) Leave(playerID string) ([]Outgoing, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.player(playerID) == nil {
		return nil, len(r.players)
	}
	left := r.removeLocked(playerID)
	out := []Outgoing{broadcast(PlayerLeftEvent{Type: "player_left", PlayerID: playerID})}
	out = append(out, r.resolveAbandonLocked(playerID)...)
	if left > 0 {
		out = append(out, broadcast(r.roomState()))
	}
	return out, left
}

// Expire resolves a lapsed grace window: the player is removed for good,
// and a competitive match still in flight goes to the remaining player.
// It reports the remaining member count and whether anything happened.
func (r *Room) Expire(playerID string) ([]Outgoing, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil || p.Connected {
		return nil, len(r.players), false
	}
	left := r.removeLocked(playerID)
	out := []Outgoing{broadcast(PlayerLeftEvent{Type: "player_left", PlayerID: playerID})}
	out = append(out, r.resolveAbandonLocked(playerID)...)
	if left > 0 {
		out = append(out, broadcast(r.roomState()))
	}
	return out, left, true
}

// resolveAbandonLocked awards an in-flight competitive match to the player
// still present after their opponent is permanently removed.
func (r *Room) resolveAbandonLocked(gone string) []Outgoing {
	if r.Mode != ModeCompetitive || r.phase != PhasePlaying || len(r.players) != 1 {
		return nil
	}
	rest := r.players[0]
	rest.Status = StatusWon
	r.winner = rest.ID
	r.phase = PhaseFinished
	return []Outgoing{broadcast(GameResultEvent{
		Type:   "game_result",
		Phase:  r.phase,
		Winner: r.winner,
	})}
}
