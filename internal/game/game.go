// Package game owns rooms: the per-room mode state machine over one or two
// boards, the player roster, and the registry that routes actions to rooms.
// All mutation of a room is serialized through its lock; methods return the
// events to fan out so no lock is held during network I/O.
package game

import "errors"

var (
	ErrRoomNotFound = errors.New("game: room not found")
	ErrRoomFull     = errors.New("game: room is full")
	ErrNotHost      = errors.New("game: host-only action")
)

// Mode selects how a room plays: one shared board for everyone, or two
// independent boards racing to the same goal.
type Mode string

const (
	ModeCooperative Mode = "cooperative"
	ModeCompetitive Mode = "competitive"
)

// ParseMode maps a client-supplied mode string, defaulting to cooperative.
func ParseMode(s string) Mode {
	if Mode(s) == ModeCompetitive {
		return ModeCompetitive
	}
	return ModeCooperative
}

// Phase is the room-level state machine.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseReady    Phase = "ready"
	PhasePlaying  Phase = "playing"
	PhaseWon      Phase = "won"      // cooperative terminal
	PhaseLost     Phase = "lost"     // cooperative terminal
	PhaseFinished Phase = "finished" // competitive terminal
)

func (p Phase) terminal() bool {
	return p == PhaseWon || p == PhaseLost || p == PhaseFinished
}

// Status tracks a competitive player's individual progress through a match.
type Status string

const (
	StatusWaiting      Status = "waiting"
	StatusPlaying      Status = "playing"
	StatusWon          Status = "won"
	StatusFailed       Status = "failed"
	StatusDisconnected Status = "disconnected"
)

// Player is a roster entry. Score counts safe cells the player personally
// revealed (cooperative); Status is competitive match state. priorStatus
// remembers the in-game status across a disconnect so reconnection can
// restore it.
type Player struct {
	ID        string
	Name      string
	Color     string
	Score     int
	Status    Status
	Connected bool

	priorStatus Status
}

// palette provides hover/cursor colors, assigned round-robin at join.
var palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#42d4f4", "#f032e6", "#bfef45",
}
