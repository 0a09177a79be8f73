package game

import "github.com/minemates/minemates/internal/board"

// Outgoing pairs an event payload with its audience. An empty To means the
// whole room; otherwise the event is delivered only to that player's
// connection.
type Outgoing struct {
	To  string
	Msg any
}

func broadcast(msg any) Outgoing { return Outgoing{Msg: msg} }

func sendTo(playerID string, msg any) Outgoing { return Outgoing{To: playerID, Msg: msg} }

// PlayerView is the roster entry clients render.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Score     int    `json:"score"`
	Status    Status `json:"status,omitempty"`
	Progress  int    `json:"progress"`
	Connected bool   `json:"connected"`
	Host      bool   `json:"isHost"`
}

// Snapshot is the full authoritative state sent to one connection on join,
// reconnect and reset. In competitive mode Board is the receiving player's
// own board; opponents are summarized by PlayerView.Progress only.
type Snapshot struct {
	Type    string           `json:"type"`
	Room    string           `json:"room"`
	Mode    Mode             `json:"mode"`
	Phase   Phase            `json:"phase"`
	You     string           `json:"you"`
	HostID  string           `json:"hostId"`
	Winner  string           `json:"winnerId,omitempty"`
	Players []PlayerView     `json:"players"`
	Board   *board.BoardView `json:"board,omitempty"`
}

// RoomStateEvent is broadcast whenever the roster or phase changes.
type RoomStateEvent struct {
	Type    string       `json:"type"`
	Phase   Phase        `json:"phase"`
	HostID  string       `json:"hostId"`
	Winner  string       `json:"winnerId,omitempty"`
	Players []PlayerView `json:"players"`
}

// OpenedCell carries the adjacency count revealed with a cell.
type OpenedCell struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Nearby int `json:"nearbyMines"`
}

// CellsOpenedEvent is the delta for an open or chord. BoardOwner is empty
// for the cooperative shared board, else the owning player's ID; the
// gateway delivers owned-board deltas to the owner only.
type CellsOpenedEvent struct {
	Type       string         `json:"type"`
	PlayerID   string         `json:"playerId"`
	BoardOwner string         `json:"boardOwner,omitempty"`
	Cells      []OpenedCell   `json:"cells"`
	Detonated  bool           `json:"detonated,omitempty"`
	Remaining  int            `json:"remaining"`
	Scores     map[string]int `json:"scores,omitempty"`
}

// FlagToggledEvent mirrors a flag flip.
type FlagToggledEvent struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	BoardOwner string `json:"boardOwner,omitempty"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Flagged    bool   `json:"isFlagged"`
	Remaining  int    `json:"remaining"`
}

// ProgressEvent lets competitive opponents render a progress bar without
// seeing any cell data.
type ProgressEvent struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
}

// GameResultEvent closes out a game: cooperative win/loss or a competitive
// finish. Board is the fully revealed shared board (cooperative only).
type GameResultEvent struct {
	Type   string           `json:"type"`
	Phase  Phase            `json:"phase"`
	Winner string           `json:"winnerId,omitempty"`
	Board  *board.BoardView `json:"board,omitempty"`
	Scores map[string]int   `json:"scores,omitempty"`
}

// PlayerLeftEvent is broadcast on explicit leave or grace-window expiry.
type PlayerLeftEvent struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// DisconnectedEvent is broadcast when a member's transport drops but their
// slot is still inside the grace window.
type DisconnectedEvent struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}
