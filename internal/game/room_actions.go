package game

import (
	"github.com/minemates/minemates/internal/board"
)

// creditOpened is the cooperative score-attribution policy: every safe cell
// revealed by an action, flood-filled cascade included, is credited to the
// acting player. Mine cells never score; a chord over several wrong flags
// can open more than one.
func creditOpened(p *Player, b *board.Board, res board.Result) {
	for _, co := range res.Opened {
		if !b.Cell(co.Row, co.Col).Mine {
			p.Score++
		}
	}
}

func openedCells(b *board.Board, coords []board.Coord) []OpenedCell {
	cells := make([]OpenedCell, 0, len(coords))
	for _, co := range coords {
		cells = append(cells, OpenedCell{Row: co.Row, Col: co.Col, Nearby: b.Cell(co.Row, co.Col).Nearby})
	}
	return cells
}

func (r *Room) scores() map[string]int {
	s := make(map[string]int, len(r.players))
	for _, p := range r.players {
		s[p.ID] = p.Score
	}
	return s
}

// Open applies an open action for playerID. Illegal actions (wrong phase,
// flagged or already-open target) return no events and are not rebroadcast.
func (r *Room) Open(playerID string, row, col int) []Outgoing {
	return r.reveal(playerID, func(b *board.Board) board.Result {
		return b.Open(row, col)
	})
}

// Chord resolves a chord action for playerID. The board engine treats the
// whole chord as one atomic action, so a simultaneous left+right press can
// never interleave with another player's open.
func (r *Room) Chord(playerID string, row, col int) []Outgoing {
	return r.reveal(playerID, func(b *board.Board) board.Result {
		return b.Chord(row, col)
	})
}

// reveal runs an opening action against the acting player's board and folds
// the result into mode state.
func (r *Room) reveal(playerID string, act func(*board.Board) board.Result) []Outgoing {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil {
		return nil
	}

	switch r.Mode {
	case ModeCooperative:
		if r.phase != PhaseReady && r.phase != PhasePlaying {
			return nil
		}
		res := act(r.shared)
		if len(res.Opened) == 0 {
			return nil
		}
		r.phase = PhasePlaying
		creditOpened(p, r.shared, res)

		out := []Outgoing{broadcast(CellsOpenedEvent{
			Type:      "cells_opened",
			PlayerID:  playerID,
			Cells:     openedCells(r.shared, res.Opened),
			Detonated: res.Detonated,
			Remaining: r.shared.Remaining(),
			Scores:    r.scores(),
		})}

		switch {
		case res.Detonated:
			// One mine freezes the shared board for everyone.
			r.phase = PhaseLost
		case res.Cleared:
			r.phase = PhaseWon
		default:
			return out
		}
		v := r.shared.View(true)
		return append(out, broadcast(GameResultEvent{
			Type:   "game_result",
			Phase:  r.phase,
			Board:  &v,
			Scores: r.scores(),
		}))

	case ModeCompetitive:
		if r.phase != PhasePlaying || p.Status != StatusPlaying {
			return nil
		}
		b := r.boards[playerID]
		if b == nil {
			return nil
		}
		res := act(b)
		if len(res.Opened) == 0 {
			return nil
		}

		out := []Outgoing{sendTo(playerID, CellsOpenedEvent{
			Type:       "cells_opened",
			PlayerID:   playerID,
			BoardOwner: playerID,
			Cells:      openedCells(b, res.Opened),
			Detonated:  res.Detonated,
			Remaining:  b.Remaining(),
		})}

		switch {
		case res.Detonated:
			// Failure is not terminal for the room: the player may reset
			// their own board while the opponent races on.
			p.Status = StatusFailed
			out = append(out, sendTo(playerID, r.snapshotLocked(playerID)))
		case res.Cleared:
			p.Status = StatusWon
			r.winner = playerID
			r.phase = PhaseFinished
			for _, other := range r.players {
				if other.ID != playerID && other.Status != StatusWon {
					other.Status = StatusFailed
				}
			}
			out = append(out, broadcast(GameResultEvent{
				Type:   "game_result",
				Phase:  r.phase,
				Winner: r.winner,
			}))
		}
		return append(out, broadcast(ProgressEvent{
			Type:     "progress",
			PlayerID: playerID,
			Progress: b.Progress(),
			Status:   p.Status,
		}))
	}
	return nil
}

// ToggleFlag flips a flag on the acting player's board. Cooperative flags
// are broadcast; competitive flags stay on the owner's connection since
// opponents never see cell data.
func (r *Room) ToggleFlag(playerID string, row, col int) []Outgoing {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil {
		return nil
	}

	var b *board.Board
	var out func(msg any) Outgoing
	owner := ""
	switch r.Mode {
	case ModeCooperative:
		if r.phase != PhaseReady && r.phase != PhasePlaying {
			return nil
		}
		b, out = r.shared, broadcast
	case ModeCompetitive:
		if r.phase != PhasePlaying || p.Status != StatusPlaying {
			return nil
		}
		b = r.boards[playerID]
		if b == nil {
			return nil
		}
		owner = playerID
		out = func(msg any) Outgoing { return sendTo(playerID, msg) }
	default:
		return nil
	}

	if !b.ToggleFlag(row, col) {
		return nil
	}
	return []Outgoing{out(FlagToggledEvent{
		Type:       "flag_toggled",
		PlayerID:   playerID,
		BoardOwner: owner,
		Row:        row,
		Col:        col,
		Flagged:    b.Cell(row, col).Flagged,
		Remaining:  b.Remaining(),
	})}
}

// ResetBoard regenerates boards. Cooperative: any member may reset the
// shared board at any time, which zeroes scores and returns the room to
// ready. Competitive: a player regenerates only their own board and resumes
// playing while the opponent continues undisturbed.
func (r *Room) ResetBoard(playerID string) ([]Outgoing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil {
		return nil, nil
	}

	switch r.Mode {
	case ModeCooperative:
		b, err := board.New(r.cfg.Rows, r.cfg.Cols, r.cfg.Mines, r.rng)
		if err != nil {
			return nil, err
		}
		r.shared = b
		r.phase = PhaseReady
		r.winner = ""
		for _, pl := range r.players {
			pl.Score = 0
		}
		out := []Outgoing{broadcast(r.roomState())}
		return append(out, r.snapshotAll()...), nil

	case ModeCompetitive:
		if r.phase != PhasePlaying || (p.Status != StatusPlaying && p.Status != StatusFailed) {
			return nil, nil
		}
		b, err := board.New(r.cfg.Rows, r.cfg.Cols, r.cfg.Mines, r.rng)
		if err != nil {
			return nil, err
		}
		r.boards[playerID] = b
		p.Status = StatusPlaying
		return []Outgoing{
			sendTo(playerID, r.snapshotLocked(playerID)),
			broadcast(ProgressEvent{Type: "progress", PlayerID: playerID, Progress: 0, Status: p.Status}),
		}, nil
	}
	return nil, nil
}

// StartPvP moves a full competitive room from ready to playing. Host only,
// and only with exactly two players present.
func (r *Room) StartPvP(playerID string) ([]Outgoing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Mode != ModeCompetitive {
		return nil, nil
	}
	if playerID != r.hostID {
		return nil, ErrNotHost
	}
	if r.phase != PhaseReady || len(r.players) != 2 {
		return nil, nil
	}
	if err := r.dealBoardsLocked(); err != nil {
		return nil, err
	}
	r.phase = PhasePlaying
	out := []Outgoing{broadcast(r.roomState())}
	return append(out, r.snapshotAll()...), nil
}

// Rematch restarts a finished competitive match with the same roster. Host
// only, terminal phase only.
func (r *Room) Rematch(playerID string) ([]Outgoing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Mode != ModeCompetitive {
		return nil, nil
	}
	if playerID != r.hostID {
		return nil, ErrNotHost
	}
	if !r.phase.terminal() || len(r.players) != 2 {
		return nil, nil
	}
	if err := r.dealBoardsLocked(); err != nil {
		return nil, err
	}
	r.winner = ""
	r.phase = PhasePlaying
	out := []Outgoing{broadcast(r.roomState())}
	return append(out, r.snapshotAll()...), nil
}

// dealBoardsLocked hands every player a fresh board from the same
// generation parameters. Mine layouts stay independent because each board
// places its mines on its owner's first open.
func (r *Room) dealBoardsLocked() error {
	for _, p := range r.players {
		b, err := board.New(r.cfg.Rows, r.cfg.Cols, r.cfg.Mines, r.rng)
		if err != nil {
			return err
		}
		r.boards[p.ID] = b
		p.Status = StatusPlaying
	}
	return nil
}

// Hover is ephemeral cursor sharing; it never touches a board.
type Hover struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

// HoverEvent fabricates the broadcast for a cell_hover message.
func (r *Room) HoverEvent(playerID string, row, col int) []Outgoing {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(playerID)
	if p == nil {
		return nil
	}
	return []Outgoing{broadcast(Hover{
		Type:     "cell_hover",
		PlayerID: p.ID,
		Name:     p.Name,
		Color:    p.Color,
		Row:      row,
		Col:      col,
	})}
}
