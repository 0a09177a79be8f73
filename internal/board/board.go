// Package board implements the minesweeper grid: mine placement, adjacency
// counts, cascade reveal, flags and chords. It knows nothing about rooms or
// networking.
package board

import (
	"errors"
	"math/rand"
)

// ErrInvalidConfig is returned when the requested dimensions cannot host the
// requested mine count while keeping the first-click exclusion zone clean.
var ErrInvalidConfig = errors.New("board: invalid configuration")

type Cell struct {
	Mine    bool
	Open    bool
	Flagged bool
	Nearby  int // mined neighbors, 0..8, fixed at generation time
}

// Board is a rows×cols minesweeper grid. Mines are placed lazily on the
// first Open so that the opened cell and its neighbors are never mined.
type Board struct {
	Rows  int
	Cols  int
	Mines int

	cells     [][]Cell
	generated bool
	rng       *rand.Rand
}

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Result reports the outcome of a mutating action. Opened lists newly
// revealed coordinates in reveal order.
type Result struct {
	Opened    []Coord
	Detonated bool
	Cleared   bool
}

// New creates an ungenerated board. Placement happens on the first Open.
// The mine count must leave room for the 9-cell exclusion zone around the
// first opened cell.
func New(rows, cols, mines int, rng *rand.Rand) (*Board, error) {
	if rows <= 0 || cols <= 0 || mines <= 0 || mines >= rows*cols-9 {
		return nil, ErrInvalidConfig
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return &Board{Rows: rows, Cols: cols, Mines: mines, cells: cells, rng: rng}, nil
}

func (b *Board) in(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
}

// Cell returns a copy of the cell at row, col. The zero Cell is returned for
// out-of-range coordinates.
func (b *Board) Cell(row, col int) Cell {
	if !b.in(row, col) {
		return Cell{}
	}
	return b.cells[row][col]
}

// Generated reports whether mines have been placed yet.
func (b *Board) Generated() bool { return b.generated }

// neighbors calls fn for every in-range neighbor of row, col.
func (b *Board) neighbors(row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if r, c := row+dr, col+dc; b.in(r, c) {
				fn(r, c)
			}
		}
	}
}

// generate places mines uniformly at random over every cell outside the
// exclusion zone (the first-opened cell plus its neighbors), then computes
// Nearby for the whole grid.
func (b *Board) generate(exclude Coord) {
	excluded := func(r, c int) bool {
		dr, dc := r-exclude.Row, c-exclude.Col
		return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
	}

	candidates := make([]Coord, 0, b.Rows*b.Cols)
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if !excluded(r, c) {
				candidates = append(candidates, Coord{r, c})
			}
		}
	}
	b.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, m := range candidates[:b.Mines] {
		b.cells[m.Row][m.Col].Mine = true
	}

	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if b.cells[r][c].Mine {
				continue
			}
			count := 0
			b.neighbors(r, c, func(nr, nc int) {
				if b.cells[nr][nc].Mine {
					count++
				}
			})
			b.cells[r][c].Nearby = count
		}
	}
	b.generated = true
}

// Open reveals the cell at row, col. Flagged or already-open cells are a
// no-op. Opening a mine detonates it. Opening a zero-Nearby cell cascades
// through the connected zero region and its numbered border via an iterative
// worklist, visiting each cell at most once.
func (b *Board) Open(row, col int) Result {
	var res Result
	if !b.in(row, col) {
		return res
	}
	cell := &b.cells[row][col]
	if cell.Open || cell.Flagged {
		return res
	}
	if !b.generated {
		b.generate(Coord{row, col})
	}
	if cell.Mine {
		cell.Open = true
		res.Opened = append(res.Opened, Coord{row, col})
		res.Detonated = true
		return res
	}

	stack := []Coord{{row, col}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := &b.cells[cur.Row][cur.Col]
		if c.Open || c.Flagged || c.Mine {
			continue
		}
		c.Open = true
		res.Opened = append(res.Opened, cur)

		if c.Nearby == 0 {
			b.neighbors(cur.Row, cur.Col, func(nr, nc int) {
				n := b.cells[nr][nc]
				if !n.Open && !n.Flagged && !n.Mine {
					stack = append(stack, Coord{nr, nc})
				}
			})
		}
	}

	res.Cleared = b.Cleared()
	return res
}

// ToggleFlag flips the flag on a closed cell and reports whether anything
// changed. Open cells cannot be flagged.
func (b *Board) ToggleFlag(row, col int) bool {
	if !b.in(row, col) {
		return false
	}
	cell := &b.cells[row][col]
	if cell.Open {
		return false
	}
	cell.Flagged = !cell.Flagged
	return true
}

// Chord opens every unflagged closed neighbor of an open numbered cell when
// its flagged-neighbor count equals Nearby. Any other target, or a flag
// count mismatch, is a no-op. Hitting a mis-flagged mine detonates.
func (b *Board) Chord(row, col int) Result {
	var res Result
	if !b.in(row, col) {
		return res
	}
	cell := b.cells[row][col]
	if !cell.Open || cell.Nearby == 0 {
		return res
	}

	flags := 0
	b.neighbors(row, col, func(r, c int) {
		if b.cells[r][c].Flagged {
			flags++
		}
	})
	if flags != cell.Nearby {
		return res
	}

	var targets []Coord
	b.neighbors(row, col, func(r, c int) {
		n := b.cells[r][c]
		if !n.Open && !n.Flagged {
			targets = append(targets, Coord{r, c})
		}
	})
	for _, t := range targets {
		sub := b.Open(t.Row, t.Col)
		res.Opened = append(res.Opened, sub.Opened...)
		if sub.Detonated {
			res.Detonated = true
		}
	}
	if !res.Detonated {
		res.Cleared = b.Cleared()
	}
	return res
}

// Cleared reports whether every non-mine cell is open.
func (b *Board) Cleared() bool {
	if !b.generated {
		return false
	}
	for r := range b.cells {
		for c := range b.cells[r] {
			cell := b.cells[r][c]
			if !cell.Mine && !cell.Open {
				return false
			}
		}
	}
	return true
}

// Progress counts open non-mine cells.
func (b *Board) Progress() int {
	n := 0
	for r := range b.cells {
		for c := range b.cells[r] {
			cell := b.cells[r][c]
			if cell.Open && !cell.Mine {
				n++
			}
		}
	}
	return n
}

// Remaining is the mine count minus placed flags, the counter clients show.
// It may go negative when players over-flag.
func (b *Board) Remaining() int {
	flags := 0
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c].Flagged {
				flags++
			}
		}
	}
	return b.Mines - flags
}
