package board

import (
	"math/rand"
	"testing"
)

func newBoard(t *testing.T, rows, cols, mines int, seed int64) *Board {
	t.Helper()
	b, err := New(rows, cols, mines, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return b
}

func countMines(b *Board) int {
	n := 0
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if b.Cell(r, c).Mine {
				n++
			}
		}
	}
	return n
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name              string
		rows, cols, mines int
	}{
		{"zero rows", 0, 9, 10},
		{"zero cols", 9, 0, 10},
		{"zero mines", 9, 9, 0},
		{"negative mines", 9, 9, -1},
		{"no room for exclusion zone", 9, 9, 72},
		{"more mines than cells", 9, 9, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.rows, tt.cols, tt.mines, rand.New(rand.NewSource(1))); err == nil {
				t.Errorf("New(%d, %d, %d) accepted", tt.rows, tt.cols, tt.mines)
			}
		})
	}
}

func TestGenerateExactMineCountAndExclusionZone(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		b := newBoard(t, 9, 9, 10, seed)
		b.Open(4, 4)

		if got := countMines(b); got != 10 {
			t.Fatalf("seed %d: %d mines, want 10", seed, got)
		}
		for r := 3; r <= 5; r++ {
			for c := 3; c <= 5; c++ {
				if b.Cell(r, c).Mine {
					t.Fatalf("seed %d: mine inside exclusion zone at (%d,%d)", seed, r, c)
				}
			}
		}
	}
}

func TestNearbyCountsMatchNeighborhood(t *testing.T) {
	b := newBoard(t, 16, 16, 40, 7)
	b.Open(8, 8)

	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if b.Cell(r, c).Mine {
				continue
			}
			want := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					if b.Cell(r+dr, c+dc).Mine {
						want++
					}
				}
			}
			if got := b.Cell(r, c).Nearby; got != want {
				t.Errorf("cell (%d,%d): Nearby = %d, want %d", r, c, got, want)
			}
		}
	}
}

func TestFirstOpenCascades(t *testing.T) {
	// The exclusion zone guarantees the first-opened cell has Nearby == 0,
	// so the opening cascade always reveals more than one cell.
	b := newBoard(t, 9, 9, 10, 3)
	res := b.Open(4, 4)

	if res.Detonated {
		t.Fatal("first open detonated")
	}
	if b.Cell(4, 4).Nearby != 0 {
		t.Fatalf("first-opened cell has Nearby = %d, want 0", b.Cell(4, 4).Nearby)
	}
	if len(res.Opened) < 2 {
		t.Fatalf("first open revealed %d cells, want >= 2", len(res.Opened))
	}
}

func TestFloodFillFixedPoint(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 11)
	res := b.Open(4, 4)

	// Every revealed zero cell's neighbors must also be revealed: a second
	// pass over the board must find nothing left to cascade into.
	for _, co := range res.Opened {
		if b.Cell(co.Row, co.Col).Nearby != 0 {
			continue
		}
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r, c := co.Row+dr, co.Col+dc
				if r < 0 || r >= b.Rows || c < 0 || c >= b.Cols {
					continue
				}
				if !b.Cell(r, c).Open {
					t.Fatalf("neighbor (%d,%d) of zero cell (%d,%d) left closed", r, c, co.Row, co.Col)
				}
			}
		}
	}

	// Each cell is visited once: no duplicates in the reveal list.
	seen := make(map[Coord]bool, len(res.Opened))
	for _, co := range res.Opened {
		if seen[co] {
			t.Fatalf("cell (%d,%d) opened twice", co.Row, co.Col)
		}
		seen[co] = true
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 5)
	b.Open(4, 4)
	before := b.Progress()

	res := b.Open(4, 4)
	if len(res.Opened) != 0 || res.Detonated {
		t.Errorf("re-open mutated the board: %+v", res)
	}
	if b.Progress() != before {
		t.Errorf("progress changed from %d to %d", before, b.Progress())
	}
}

func TestOpenRespectsFlags(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 5)
	b.Open(4, 4)

	var target Coord
	found := false
	for r := 0; r < b.Rows && !found; r++ {
		for c := 0; c < b.Cols && !found; c++ {
			if !b.Cell(r, c).Open {
				target = Coord{r, c}
				found = true
			}
		}
	}
	if !found {
		t.Skip("board fully opened by cascade")
	}

	b.ToggleFlag(target.Row, target.Col)
	if res := b.Open(target.Row, target.Col); len(res.Opened) != 0 {
		t.Errorf("opened a flagged cell: %+v", res)
	}
	b.ToggleFlag(target.Row, target.Col)
	if b.Cell(target.Row, target.Col).Flagged {
		t.Error("flag not cleared by second toggle")
	}
}

func TestToggleFlagOnOpenCell(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 5)
	b.Open(4, 4)

	if b.ToggleFlag(4, 4) {
		t.Error("flagged an open cell")
	}
	if b.Cell(4, 4).Flagged {
		t.Error("open cell carries a flag")
	}
}

func TestDetonation(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 9)
	b.Open(4, 4)

	mine, found := Coord{}, false
	for r := 0; r < b.Rows && !found; r++ {
		for c := 0; c < b.Cols && !found; c++ {
			if b.Cell(r, c).Mine {
				mine = Coord{r, c}
				found = true
			}
		}
	}
	if !found {
		t.Fatal("no mine on board")
	}

	res := b.Open(mine.Row, mine.Col)
	if !res.Detonated {
		t.Fatal("opening a mine did not detonate")
	}
	if res.Cleared {
		t.Error("detonated open reported cleared")
	}
	if !b.Cell(mine.Row, mine.Col).Open {
		t.Error("detonated mine not marked open")
	}
}

// chordFixture builds a deterministic board where (4,4) is open and
// numbered, then returns it with one of its mined neighbors.
func chordFixture(t *testing.T) (*Board, Coord, Coord) {
	t.Helper()
	for seed := int64(0); seed < 100; seed++ {
		b := newBoard(t, 9, 9, 10, seed)
		b.Open(4, 4)
		for r := 0; r < b.Rows; r++ {
			for c := 0; c < b.Cols; c++ {
				cell := b.Cell(r, c)
				if !cell.Open || cell.Nearby != 1 {
					continue
				}
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						nr, nc := r+dr, c+dc
						if b.Cell(nr, nc).Mine {
							return b, Coord{r, c}, Coord{nr, nc}
						}
					}
				}
			}
		}
	}
	t.Fatal("no fixture found")
	return nil, Coord{}, Coord{}
}

func TestChordNoOpWithoutMatchingFlags(t *testing.T) {
	b, target, _ := chordFixture(t)
	before := b.Progress()

	if res := b.Chord(target.Row, target.Col); len(res.Opened) != 0 || res.Detonated {
		t.Errorf("chord without flags mutated board: %+v", res)
	}
	if b.Progress() != before {
		t.Errorf("progress changed from %d to %d", before, b.Progress())
	}
}

func TestChordOpensUnflaggedNeighbors(t *testing.T) {
	b, target, mine := chordFixture(t)
	b.ToggleFlag(mine.Row, mine.Col)

	res := b.Chord(target.Row, target.Col)
	if res.Detonated {
		t.Fatal("correctly flagged chord detonated")
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := target.Row+dr, target.Col+dc
			if r < 0 || r >= b.Rows || c < 0 || c >= b.Cols {
				continue
			}
			cell := b.Cell(r, c)
			if !cell.Flagged && !cell.Open {
				t.Errorf("neighbor (%d,%d) left closed after chord", r, c)
			}
		}
	}
}

func TestChordDetonatesOnWrongFlag(t *testing.T) {
	b, target, mine := chordFixture(t)

	// Flag a safe neighbor instead of the mine.
	flagged := false
	for dr := -1; dr <= 1 && !flagged; dr++ {
		for dc := -1; dc <= 1 && !flagged; dc++ {
			r, c := target.Row+dr, target.Col+dc
			if r < 0 || r >= b.Rows || c < 0 || c >= b.Cols {
				continue
			}
			cell := b.Cell(r, c)
			if !cell.Open && !cell.Mine && (r != mine.Row || c != mine.Col) {
				b.ToggleFlag(r, c)
				flagged = true
			}
		}
	}
	if !flagged {
		t.Skip("no safe closed neighbor to mis-flag")
	}

	if res := b.Chord(target.Row, target.Col); !res.Detonated {
		t.Error("chord over a mis-flag did not detonate")
	}
}

func TestChordOnClosedOrZeroCell(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 13)
	b.Open(4, 4)

	if res := b.Chord(4, 4); len(res.Opened) != 0 {
		t.Errorf("chord on zero cell opened %d cells", len(res.Opened))
	}

	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if !b.Cell(r, c).Open {
				if res := b.Chord(r, c); len(res.Opened) != 0 {
					t.Fatalf("chord on closed cell (%d,%d) opened cells", r, c)
				}
				return
			}
		}
	}
}

func TestClearedAndProgress(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 17)
	if b.Cleared() {
		t.Fatal("ungenerated board reports cleared")
	}

	opened := 0
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if !b.generated || !b.Cell(r, c).Mine {
				res := b.Open(r, c)
				if res.Detonated {
					t.Fatalf("safe open detonated at (%d,%d)", r, c)
				}
				opened += len(res.Opened)
			}
		}
	}

	if !b.Cleared() {
		t.Fatal("board not cleared after opening every safe cell")
	}
	want := b.Rows*b.Cols - b.Mines
	if b.Progress() != want {
		t.Errorf("progress = %d, want %d", b.Progress(), want)
	}
	if opened != want {
		t.Errorf("reveal lists summed to %d, want %d", opened, want)
	}
}

func TestViewHidesMinesAndClosedCounts(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 19)
	b.Open(4, 4)

	view := b.View(false)
	if view.Rows != 9 || view.Cols != 9 || view.Mines != 10 {
		t.Fatalf("view dimensions: %+v", view)
	}
	for r := range view.Cells {
		for c := range view.Cells[r] {
			cv := view.Cells[r][c]
			if cv.Mine {
				t.Fatalf("masked view leaked a mine at (%d,%d)", r, c)
			}
			if !cv.Open && cv.Nearby != 0 {
				t.Fatalf("closed cell (%d,%d) leaked Nearby = %d", r, c, cv.Nearby)
			}
		}
	}

	revealed := b.View(true)
	mines := 0
	for r := range revealed.Cells {
		for c := range revealed.Cells[r] {
			if revealed.Cells[r][c].Mine {
				mines++
			}
		}
	}
	if mines != 10 {
		t.Errorf("revealed view shows %d mines, want 10", mines)
	}
}

func TestRemainingCounter(t *testing.T) {
	b := newBoard(t, 9, 9, 10, 21)
	if b.Remaining() != 10 {
		t.Fatalf("fresh board Remaining = %d", b.Remaining())
	}
	b.ToggleFlag(0, 0)
	b.ToggleFlag(0, 1)
	if b.Remaining() != 8 {
		t.Errorf("Remaining = %d after two flags, want 8", b.Remaining())
	}
}
