package board

// CellView is the client-facing projection of a cell. Nearby is only
// meaningful for open cells; Mine is populated only when the view reveals
// mines (terminal states).
type CellView struct {
	Open    bool `json:"isOpen"`
	Flagged bool `json:"isFlagged"`
	Mine    bool `json:"isMine,omitempty"`
	Nearby  int  `json:"nearbyMines"`
}

// BoardView is the snapshot shape sent to clients.
type BoardView struct {
	Rows      int          `json:"rows"`
	Cols      int          `json:"cols"`
	Mines     int          `json:"mineCount"`
	Remaining int          `json:"remaining"`
	Cells     [][]CellView `json:"cells"`
}

// View projects the board for clients. Closed cells never leak their Nearby
// count; mine positions are included only when revealMines is set.
func (b *Board) View(revealMines bool) BoardView {
	cells := make([][]CellView, b.Rows)
	for r := 0; r < b.Rows; r++ {
		cells[r] = make([]CellView, b.Cols)
		for c := 0; c < b.Cols; c++ {
			cell := b.cells[r][c]
			cv := CellView{Open: cell.Open, Flagged: cell.Flagged}
			if cell.Open {
				cv.Nearby = cell.Nearby
			}
			if revealMines {
				cv.Mine = cell.Mine
			}
			cells[r][c] = cv
		}
	}
	return BoardView{
		Rows:      b.Rows,
		Cols:      b.Cols,
		Mines:     b.Mines,
		Remaining: b.Remaining(),
		Cells:     cells,
	}
}
