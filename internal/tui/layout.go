package tui

// Screen geometry. View draws the board on exactly this grid so mouse
// coordinates can be mapped back to cards without re-rendering.
const (
	contentPadding = 2 // columns left of the first board column
	columnGap      = 1
	minColumnWidth = 18
	boardTop       = 4 // title, blank, column header, rule
	cardHeight     = 5 // border + title + description + meta + border
)

// layout places columns of cards on the terminal.
type layout struct {
	columnWidth int
	counts      []int // cards per column
}

func newLayout(width int, counts []int) layout {
	n := max(len(counts), 1)
	w := (width - contentPadding*2 - columnGap*(n-1)) / n
	return layout{columnWidth: max(w, minColumnWidth), counts: counts}
}

func (l layout) columnX(col int) int {
	return contentPadding + col*(l.columnWidth+columnGap)
}

func (l layout) cardY(card int) int {
	return boardTop + card*cardHeight
}

// hit is what lies under a screen cell.
type hit struct {
	col     int     // -1 outside every column
	card    int     // -1 on the column background
	offsetY float64 // pointer distance from the card's top edge
}

func (h hit) onColumn() bool { return h.col >= 0 }
func (h hit) onCard() bool   { return h.col >= 0 && h.card >= 0 }

func (l layout) hit(x, y int) hit {
	for col := range l.counts {
		left := l.columnX(col)
		if x < left || x >= left+l.columnWidth {
			continue
		}
		if y < boardTop {
			return hit{col: col, card: -1}
		}
		rel := y - boardTop
		card := rel / cardHeight
		if card >= l.counts[col] {
			return hit{col: col, card: -1}
		}
		// Aim at the middle of the cell row.
		return hit{col: col, card: card, offsetY: float64(rel%cardHeight) + 0.5}
	}
	return hit{col: -1, card: -1}
}
