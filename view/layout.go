package view

import "breach-tactics/server/models"

// Layout maps board cells to screen pixels
type Layout struct {
	CellSize int
	OffsetX  int
	OffsetY  int
}

// Origin returns the top left pixel of the cell at p
func (l Layout) Origin(p models.Position) (x, y int) {
	return l.OffsetX + p.Col*l.CellSize, l.OffsetY + p.Row*l.CellSize
}

// CellAt returns the cell under pixel (x, y) on a rows by cols board
func (l Layout) CellAt(x, y, rows, cols int) (models.Position, bool) {
	if l.CellSize <= 0 || x < l.OffsetX || y < l.OffsetY {
		return models.Position{}, false
	}
	p := models.Position{
		Row: (y - l.OffsetY) / l.CellSize,
		Col: (x - l.OffsetX) / l.CellSize,
	}
	if p.Row >= rows || p.Col >= cols {
		return models.Position{}, false
	}
	return p, true
}

// Size returns the pixel size of a rows by cols board including offsets
func (l Layout) Size(rows, cols int) (w, h int) {
	return l.OffsetX + cols*l.CellSize, l.OffsetY + rows*l.CellSize
}
