package view

import "breach-tactics/server/models"

// Highlight kinds used on cells
const (
	HighlightNone   = ""
	HighlightMove   = "move"
	HighlightAttack = "attack"
)

// Tile classes used on cells
const (
	ClassGround    = "ground"
	ClassMountain  = "mountain"
	ClassStructure = "structure"
	ClassDestroyed = "destroyed"
)

// Cell is one board square as a front end should draw it
type Cell struct {
	Class     string `json:"class"`
	Health    int    `json:"health,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

// Unit is one sidebar row, in priority order
type Unit struct {
	Glyph    string          `json:"glyph"`
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Health   int             `json:"health"`
	Strength int             `json:"strength"`
	Friendly bool            `json:"friendly"`
	Active   bool            `json:"active"`
}

// Frame is everything needed to draw the game once
type Frame struct {
	Rows        int              `json:"rows"`
	Cols        int              `json:"cols"`
	Cells       [][]Cell         `json:"cells"`
	Units       []Unit           `json:"units"`
	Focused     *models.Position `json:"focused,omitempty"`
	Moving      bool             `json:"moving"`
	Turn        int              `json:"turn"`
	Outcome     string           `json:"outcome"`
	ReadyToSave bool             `json:"ready_to_save"`
}

// Frame builds the render model for the current state
func (c *Controller) Frame() Frame {
	e := c.engine
	board := e.Board()
	rows, cols := board.Dimensions()

	f := Frame{
		Rows:        rows,
		Cols:        cols,
		Cells:       make([][]Cell, rows),
		Moving:      c.moving,
		Turn:        e.Turn(),
		Outcome:     e.Outcome().String(),
		ReadyToSave: e.ReadyToSave(),
	}
	for r := 0; r < rows; r++ {
		f.Cells[r] = make([]Cell, cols)
		for col := 0; col < cols; col++ {
			tile, _ := board.TileAt(models.Position{Row: r, Col: col})
			f.Cells[r][col] = cellFor(tile)
		}
	}

	kind := HighlightAttack
	if c.moving {
		kind = HighlightMove
	}
	for _, p := range c.Highlighted() {
		if board.InBounds(p) {
			f.Cells[p.Row][p.Col].Highlight = kind
		}
	}

	for _, ent := range e.Entities() {
		p := ent.Position()
		f.Cells[p.Row][p.Col].Unit = Glyph(ent)
		u := Unit{
			Glyph:    Glyph(ent),
			Name:     ent.Name(),
			Position: p,
			Health:   ent.Health(),
			Strength: ent.Strength(),
			Friendly: ent.Friendly(),
		}
		if m, ok := ent.(models.Mech); ok {
			u.Active = m.Active()
		}
		f.Units = append(f.Units, u)
	}

	if c.focused != nil {
		p := c.focused.Position()
		f.Focused = &p
	}
	return f
}

func cellFor(tile *models.Tile) Cell {
	switch {
	case tile.Kind() == models.TileMountain:
		return Cell{Class: ClassMountain}
	case tile.Destroyed():
		return Cell{Class: ClassDestroyed}
	case tile.IsStructure():
		return Cell{Class: ClassStructure, Health: tile.Health()}
	default:
		return Cell{Class: ClassGround}
	}
}

// Glyph is the short label drawn for an entity
func Glyph(ent models.Entity) string {
	return string(ent.Symbol())
}
