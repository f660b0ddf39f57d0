// Package view adapts the engine for front ends: it tracks which unit the
// player has focused and turns the game state into a render model. It holds
// no game rules of its own.
package view

import (
	"breach-tactics/server/engine"
	"breach-tactics/server/models"
)

// Controller tracks the focused entity for one game
type Controller struct {
	engine  *engine.Engine
	focused models.Entity
	moving  bool
}

// NewController creates a controller over e
func NewController(e *engine.Engine) *Controller {
	return &Controller{engine: e}
}

// Engine returns the game being driven
func (c *Controller) Engine() *engine.Engine { return c.engine }

// Replace swaps in a new game and clears the focus
func (c *Controller) Replace(e *engine.Engine) {
	c.engine = e
	c.clearFocus()
}

// Focused returns the focused entity, or nil
func (c *Controller) Focused() models.Entity { return c.focused }

// Moving reports whether the highlighted cells are movement positions
// rather than attack targets
func (c *Controller) Moving() bool { return c.moving }

func (c *Controller) clearFocus() {
	c.focused = nil
	c.moving = false
}

// Click handles a click on pos. Clicking a unit focuses it, in move mode when
// it is an active mech. Clicking an empty cell moves the focused mech there
// when that cell is highlighted, then clears the focus. It reports whether a
// move happened.
func (c *Controller) Click(pos models.Position) bool {
	if ent := c.engine.EntityAt(pos); ent != nil {
		if ent != c.focused {
			c.focused = ent
			c.moving = movable(ent)
		}
		return false
	}

	moved := false
	if c.focused != nil && c.moving && movable(c.focused) && c.highlighted(pos) {
		moved = c.engine.AttemptMove(c.focused, pos)
	}
	c.clearFocus()
	return moved
}

func movable(ent models.Entity) bool {
	m, ok := ent.(models.Mech)
	return ok && ent.Friendly() && m.Active()
}

func (c *Controller) highlighted(pos models.Position) bool {
	for _, p := range c.Highlighted() {
		if p == pos {
			return true
		}
	}
	return false
}

// Highlighted returns the movement positions of the focused mech in move
// mode, or the attack targets of the focused entity otherwise
func (c *Controller) Highlighted() []models.Position {
	switch {
	case c.focused == nil:
		return nil
	case c.moving:
		return c.engine.ValidMovementPositions(c.focused)
	default:
		return c.focused.Targets()
	}
}

// EndTurn resolves the turn and clears the focus
func (c *Controller) EndTurn() engine.TurnReport {
	report := c.engine.EndTurn()
	c.clearFocus()
	return report
}
