package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"breach-tactics/server/engine"
	"breach-tactics/server/models"
	"breach-tactics/server/persistence"
	"breach-tactics/server/scenario"
	"breach-tactics/server/view"
)

const (
	cellSize     = 56
	border       = 24
	sidebarWidth = 260
	statusHeight = 40
)

var (
	groundCol    = color.RGBA{R: 58, G: 52, B: 40, A: 255}
	mountainCol  = color.RGBA{R: 96, G: 90, B: 84, A: 255}
	structureCol = color.RGBA{R: 60, G: 110, B: 170, A: 255}
	destroyedCol = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	moveCol      = color.RGBA{R: 60, G: 200, B: 90, A: 90}
	attackCol    = color.RGBA{R: 220, G: 60, B: 50, A: 90}
	gridCol      = color.RGBA{R: 20, G: 18, B: 14, A: 255}
	focusCol     = color.RGBA{R: 255, G: 220, B: 0, A: 255}
	mechCol      = color.RGBA{R: 120, G: 200, B: 255, A: 255}
	enemyCol     = color.RGBA{R: 255, G: 120, B: 90, A: 255}
	textCol      = color.RGBA{R: 230, G: 230, B: 220, A: 255}
)

// Game is the desktop front end for one controller
type Game struct {
	ctrl    *view.Controller
	source  string
	name    string
	archive string
	rules   models.Rules
	layout  view.Layout
	face    text.Face

	status        string
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

func newGame(ctrl *view.Controller, source, name, archive string, rules models.Rules) *Game {
	return &Game{
		ctrl:     ctrl,
		source:   source,
		name:     name,
		archive:  archive,
		rules:    rules,
		layout:   view.Layout{CellSize: cellSize, OffsetX: border, OffsetY: border},
		face:     text.NewGoXFace(basicfont.Face7x13),
		status:   "click a mech to move it, Enter ends the turn",
		prevKeys: map[ebiten.Key]bool{},
	}
}

// keyPressed reports a key going down this tick
func (g *Game) keyPressed(k ebiten.Key, current map[ebiten.Key]bool) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

func (g *Game) Update() error {
	currentKeys := map[ebiten.Key]bool{}
	e := g.ctrl.Engine()
	ongoing := e.Outcome() == engine.OutcomeOngoing

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.prevMouseLeft && ongoing {
		mx, my := ebiten.CursorPosition()
		rows, cols := e.Board().Dimensions()
		if p, ok := g.layout.CellAt(mx, my, rows, cols); ok {
			g.ctrl.Click(p)
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if g.keyPressed(ebiten.KeyEnter, currentKeys) && ongoing {
		report := g.ctrl.EndTurn()
		g.status = fmt.Sprintf("turn %d: %d hits, %d lost", report.Turn, len(report.Hits), len(report.Deaths))
	}
	if g.keyPressed(ebiten.KeyS, currentKeys) {
		g.save()
	}
	if g.keyPressed(ebiten.KeyL, currentKeys) {
		g.load()
	}
	if g.keyPressed(ebiten.KeyR, currentKeys) {
		g.reload()
	}
	if g.keyPressed(ebiten.KeyC, currentKeys) {
		if err := clipboard.WriteAll(g.ctrl.Engine().String()); err != nil {
			g.status = "copy failed: " + err.Error()
		} else {
			g.status = "state copied to clipboard"
		}
	}

	g.prevKeys = currentKeys
	return nil
}

func (g *Game) save() {
	e := g.ctrl.Engine()
	if !e.ReadyToSave() {
		g.status = "end the turn before saving"
		return
	}
	err := persistence.WriteArchive(g.archive, &models.SavedGame{
		Name:    g.archive,
		Level:   g.name,
		State:   e.String(),
		Turn:    e.Turn(),
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		g.status = "save failed: " + err.Error()
		return
	}
	g.status = "saved to " + g.archive
}

func (g *Game) load() {
	save, err := persistence.ReadArchive(g.archive)
	if err != nil {
		g.status = "load failed: " + err.Error()
		return
	}
	e, err := scenario.Load(save.State, g.rules)
	if err != nil {
		g.status = "load failed: " + err.Error()
		return
	}
	g.ctrl.Replace(e)
	g.source = save.State
	g.name = save.Level
	g.status = "loaded " + g.archive
}

func (g *Game) reload() {
	e, err := scenario.Load(g.source, g.rules)
	if err != nil {
		g.status = "reload failed: " + err.Error()
		return
	}
	g.ctrl.Replace(e)
	g.status = "reloaded"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(gridCol)
	f := g.ctrl.Frame()
	cs := float32(cellSize)

	for r, row := range f.Cells {
		for c, cell := range row {
			x, y := g.layout.Origin(models.Position{Row: r, Col: c})
			fx, fy := float32(x), float32(y)

			vector.DrawFilledRect(screen, fx+1, fy+1, cs-2, cs-2, cellColor(cell), false)
			switch cell.Highlight {
			case view.HighlightMove:
				vector.DrawFilledRect(screen, fx+1, fy+1, cs-2, cs-2, moveCol, false)
			case view.HighlightAttack:
				vector.DrawFilledRect(screen, fx+1, fy+1, cs-2, cs-2, attackCol, false)
			}
			if cell.Class == view.ClassStructure {
				g.drawText(screen, fmt.Sprint(cell.Health), x+4, y+4, textCol)
			}
		}
	}

	for _, u := range f.Units {
		x, y := g.layout.Origin(u.Position)
		col := enemyCol
		if u.Friendly {
			col = mechCol
		}
		g.drawText(screen, u.Glyph, x+cellSize/2-3, y+cellSize/2-6, col)
		g.drawText(screen, fmt.Sprint(u.Health), x+cellSize-12, y+cellSize-16, col)
	}

	if f.Focused != nil {
		x, y := g.layout.Origin(*f.Focused)
		vector.StrokeRect(screen, float32(x)+1, float32(y)+1, cs-2, cs-2, 2.0, focusCol, false)
	}

	g.drawSidebar(screen, f)

	_, h := g.layout.Size(f.Rows, f.Cols)
	ebitenutil.DebugPrintAt(screen, g.status, border, h+8)
	ebitenutil.DebugPrintAt(screen, "Enter end turn  S save  L load  R reload  C copy", border, h+22)
}

func (g *Game) drawSidebar(screen *ebiten.Image, f view.Frame) {
	w, _ := g.layout.Size(f.Rows, f.Cols)
	x := w + border
	y := border

	g.drawText(screen, fmt.Sprintf("Turn %d  %s", f.Turn, f.Outcome), x, y, textCol)
	y += 24
	for _, u := range f.Units {
		col := enemyCol
		if u.Friendly {
			col = mechCol
		}
		line := fmt.Sprintf("%s %-8s %s hp %d str %d", u.Glyph, u.Name, u.Position, u.Health, u.Strength)
		if u.Friendly && !u.Active {
			line += " (moved)"
		}
		g.drawText(screen, line, x, y, col)
		y += 18
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func cellColor(c view.Cell) color.Color {
	switch c.Class {
	case view.ClassMountain:
		return mountainCol
	case view.ClassStructure:
		return structureCol
	case view.ClassDestroyed:
		return destroyedCol
	default:
		return groundCol
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	rows, cols := g.ctrl.Engine().Board().Dimensions()
	w, h := g.layout.Size(rows, cols)
	return w + border + sidebarWidth, h + statusHeight
}
