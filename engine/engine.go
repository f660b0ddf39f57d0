package engine

import (
	"strings"

	"breach-tactics/server/models"
)

// Outcome is the termination state of a game
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "ongoing"
	}
}

// Hit records one target position struck during the attack phase
type Hit struct {
	Attacker  string          `json:"attacker"`
	From      models.Position `json:"from"`
	Target    models.Position `json:"target"`
	Structure bool            `json:"structure,omitempty"`
	Units     []string        `json:"units,omitempty"`
}

// Death records a unit removed by the death sweep
type Death struct {
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
}

// Move records an enemy relocation
type Move struct {
	Enemy string          `json:"enemy"`
	From  models.Position `json:"from"`
	To    models.Position `json:"to"`
}

// TurnReport summarises what happened during EndTurn
type TurnReport struct {
	Turn   int     `json:"turn"`
	Hits   []Hit   `json:"hits"`
	Deaths []Death `json:"deaths"`
	Moves  []Move  `json:"moves"`
}

// Engine runs the rules of a single game. It is not safe for concurrent use.
type Engine struct {
	board      *models.Board
	entities   []models.Entity
	structures map[models.Position]*models.Tile
	turn       int
}

// NewEngine creates an engine over board and entities. The entity order is
// the priority order for the rest of the game.
func NewEngine(board *models.Board, entities []models.Entity) *Engine {
	return &Engine{
		board:      board,
		entities:   append([]models.Entity(nil), entities...),
		structures: board.Structures(),
	}
}

// Board returns the game board
func (e *Engine) Board() *models.Board { return e.board }

// Entities returns the living entities in priority order
func (e *Engine) Entities() []models.Entity {
	return append([]models.Entity(nil), e.entities...)
}

// Structures returns the live structure view of the board
func (e *Engine) Structures() map[models.Position]*models.Tile { return e.structures }

// Turn returns the number of completed turns
func (e *Engine) Turn() int { return e.turn }

// EntityAt returns the highest priority entity standing on pos, or nil
func (e *Engine) EntityAt(pos models.Position) models.Entity {
	for _, ent := range e.entities {
		if ent.Position() == pos {
			return ent
		}
	}
	return nil
}

func (e *Engine) occupied() map[models.Position]bool {
	occupied := make(map[models.Position]bool, len(e.entities))
	for _, ent := range e.entities {
		occupied[ent.Position()] = true
	}
	return occupied
}

// ValidMovementPositions returns every position the entity can reach within
// its speed, excluding where it stands, sorted top-to-bottom then
// left-to-right
func (e *Engine) ValidMovementPositions(ent models.Entity) []models.Position {
	field := NewDistanceField(e.board, e.occupied(), ent.Position())
	rows, cols := e.board.Dimensions()
	var positions []models.Position
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := models.Position{Row: r, Col: c}
			if d := field.To(p); d > 0 && d <= ent.Speed() {
				positions = append(positions, p)
			}
		}
	}
	return positions
}

// AttemptMove moves a friendly, active mech to pos when pos is a valid
// movement position, then disables it. Anything else is ignored. It reports
// whether the move happened.
func (e *Engine) AttemptMove(ent models.Entity, pos models.Position) bool {
	mech, ok := ent.(models.Mech)
	if !ok || !ent.Friendly() || !mech.Active() {
		return false
	}
	for _, p := range e.ValidMovementPositions(ent) {
		if p == pos {
			mech.SetPosition(pos)
			mech.Disable()
			return true
		}
	}
	return false
}

// EndTurn runs the attack phase, re-activates mechs, removes the dead and
// moves the enemies
func (e *Engine) EndTurn() TurnReport {
	var report TurnReport

	for _, ent := range e.entities {
		if ent.Alive() {
			e.makeAttack(ent, &report)
		}
	}

	for _, ent := range e.entities {
		if m, ok := ent.(models.Mech); ok {
			m.Enable()
		}
	}

	e.sweepDead(&report)
	e.assignObjectives()
	e.moveEnemies(&report)

	e.turn++
	report.Turn = e.turn
	return report
}

// makeAttack strikes every on-board target of ent. Structures take damage
// even when already destroyed, which is a no-op.
func (e *Engine) makeAttack(ent models.Entity, report *TurnReport) {
	for _, target := range ent.Targets() {
		tile, err := e.board.TileAt(target)
		if err != nil {
			continue
		}
		hit := Hit{Attacker: ent.Name(), From: ent.Position(), Target: target}
		if tile.IsStructure() {
			tile.Damage(ent.Strength())
			hit.Structure = true
		}
		for _, other := range e.entities {
			if other.Position() == target {
				ent.Attack(other)
				hit.Units = append(hit.Units, other.Name())
			}
		}
		if hit.Structure || len(hit.Units) > 0 {
			report.Hits = append(report.Hits, hit)
		}
	}
}

// sweepDead drops dead entities without reordering the survivors
func (e *Engine) sweepDead(report *TurnReport) {
	alive := e.entities[:0]
	for _, ent := range e.entities {
		if ent.Alive() {
			alive = append(alive, ent)
			continue
		}
		report.Deaths = append(report.Deaths, Death{Name: ent.Name(), Position: ent.Position()})
	}
	for i := len(alive); i < len(e.entities); i++ {
		e.entities[i] = nil
	}
	e.entities = alive
}

func (e *Engine) assignObjectives() {
	for _, ent := range e.entities {
		if enemy, ok := ent.(models.Enemy); ok {
			enemy.UpdateObjective(e.entities, e.structures)
		}
	}
}

// moveEnemies moves each enemy, in priority order, to the valid movement
// position closest to its objective. The first such position in row-major
// order wins a tie. Positions at distance zero or with no path are skipped.
func (e *Engine) moveEnemies(report *TurnReport) {
	for _, ent := range e.entities {
		enemy, ok := ent.(models.Enemy)
		if !ok {
			continue
		}
		candidates := e.ValidMovementPositions(enemy)
		if len(candidates) == 0 {
			continue
		}
		toObjective := NewDistanceField(e.board, e.occupied(), enemy.Objective())

		best, bestDist := models.Position{}, Unreachable
		for _, p := range candidates {
			d := toObjective.To(p)
			if d > 0 && (bestDist == Unreachable || d < bestDist) {
				best, bestDist = p, d
			}
		}
		if bestDist == Unreachable {
			continue
		}
		report.Moves = append(report.Moves, Move{Enemy: enemy.Name(), From: enemy.Position(), To: best})
		enemy.SetPosition(best)
	}
}

// HasWon reports whether a mech and a structure survive and no enemy does
func (e *Engine) HasWon() bool {
	return e.mechsAlive() && e.structuresAlive() && !e.enemiesAlive()
}

// HasLost reports whether every mech or every structure is gone
func (e *Engine) HasLost() bool {
	return !e.mechsAlive() || !e.structuresAlive()
}

// Outcome reports the game state, checking for a win before a loss
func (e *Engine) Outcome() Outcome {
	switch {
	case e.HasWon():
		return OutcomeWon
	case e.HasLost():
		return OutcomeLost
	default:
		return OutcomeOngoing
	}
}

// ReadyToSave reports whether no mech has moved since the last end of turn
func (e *Engine) ReadyToSave() bool {
	for _, ent := range e.entities {
		if m, ok := ent.(models.Mech); ok && !m.Active() {
			return false
		}
	}
	return true
}

func (e *Engine) mechsAlive() bool {
	for _, ent := range e.entities {
		if _, ok := ent.(models.Mech); ok && ent.Alive() {
			return true
		}
	}
	return false
}

func (e *Engine) enemiesAlive() bool {
	for _, ent := range e.entities {
		if _, ok := ent.(models.Enemy); ok && ent.Alive() {
			return true
		}
	}
	return false
}

func (e *Engine) structuresAlive() bool {
	for _, tile := range e.structures {
		if tile.Health() > 0 {
			return true
		}
	}
	return false
}

// String renders the full game state: the board, a blank line, then one line
// per entity in priority order
func (e *Engine) String() string {
	lines := make([]string, 0, len(e.entities))
	for _, ent := range e.entities {
		lines = append(lines, ent.String())
	}
	return e.board.String() + "\n\n" + strings.Join(lines, "\n")
}
