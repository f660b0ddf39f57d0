package models

// Enemy is a hostile entity that walks toward an objective chosen each turn
type Enemy interface {
	Entity
	Objective() Position
	// UpdateObjective recomputes the objective from the live game state.
	// entities must be in priority order.
	UpdateObjective(entities []Entity, structures map[Position]*Tile)
}

// enemy holds the state shared by hostile units
type enemy struct {
	unit
	objective Position
}

func newEnemy(symbol rune, name string, pos Position, health, speed, strength int, rules Rules) enemy {
	return enemy{
		unit:      newUnit(symbol, name, pos, health, speed, strength, rules),
		objective: pos,
	}
}

func (e *enemy) Friendly() bool      { return false }
func (e *enemy) Objective() Position { return e.objective }
func (e *enemy) Attack(other Entity) { other.Damage(e.strength) }

// Scorpion strikes in all four directions and hunts the healthiest mech
type Scorpion struct {
	enemy
	reach int
}

// NewScorpion creates a scorpion enemy
func NewScorpion(pos Position, health, speed, strength int, rules Rules) *Scorpion {
	return &Scorpion{
		enemy: newEnemy(ScorpionSymbol, "Scorpion", pos, health, speed, strength, rules),
		reach: rules.ScorpionRange,
	}
}

// Targets returns the plus shape around the scorpion
func (s *Scorpion) Targets() []Position {
	return line(s.position, PlusOffsets[:], s.reach)
}

// UpdateObjective targets the living mech with the greatest health. The first
// such mech in priority order wins a tie. With no living mech the scorpion
// targets itself.
func (s *Scorpion) UpdateObjective(entities []Entity, _ map[Position]*Tile) {
	var best Entity
	for _, e := range entities {
		if _, ok := e.(Mech); !ok {
			continue
		}
		if e.Health() > 0 && (best == nil || e.Health() > best.Health()) {
			best = e
		}
	}
	if best == nil {
		s.objective = s.position
		return
	}
	s.objective = best.Position()
}

// Firefly strikes up and down its column and hunts the weakest structure
type Firefly struct {
	enemy
	reach int
}

// NewFirefly creates a firefly enemy
func NewFirefly(pos Position, health, speed, strength int, rules Rules) *Firefly {
	return &Firefly{
		enemy: newEnemy(FireflySymbol, "Firefly", pos, health, speed, strength, rules),
		reach: rules.FireflyRange,
	}
}

// Targets returns the vertical line on both sides of the firefly
func (f *Firefly) Targets() []Position {
	return line(f.position, PlusOffsets[2:], f.reach)
}

// UpdateObjective targets the intact structure with the lowest health. Ties
// go to the structure lowest on the board, then furthest right. With no
// intact structure the firefly targets itself.
func (f *Firefly) UpdateObjective(_ []Entity, structures map[Position]*Tile) {
	found := false
	var bestPos Position
	bestHealth := 0
	for pos, tile := range structures {
		h := tile.Health()
		if h <= 0 {
			continue
		}
		if !found || h < bestHealth || (h == bestHealth && bestPos.Less(pos)) {
			found = true
			bestPos = pos
			bestHealth = h
		}
	}
	if !found {
		f.objective = f.position
		return
	}
	f.objective = bestPos
}
