package models

import "fmt"

// Position is a (row, column) board coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the position offset by d
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Scale returns the position multiplied by n
func (p Position) Scale(n int) Position {
	return Position{Row: p.Row * n, Col: p.Col * n}
}

// Less orders positions top-to-bottom, then left-to-right
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// PlusOffsets are the four orthogonal unit steps. Tanks fire along the first
// two, fireflies along the last two.
var PlusOffsets = [4]Position{
	{Row: 0, Col: 1},
	{Row: 0, Col: -1},
	{Row: 1, Col: 0},
	{Row: -1, Col: 0},
}

// Entity symbols used by the scenario text format
const (
	TankSymbol     = 'T'
	HealSymbol     = 'H'
	ScorpionSymbol = 'S'
	FireflySymbol  = 'F'
)

// Entity interface for every unit that can exist on the board
type Entity interface {
	Symbol() rune
	Name() string
	Position() Position
	SetPosition(pos Position)
	Health() int
	Speed() int
	// Strength is the signed amount applied to struck structures and units.
	Strength() int
	Friendly() bool
	Alive() bool
	Damage(amount int)
	Targets() []Position
	Attack(other Entity)
	String() string
}

// unit holds the state shared by every entity variant
type unit struct {
	symbol   rune
	name     string
	position Position
	health   int
	ceiling  int
	speed    int
	strength int
}

func newUnit(symbol rune, name string, pos Position, health, speed, strength int, rules Rules) unit {
	return unit{
		symbol:   symbol,
		name:     name,
		position: pos,
		health:   max(health, 0),
		ceiling:  max(health, rules.HealthCeiling),
		speed:    speed,
		strength: strength,
	}
}

func (u *unit) Symbol() rune             { return u.symbol }
func (u *unit) Name() string             { return u.name }
func (u *unit) Position() Position       { return u.position }
func (u *unit) SetPosition(pos Position) { u.position = pos }
func (u *unit) Health() int              { return u.health }
func (u *unit) Speed() int               { return u.speed }
func (u *unit) Strength() int            { return u.strength }
func (u *unit) Alive() bool              { return u.health > 0 }

// Damage lowers health by amount. Dead units are left alone, so they cannot be
// healed back. Health stays within [0, ceiling].
func (u *unit) Damage(amount int) {
	if u.health == 0 {
		return
	}
	u.health = max(0, min(u.health-amount, u.ceiling))
}

// Targets returns the four orthogonal neighbours
func (u *unit) Targets() []Position {
	targets := make([]Position, 0, len(PlusOffsets))
	for _, d := range PlusOffsets {
		targets = append(targets, u.position.Add(d))
	}
	return targets
}

// String renders the entity as a scenario line: symbol,row,col,health,speed,strength
func (u *unit) String() string {
	return fmt.Sprintf("%c,%d,%d,%d,%d,%d",
		u.symbol, u.position.Row, u.position.Col, u.health, u.speed, u.strength)
}

// line returns the targets along offsets for distances 1..reach, nearest ring first
func line(from Position, offsets []Position, reach int) []Position {
	targets := make([]Position, 0, len(offsets)*max(reach, 0))
	for i := 1; i <= reach; i++ {
		for _, d := range offsets {
			targets = append(targets, from.Add(d.Scale(i)))
		}
	}
	return targets
}

// NewEntity creates the entity variant identified by symbol
func NewEntity(symbol rune, pos Position, health, speed, strength int, rules Rules) (Entity, error) {
	switch symbol {
	case TankSymbol:
		return NewTank(pos, health, speed, strength, rules), nil
	case HealSymbol:
		return NewHeal(pos, health, speed, strength, rules), nil
	case ScorpionSymbol:
		return NewScorpion(pos, health, speed, strength, rules), nil
	case FireflySymbol:
		return NewFirefly(pos, health, speed, strength, rules), nil
	}
	return nil, fmt.Errorf("unknown entity symbol %q", symbol)
}
