package models

// Mech is a friendly, player controlled entity
type Mech interface {
	Entity
	Active() bool
	Enable()
	Disable()
	PreviousPosition() (Position, bool)
}

// mech holds the state shared by friendly units
type mech struct {
	unit
	active   bool
	previous *Position
}

func newMech(symbol rune, name string, pos Position, health, speed, strength int, rules Rules) mech {
	return mech{
		unit:   newUnit(symbol, name, pos, health, speed, strength, rules),
		active: true,
	}
}

func (m *mech) Friendly() bool { return true }
func (m *mech) Active() bool   { return m.active }
func (m *mech) Enable()        { m.active = true }
func (m *mech) Disable()       { m.active = false }

// SetPosition moves the mech and remembers where it came from
func (m *mech) SetPosition(pos Position) {
	prev := m.position
	m.previous = &prev
	m.position = pos
}

// PreviousPosition returns the position held before the last move, if any
func (m *mech) PreviousPosition() (Position, bool) {
	if m.previous == nil {
		return Position{}, false
	}
	return *m.previous, true
}

func (m *mech) Attack(other Entity) { other.Damage(m.strength) }

// Tank fires along its row in both directions
type Tank struct {
	mech
	reach int
}

// NewTank creates a tank mech
func NewTank(pos Position, health, speed, strength int, rules Rules) *Tank {
	return &Tank{
		mech:  newMech(TankSymbol, "Tank", pos, health, speed, strength, rules),
		reach: rules.TankRange,
	}
}

// Targets returns the horizontal line on both sides of the tank
func (t *Tank) Targets() []Position {
	return line(t.position, PlusOffsets[:2], t.reach)
}

// Heal repairs friendly units in its neighbourhood instead of damaging them
type Heal struct {
	mech
}

// NewHeal creates a heal mech
func NewHeal(pos Position, health, speed, strength int, rules Rules) *Heal {
	return &Heal{
		mech: newMech(HealSymbol, "Heal", pos, health, speed, strength, rules),
	}
}

// Strength is negative so that applying it as damage heals
func (h *Heal) Strength() int { return -h.strength }

// Attack heals other by the configured strength, but only when it is friendly
func (h *Heal) Attack(other Entity) {
	if other.Friendly() {
		other.Damage(-h.strength)
	}
}
