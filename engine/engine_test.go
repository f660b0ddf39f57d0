package engine_test

import (
	"reflect"
	"strings"
	"testing"

	"breach-tactics/server/engine"
	"breach-tactics/server/models"
	"breach-tactics/server/scenario"
)

func pos(r, c int) models.Position { return models.Position{Row: r, Col: c} }

func load(t *testing.T, lines ...string) *engine.Engine {
	t.Helper()
	e, err := scenario.Load(strings.Join(lines, "\n"), models.DefaultRules())
	if err != nil {
		t.Fatalf("scenario.Load: %v", err)
	}
	return e
}

func find(t *testing.T, e *engine.Engine, symbol rune) models.Entity {
	t.Helper()
	for _, ent := range e.Entities() {
		if ent.Symbol() == symbol {
			return ent
		}
	}
	t.Fatalf("no entity %q", symbol)
	return nil
}

func TestTankDestroysLastStructure(t *testing.T) {
	e := load(t,
		"     ",
		"     ",
		"    1",
		"     ",
		"     ",
		"",
		"T,2,2,3,2,1",
	)
	tank := find(t, e, models.TankSymbol)

	if !e.AttemptMove(tank, pos(2, 3)) {
		t.Fatal("move to (2, 3) refused")
	}
	if tank.Position() != pos(2, 3) || tank.(models.Mech).Active() {
		t.Fatalf("tank at %v active=%v after move", tank.Position(), tank.(models.Mech).Active())
	}
	e.EndTurn()

	tile, _ := e.Board().TileAt(pos(2, 4))
	if tile.Health() != 0 {
		t.Fatalf("structure health=%d, want 0", tile.Health())
	}
	if !e.HasLost() {
		t.Fatal("game should be lost once the last structure falls")
	}
	if e.HasWon() {
		t.Fatal("game cannot be won without a structure")
	}
	if len(e.Entities()) != 1 || !tank.Alive() {
		t.Fatal("tank should survive")
	}
}

func TestScorpionRoutesAroundMountain(t *testing.T) {
	e := load(t,
		"   ",
		" M ",
		"   ",
		"",
		"T,2,2,3,1,1",
		"S,0,0,3,2,1",
	)
	scorpion := find(t, e, models.ScorpionSymbol)

	for _, p := range e.ValidMovementPositions(scorpion) {
		if p == pos(1, 1) {
			t.Fatal("mountain offered as a movement position")
		}
	}
	report := e.EndTurn()

	if scorpion.(models.Enemy).Objective() != pos(2, 2) {
		t.Fatalf("objective %v, want tank at (2, 2)", scorpion.(models.Enemy).Objective())
	}
	if scorpion.Position() != pos(0, 2) {
		t.Fatalf("scorpion moved to %v, want (0, 2)", scorpion.Position())
	}
	if len(report.Moves) != 1 || report.Moves[0].From != pos(0, 0) || report.Moves[0].To != pos(0, 2) {
		t.Fatalf("moves %+v", report.Moves)
	}
}

func TestEnemyMoveTieGoesToFirstRowMajor(t *testing.T) {
	// Both (1, 2) and (2, 1) sit one step from the tank; (1, 2) comes first.
	e := load(t,
		"   ",
		"   ",
		"   ",
		"",
		"T,2,2,3,1,0",
		"S,1,1,3,1,0",
	)
	scorpion := find(t, e, models.ScorpionSymbol)
	e.EndTurn()
	if scorpion.Position() != pos(1, 2) {
		t.Fatalf("scorpion moved to %v, want (1, 2)", scorpion.Position())
	}
}

func TestEnemyWithoutReachableCellStays(t *testing.T) {
	e := load(t,
		" M",
		"M ",
		"",
		"S,0,0,3,3,1",
		"T,1,1,3,1,1",
	)
	scorpion := find(t, e, models.ScorpionSymbol)
	if got := e.ValidMovementPositions(scorpion); len(got) != 0 {
		t.Fatalf("boxed in scorpion can move to %v", got)
	}
	report := e.EndTurn()
	if scorpion.Position() != pos(0, 0) || len(report.Moves) != 0 {
		t.Fatalf("scorpion at %v, moves %+v", scorpion.Position(), report.Moves)
	}
}

func TestValidMovementPositions(t *testing.T) {
	e := load(t,
		"  M  ",
		"  3  ",
		"     ",
		"",
		"T,0,0,3,2,1",
		"F,1,0,3,1,1",
	)
	tank := find(t, e, models.TankSymbol)
	got := e.ValidMovementPositions(tank)
	want := []models.Position{pos(0, 1), pos(1, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("positions %v, want %v", got, want)
	}

	rows, cols := e.Board().Dimensions()
	for _, p := range got {
		if p == tank.Position() {
			t.Fatal("own position offered")
		}
		if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
			t.Fatalf("%v out of bounds", p)
		}
	}
}

func TestAttemptMove_IgnoresInvalidRequests(t *testing.T) {
	e := load(t,
		"     ",
		"     ",
		"  1  ",
		"",
		"T,0,0,3,1,1",
		"S,0,4,3,2,1",
	)
	tank := find(t, e, models.TankSymbol)
	scorpion := find(t, e, models.ScorpionSymbol)

	if e.AttemptMove(tank, pos(2, 2)) {
		t.Fatal("moved onto a structure")
	}
	if e.AttemptMove(tank, pos(0, 2)) {
		t.Fatal("moved further than speed")
	}
	if tank.Position() != pos(0, 0) || !tank.(models.Mech).Active() {
		t.Fatal("failed move changed the tank")
	}
	if e.AttemptMove(scorpion, pos(0, 3)) || scorpion.Position() != pos(0, 4) {
		t.Fatal("enemy moved by the player")
	}

	if !e.AttemptMove(tank, pos(0, 1)) {
		t.Fatal("valid move refused")
	}
	if e.AttemptMove(tank, pos(0, 2)) || tank.Position() != pos(0, 1) {
		t.Fatal("inactive mech moved twice")
	}
}

func TestEndTurn_ReactivatesAndSweeps(t *testing.T) {
	e := load(t,
		"      ",
		"      ",
		"     5",
		"",
		"S,0,1,1,1,1",
		"T,0,0,5,2,1",
		"H,2,0,5,1,1",
		"F,1,3,4,1,1",
	)
	tank := find(t, e, models.TankSymbol)
	heal := find(t, e, models.HealSymbol)
	if !e.AttemptMove(heal, pos(1, 0)) {
		t.Fatal("heal move refused")
	}
	if e.ReadyToSave() {
		t.Fatal("ready to save with a pending move")
	}

	report := e.EndTurn()

	for _, ent := range e.Entities() {
		if !ent.Alive() {
			t.Fatalf("dead %s left in the roster", ent.Name())
		}
		if m, ok := ent.(models.Mech); ok && !m.Active() {
			t.Fatalf("%s still inactive", ent.Name())
		}
	}
	var order []rune
	for _, ent := range e.Entities() {
		order = append(order, ent.Symbol())
	}
	if string(order) != "THF" {
		t.Fatalf("order %q, want THF", string(order))
	}
	if len(report.Deaths) != 1 || report.Deaths[0].Name != "Scorpion" {
		t.Fatalf("deaths %+v", report.Deaths)
	}
	if !e.ReadyToSave() {
		t.Fatal("should be ready to save after end of turn")
	}
	// The scorpion hit the tank before dying; the heal then topped it up.
	if tank.Health() != 5 {
		t.Fatalf("tank health=%d, want 5", tank.Health())
	}
}

func TestHealRepairsStructures(t *testing.T) {
	e := load(t,
		"  3",
		"   ",
		"",
		"H,0,1,3,1,2",
	)
	e.EndTurn()
	tile, _ := e.Board().TileAt(pos(0, 2))
	if tile.Health() != 5 {
		t.Fatalf("structure health=%d, want 5", tile.Health())
	}
}

func TestAttackHitsEveryStackedUnit(t *testing.T) {
	e := load(t,
		"    ",
		"    ",
		"    ",
		"",
		"S,0,2,3,0,1",
		"H,1,1,3,0,2",
		"T,1,2,4,1,0",
		"T,1,2,4,1,0",
	)
	report := e.EndTurn()

	var stacked *engine.Hit
	for i, h := range report.Hits {
		if h.Attacker == "Scorpion" && h.Target == pos(1, 2) {
			stacked = &report.Hits[i]
		}
	}
	if stacked == nil || !reflect.DeepEqual(stacked.Units, []string{"Tank", "Tank"}) {
		t.Fatalf("scorpion hit on (1, 2) = %+v, want both tanks", stacked)
	}

	var tanks int
	for _, ent := range e.Entities() {
		if ent.Symbol() != models.TankSymbol {
			continue
		}
		tanks++
		// 4, minus 1 from the scorpion, plus 2 from the heal
		if ent.Health() != 5 {
			t.Fatalf("stacked tank health=%d, want 5", ent.Health())
		}
	}
	if tanks != 2 {
		t.Fatalf("%d tanks left, want 2", tanks)
	}
}

func TestWinLossArePure(t *testing.T) {
	e := load(t,
		"   ",
		"1  ",
		"",
		"T,0,1,3,1,1",
		"S,0,2,1,1,1",
	)
	for i := 0; i < 3; i++ {
		if e.HasWon() || e.HasLost() {
			t.Fatal("fresh game already decided")
		}
	}
	e.EndTurn()
	for i := 0; i < 3; i++ {
		if !e.HasWon() || e.HasLost() {
			t.Fatalf("won=%v lost=%v, want a win", e.HasWon(), e.HasLost())
		}
	}
	if e.Outcome() != engine.OutcomeWon {
		t.Fatalf("outcome %v, want won", e.Outcome())
	}
}

func TestMechsDyingLosesTheGame(t *testing.T) {
	e := load(t,
		"   9",
		"",
		"T,0,0,1,1,0",
		"S,0,1,5,1,2",
	)
	e.EndTurn()
	if len(e.Entities()) != 1 {
		t.Fatalf("roster %v, want the scorpion only", e.Entities())
	}
	if !e.HasLost() || e.Outcome() != engine.OutcomeLost {
		t.Fatal("game should be lost with no mech")
	}
}

func TestDistance(t *testing.T) {
	e := load(t,
		"   ",
		"MM ",
		"   ",
		"",
		"T,2,2,1,1,1",
	)
	b := e.Board()
	if d := engine.Distance(b, nil, pos(0, 0), pos(2, 0)); d != 6 {
		t.Fatalf("distance=%d, want 6", d)
	}
	if d := engine.Distance(b, nil, pos(0, 0), pos(0, 0)); d != 0 {
		t.Fatalf("distance to self=%d", d)
	}
	if d := engine.Distance(b, nil, pos(0, 0), pos(1, 0)); d != engine.Unreachable {
		t.Fatalf("distance into a mountain=%d", d)
	}
	occupied := map[models.Position]bool{pos(1, 2): true}
	if d := engine.Distance(b, occupied, pos(0, 0), pos(2, 0)); d != engine.Unreachable {
		t.Fatalf("distance through an occupied corridor=%d", d)
	}
	if d := engine.Distance(b, nil, pos(0, 0), pos(5, 5)); d != engine.Unreachable {
		t.Fatalf("distance off board=%d", d)
	}
}
