package models

import (
	"errors"
	"testing"
)

func TestStructureDamage_ClampsAndSticksAtZero(t *testing.T) {
	s := NewStructure(3)
	s.Damage(2)
	if s.Health() != 1 {
		t.Fatalf("health=%d, want 1", s.Health())
	}
	s.Damage(5)
	if s.Health() != 0 || !s.Destroyed() {
		t.Fatalf("health=%d, want destroyed", s.Health())
	}
	for i := 0; i < 3; i++ {
		s.Damage(-4)
		if s.Health() != 0 {
			t.Fatalf("destroyed structure repaired to %d", s.Health())
		}
	}
}

func TestStructureDamage_StaysInRange(t *testing.T) {
	amounts := []int{-100, -3, -1, 0, 1, 2, 7, 100}
	for start := 0; start <= MaxStructureHealth; start++ {
		for _, a := range amounts {
			for _, b := range amounts {
				s := NewStructure(start)
				s.Damage(a)
				s.Damage(b)
				if h := s.Health(); h < 0 || h > MaxStructureHealth {
					t.Fatalf("start=%d damage %d,%d -> health %d", start, a, b, h)
				}
			}
		}
	}
	s := NewStructure(5)
	s.Damage(-20)
	if s.Health() != MaxStructureHealth {
		t.Fatalf("repair capped at %d, want %d", s.Health(), MaxStructureHealth)
	}
}

func TestTileBlocking(t *testing.T) {
	g, m := NewGround(), NewMountain()
	if g.Blocking() {
		t.Fatal("ground should not block")
	}
	if !m.Blocking() {
		t.Fatal("mountain should block")
	}
	s := NewStructure(1)
	if !s.Blocking() {
		t.Fatal("intact structure should block")
	}
	s.Damage(1)
	if s.Blocking() {
		t.Fatal("destroyed structure should not block")
	}
	g.Damage(3)
	if g.Health() != 0 || g.Kind() != TileGround {
		t.Fatal("damage must not affect ground")
	}
}

func TestTileFromCode(t *testing.T) {
	for _, code := range []rune{' ', 'M', '0', '5', '9'} {
		tile, ok := TileFromCode(code)
		if !ok {
			t.Fatalf("code %q rejected", code)
		}
		if tile.Code() != code {
			t.Fatalf("code %q round-tripped as %q", code, tile.Code())
		}
	}
	for _, code := range []rune{'T', 'x', '#'} {
		if _, ok := TileFromCode(code); ok {
			t.Fatalf("code %q should be rejected", code)
		}
	}
}

func mustBoard(t *testing.T, rows ...string) *Board {
	t.Helper()
	grid := make([][]Tile, len(rows))
	for i, row := range rows {
		for _, c := range row {
			tile, ok := TileFromCode(c)
			if !ok {
				t.Fatalf("bad tile code %q", c)
			}
			grid[i] = append(grid[i], tile)
		}
	}
	b, err := NewBoard(grid)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func TestBoard_LookupAndBounds(t *testing.T) {
	b := mustBoard(t, " M ", "3  ")
	rows, cols := b.Dimensions()
	if rows != 2 || cols != 3 {
		t.Fatalf("dimensions %dx%d, want 2x3", rows, cols)
	}
	tile, err := b.TileAt(Position{Row: 0, Col: 1})
	if err != nil || tile.Kind() != TileMountain {
		t.Fatalf("TileAt(0,1) = %v, %v", tile, err)
	}
	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 3}} {
		if _, err := b.TileAt(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("TileAt(%s) err=%v, want ErrOutOfBounds", p, err)
		}
	}
	if b.String() != " M \n3  " {
		t.Fatalf("String()=%q", b.String())
	}
}

func TestBoard_RejectsRaggedAndEmpty(t *testing.T) {
	if _, err := NewBoard(nil); err == nil {
		t.Fatal("empty board accepted")
	}
	if _, err := NewBoard([][]Tile{{NewGround()}, {NewGround(), NewGround()}}); err == nil {
		t.Fatal("ragged board accepted")
	}
}

func TestBoard_StructuresAreLive(t *testing.T) {
	b := mustBoard(t, "2 0", "  4")
	structures := b.Structures()
	if len(structures) != 3 {
		t.Fatalf("got %d structures, want 3", len(structures))
	}
	tile, _ := b.TileAt(Position{Row: 1, Col: 2})
	tile.Damage(3)
	if got := structures[Position{Row: 1, Col: 2}].Health(); got != 1 {
		t.Fatalf("structure view health=%d, want 1", got)
	}
	structures[Position{Row: 0, Col: 0}].Damage(2)
	if b.String() != "0 0\n  1" {
		t.Fatalf("board not updated through structure view: %q", b.String())
	}
}
