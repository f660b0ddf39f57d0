package models

import (
	"errors"
	"fmt"
	"strings"
)

// MaxStructureHealth is the highest health a structure tile can hold
const MaxStructureHealth = 9

// ErrOutOfBounds is returned for positions outside the board
var ErrOutOfBounds = errors.New("position out of bounds")

// TileKind identifies the terrain held by a tile
type TileKind int

// Tile kinds represented as integers for memory efficiency
const (
	TileGround TileKind = iota
	TileMountain
	TileStructure
)

// Tile codes used by the scenario text format
const (
	GroundCode   = ' '
	MountainCode = 'M'
)

// Tile is a single board cell. Only structure tiles carry state.
type Tile struct {
	kind   TileKind
	health int
}

// NewGround returns a ground tile
func NewGround() Tile { return Tile{kind: TileGround} }

// NewMountain returns a mountain tile
func NewMountain() Tile { return Tile{kind: TileMountain} }

// NewStructure returns a structure tile with health clamped to [0, MaxStructureHealth]
func NewStructure(health int) Tile {
	return Tile{kind: TileStructure, health: clampStructure(health)}
}

// TileFromCode builds a tile from its single character code
func TileFromCode(code rune) (Tile, bool) {
	switch {
	case code == GroundCode:
		return NewGround(), true
	case code == MountainCode:
		return NewMountain(), true
	case code >= '0' && code <= '0'+MaxStructureHealth:
		return NewStructure(int(code - '0')), true
	}
	return Tile{}, false
}

// Kind returns the tile kind
func (t *Tile) Kind() TileKind { return t.kind }

// IsStructure reports whether the tile is a structure, destroyed or not
func (t *Tile) IsStructure() bool { return t.kind == TileStructure }

// Health returns the structure health, 0 for other tiles
func (t *Tile) Health() int { return t.health }

// Destroyed reports whether the tile is a structure with no health left
func (t *Tile) Destroyed() bool { return t.kind == TileStructure && t.health == 0 }

// Blocking reports whether units can neither enter nor path through the tile
func (t *Tile) Blocking() bool {
	switch t.kind {
	case TileMountain:
		return true
	case TileStructure:
		return t.health > 0
	default:
		return false
	}
}

// Damage reduces the health of an intact structure by amount and clamps the
// result to [0, MaxStructureHealth]. Negative amounts repair.
func (t *Tile) Damage(amount int) {
	if t.kind != TileStructure || t.health == 0 {
		return
	}
	t.health = clampStructure(t.health - amount)
}

// Code returns the single character used for the tile in scenario text
func (t *Tile) Code() rune {
	switch t.kind {
	case TileMountain:
		return MountainCode
	case TileStructure:
		return rune('0' + t.health)
	default:
		return GroundCode
	}
}

func clampStructure(h int) int {
	return max(0, min(h, MaxStructureHealth))
}

// Board is a fixed-size grid of tiles stored row-major in a single slice
type Board struct {
	rows  int
	cols  int
	tiles []Tile
}

// NewBoard builds a board from rows of tiles. Every row must have the same
// non-zero length.
func NewBoard(grid [][]Tile) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, errors.New("board must have at least one row and one column")
	}
	cols := len(grid[0])
	b := &Board{
		rows:  len(grid),
		cols:  cols,
		tiles: make([]Tile, 0, len(grid)*cols),
	}
	for i, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d tiles, want %d", i, len(row), cols)
		}
		b.tiles = append(b.tiles, row...)
	}
	return b, nil
}

// Dimensions returns the number of rows and columns
func (b *Board) Dimensions() (int, int) {
	return b.rows, b.cols
}

// InBounds reports whether pos lies on the board
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.rows && pos.Col >= 0 && pos.Col < b.cols
}

// TileAt returns the tile stored at pos
func (b *Board) TileAt(pos Position) (*Tile, error) {
	if !b.InBounds(pos) {
		return nil, fmt.Errorf("tile %s: %w", pos, ErrOutOfBounds)
	}
	return &b.tiles[pos.Row*b.cols+pos.Col], nil
}

// Structures maps every structure position, destroyed ones included, to the
// live tile in the board
func (b *Board) Structures() map[Position]*Tile {
	structures := make(map[Position]*Tile)
	for i := range b.tiles {
		if b.tiles[i].kind == TileStructure {
			structures[Position{Row: i / b.cols, Col: i % b.cols}] = &b.tiles[i]
		}
	}
	return structures
}

// String renders the board as tile codes, one line per row
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			sb.WriteRune(b.tiles[r*b.cols+c].Code())
		}
	}
	return sb.String()
}
