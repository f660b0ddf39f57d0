// Package scenario reads and writes the plain text game format: the board as
// rows of tile codes, a blank line, then one comma separated line per entity
// in priority order.
package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"breach-tactics/server/engine"
	"breach-tactics/server/models"
)

var (
	ErrEmptyBoard        = errors.New("scenario has no board rows")
	ErrRaggedBoard       = errors.New("board rows differ in length")
	ErrUnknownTile       = errors.New("unknown tile code")
	ErrUnknownEntity     = errors.New("unknown entity symbol")
	ErrMalformedEntity   = errors.New("malformed entity line")
	ErrEntityOutOfBounds = errors.New("entity outside the board")
)

const entityFields = 6

// Parse reads a scenario. Nothing is returned unless the whole input is valid.
func Parse(r io.Reader, rules models.Rules) (*models.Board, []models.Entity, error) {
	sc := bufio.NewScanner(r)

	var grid [][]models.Tile
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}
		row := make([]models.Tile, 0, len(line))
		for col, code := range []rune(line) {
			tile, ok := models.TileFromCode(code)
			if !ok {
				return nil, nil, fmt.Errorf("line %d col %d: %w %q", lineNo, col, ErrUnknownTile, code)
			}
			row = append(row, tile)
		}
		if len(grid) > 0 && len(row) != len(grid[0]) {
			return nil, nil, fmt.Errorf("line %d: %w: %d tiles, want %d", lineNo, ErrRaggedBoard, len(row), len(grid[0]))
		}
		grid = append(grid, row)
	}
	if len(grid) == 0 {
		return nil, nil, ErrEmptyBoard
	}
	board, err := models.NewBoard(grid)
	if err != nil {
		return nil, nil, err
	}

	var entities []models.Entity
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		ent, err := parseEntity(line, rules)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !board.InBounds(ent.Position()) {
			return nil, nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrEntityOutOfBounds, ent.Position())
		}
		entities = append(entities, ent)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read scenario: %w", err)
	}
	return board, entities, nil
}

func parseEntity(line string, rules models.Rules) (models.Entity, error) {
	fields := strings.Split(line, ",")
	if len(fields) != entityFields || len([]rune(fields[0])) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedEntity, line)
	}
	nums := make([]int, entityFields-1)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedEntity, line, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %q: negative value %d", ErrMalformedEntity, line, n)
		}
		nums[i] = n
	}
	symbol := []rune(fields[0])[0]
	pos := models.Position{Row: nums[0], Col: nums[1]}
	ent, err := models.NewEntity(symbol, pos, nums[2], nums[3], nums[4], rules)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownEntity, symbol)
	}
	return ent, nil
}

// Load builds an engine from scenario text
func Load(text string, rules models.Rules) (*engine.Engine, error) {
	board, entities, err := Parse(strings.NewReader(text), rules)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(board, entities), nil
}

// LoadFile builds an engine from a scenario file
func LoadFile(path string, rules models.Rules) (*engine.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	board, entities, err := Parse(f, rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return engine.NewEngine(board, entities), nil
}
