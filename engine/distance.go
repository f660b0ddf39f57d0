package engine

import "breach-tactics/server/models"

// Unreachable is the distance reported when no path exists
const Unreachable = -1

// DistanceField holds shortest path lengths from one origin to every cell
type DistanceField struct {
	origin models.Position
	cols   int
	dist   []int
}

// NewDistanceField runs a breadth-first search from origin over orthogonal
// steps. Blocking tiles and cells in occupied are never entered; the origin
// itself is exempt from both.
func NewDistanceField(board *models.Board, occupied map[models.Position]bool, origin models.Position) *DistanceField {
	rows, cols := board.Dimensions()
	f := &DistanceField{
		origin: origin,
		cols:   cols,
		dist:   make([]int, rows*cols),
	}
	for i := range f.dist {
		f.dist[i] = Unreachable
	}
	if !board.InBounds(origin) {
		return f
	}

	f.dist[f.index(origin)] = 0
	queue := []models.Position{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next := f.dist[f.index(cur)] + 1
		for _, d := range models.PlusOffsets {
			p := cur.Add(d)
			if !board.InBounds(p) || f.dist[f.index(p)] != Unreachable || occupied[p] {
				continue
			}
			tile, _ := board.TileAt(p)
			if tile.Blocking() {
				continue
			}
			f.dist[f.index(p)] = next
			queue = append(queue, p)
		}
	}
	return f
}

func (f *DistanceField) index(p models.Position) int {
	return p.Row*f.cols + p.Col
}

// To returns the distance from the origin to p, or Unreachable
func (f *DistanceField) To(p models.Position) int {
	if p.Row < 0 || p.Col < 0 || p.Col >= f.cols || f.index(p) >= len(f.dist) {
		return Unreachable
	}
	return f.dist[f.index(p)]
}

// Distance returns the number of orthogonal single-cell moves between from and
// to that avoid blocking tiles and occupied cells, or Unreachable
func Distance(board *models.Board, occupied map[models.Position]bool, from, to models.Position) int {
	return NewDistanceField(board, occupied, from).To(to)
}
