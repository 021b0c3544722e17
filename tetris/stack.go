package tetris

// Grid is the playfield. Row 0 is the top, columns run left to right.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	0	. . . . . . . . . .
//	1	. . . . . . . . . .
//	..
//	19	. . . . . . . . . .
//
// An Empty cell is free, any other value is a locked block of that shape.
// The dimensions never change after NewGrid.
type Grid [][]Shape

// NewGrid returns an empty grid of cols x rows cells.
func NewGrid(cols, rows int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]Shape, cols)
	}
	return g
}

func (g Grid) Rows() int { return len(g) }

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Merge writes the filled cells of t into the grid. The caller must have
// checked Collides first; cells above the top row are dropped.
func (g Grid) Merge(t *Tetromino) {
	for iy, r := range t.Grid {
		for ix, c := range r {
			if c == Empty || t.Y+iy < 0 {
				continue
			}
			g[t.Y+iy][t.X+ix] = c
		}
	}
}

// Sweep removes every complete row, shifting the rows above it down and
// inserting an empty row at the top. It returns the number of rows removed.
func (g Grid) Sweep() int {
	var count int
	for y := len(g) - 1; y >= 0; {
		if !g.complete(y) {
			y--
			continue
		}
		row := g[y]
		copy(g[1:y+1], g[:y])
		clear(row)
		g[0] = row
		count++
		// the row above is now at index y, look at it again.
	}
	return count
}

func (g Grid) complete(y int) bool {
	for _, c := range g[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// Clear empties every cell.
func (g Grid) Clear() {
	for _, r := range g {
		clear(r)
	}
}

func (g Grid) copy() Grid {
	if g == nil {
		return nil
	}
	return Grid(Matrix(g).copy())
}
