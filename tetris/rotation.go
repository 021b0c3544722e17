package tetris

// Collides reports whether t overlaps a locked cell or leaves the grid through
// the walls or the floor. Cells above the top row only collide with the walls.
//
//	.	0 1 2 3 4 5 6 7 8 9		.	0 1 2
//	0	. . . . . . J . . .		0	. J .
//	1	. . . . . . J . . .		1	. J .
//	2	. . . . . J J . . .		2	J J .
//	3	. . . . . X . . . .
func Collides(g Grid, t *Tetromino) bool {
	for iy, r := range t.Grid {
		for ix, c := range r {
			if c == Empty {
				continue
			}
			x, y := t.X+ix, t.Y+iy
			if x < 0 || x >= g.Cols() || y >= g.Rows() {
				return true
			}
			if y >= 0 && g[y][x] != Empty {
				return true
			}
		}
	}
	return false
}

// Rotate returns a new matrix turned 90 degrees: clockwise when dir > 0,
// counter-clockwise otherwise. The input is left untouched.
func Rotate(m Matrix, dir int) Matrix {
	if len(m) == 0 {
		return Matrix{}
	}
	h, w := len(m), m.Width()

	// transpose
	out := make(Matrix, w)
	for x := range w {
		out[x] = make([]Shape, h)
		for y := range h {
			out[x][y] = m[y][x]
		}
	}

	if dir > 0 {
		for _, r := range out {
			for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
				r[i], r[j] = r[j], r[i]
			}
		}
		return out
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// RotateWithKick rotates t in place and, if the new orientation collides,
// shifts it sideways looking for room. The shifts alternate and grow by one
// each attempt (+1, -2, +3, -4, ...) and the search gives up once the next
// shift to the right would be wider than the piece, restoring the original
// orientation and column. This is not an SRS kick table.
//
// It reports whether the rotation was kept.
func RotateWithKick(g Grid, t *Tetromino, dir int) bool {
	if dir == 0 {
		return false
	}
	x, prev := t.X, t.Grid
	t.Grid = Rotate(prev, dir)

	offset := 1
	for Collides(g, t) {
		t.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if offset > t.Grid.Width() {
			t.Grid, t.X = prev, x
			return false
		}
	}
	return true
}

// dropDownDelta returns how many rows t can fall before it collides.
func dropDownDelta(g Grid, t *Tetromino) int {
	if ShapeOf(t.Grid) == Empty {
		return 0
	}
	probe := &Tetromino{Grid: t.Grid, X: t.X, Y: t.Y}
	var delta int
	for {
		probe.Y++
		if Collides(g, probe) {
			return delta
		}
		delta++
	}
}
