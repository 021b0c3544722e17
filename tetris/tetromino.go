package tetris

import "math/rand/v2"

// Shape identifies a tetromino type. It is also the value stored in a Stack
// cell: Empty is a free cell, anything else is a locked block of that type.
type Shape uint8

const (
	Empty Shape = iota
	T
	O
	L
	J
	I
	S
	Z
)

// draft order used by pick.
var shapes = [...]Shape{T, J, L, O, S, Z, I}

func (s Shape) String() string {
	switch s {
	case T:
		return "T"
	case O:
		return "O"
	case L:
		return "L"
	case J:
		return "J"
	case I:
		return "I"
	case S:
		return "S"
	case Z:
		return "Z"
	}
	return ""
}

// Matrix is a small grid of cells. Rows are indexed top to bottom.
type Matrix [][]Shape

// Width returns the number of columns of the matrix.
func (m Matrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Matrix) copy() Matrix {
	if m == nil {
		return nil
	}
	c := make(Matrix, len(m))
	for i := range m {
		c[i] = make([]Shape, len(m[i]))
		copy(c[i], m[i])
	}
	return c
}

// ShapeOf returns the type of the first filled cell in the matrix.
func ShapeOf(m Matrix) Shape {
	for _, r := range m {
		for _, c := range r {
			if c != Empty {
				return c
			}
		}
	}
	return Empty
}

// Tetromino is a shape matrix placed on the stack. X and Y are the offset of
// the matrix's top-left cell; Y grows downwards.
type Tetromino struct {
	Grid   Matrix
	X, Y   int
	GhostY int
	Shape  Shape
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	return &Tetromino{
		Grid:   t.Grid.copy(),
		X:      t.X,
		Y:      t.Y,
		GhostY: t.GhostY,
		Shape:  t.Shape,
	}
}

// Randomizer draws the next tetromino type.
type Randomizer interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// pick returns one of the seven shapes with uniform probability. There is no
// bag: the same shape can come up any number of times in a row.
func pick(r Randomizer) Shape {
	return shapes[r.IntN(len(shapes))]
}

// NewPiece returns a fresh copy of the spawn matrix of s, or nil if s is not
// a tetromino.
func NewPiece(s Shape) Matrix {
	switch s {
	/*
		.	0 1 2
		0	. . .
		1	T T T
		2	. T .
	*/
	case T:
		return Matrix{
			{0, 0, 0},
			{T, T, T},
			{0, T, 0},
		}
	/*
		.	0 1
		0	O O
		1	O O
	*/
	case O:
		return Matrix{
			{O, O},
			{O, O},
		}
	/*
		.	0 1 2
		0	. L .
		1	. L .
		2	. L L
	*/
	case L:
		return Matrix{
			{0, L, 0},
			{0, L, 0},
			{0, L, L},
		}
	/*
		.	0 1 2
		0	. J .
		1	. J .
		2	J J .
	*/
	case J:
		return Matrix{
			{0, J, 0},
			{0, J, 0},
			{J, J, 0},
		}
	/*
		.	0 1 2 3
		0	. I . .
		1	. I . .
		2	. I . .
		3	. I . .
	*/
	case I:
		return Matrix{
			{0, I, 0, 0},
			{0, I, 0, 0},
			{0, I, 0, 0},
			{0, I, 0, 0},
		}
	/*
		.	0 1 2
		0	. S S
		1	S S .
		2	. . .
	*/
	case S:
		return Matrix{
			{0, S, S},
			{S, S, 0},
			{0, 0, 0},
		}
	/*
		.	0 1 2
		0	Z Z .
		1	. Z Z
		2	. . .
	*/
	case Z:
		return Matrix{
			{Z, Z, 0},
			{0, Z, Z},
			{0, 0, 0},
		}
	}
	return nil
}

func newTetromino(s Shape) *Tetromino {
	return &Tetromino{Grid: NewPiece(s), Shape: s}
}
