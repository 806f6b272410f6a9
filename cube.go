package cubeview

import "strings"

// Block holds the six facelet colors of one grid cell, indexed by the
// outward direction (Face) each facelet points to.
type Block [NumFaces]Color

// Cube is an N×N×N layered cube.
//
// Blocks are addressed by (i, j, k):
//
//	i  layer along the vertical axis, 0 = bottom
//	j  layer along the front/back axis, 0 = back
//	k  layer along the left/right axis, 0 = left
//
// Faces of a block that are not on the surface carry Interior.
type Cube struct {
	n      int
	blocks []Block
}

// NewCube returns a solved cube with n layers. Sizes below 1 are treated
// as 1.
func NewCube(n int) *Cube {
	if n < 1 {
		n = 1
	}
	c := &Cube{n: n, blocks: make([]Block, n*n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				var b Block
				for _, f := range Faces {
					b[f] = Interior
				}
				if i == n-1 {
					b[Top] = White
				}
				if i == 0 {
					b[Bottom] = Yellow
				}
				if j == n-1 {
					b[Front] = Green
				}
				if j == 0 {
					b[Back] = Blue
				}
				if k == 0 {
					b[Left] = Orange
				}
				if k == n-1 {
					b[Right] = Red
				}
				c.blocks[c.index(i, j, k)] = b
			}
		}
	}
	return c
}

// Size returns the number of layers.
func (c *Cube) Size() int {
	return c.n
}

func (c *Cube) index(i, j, k int) int {
	return (i*c.n+j)*c.n + k
}

// Block returns the facelet colors of the block at (i, j, k).
// Out of range indices yield an all-Interior block.
func (c *Cube) Block(i, j, k int) Block {
	if i < 0 || j < 0 || k < 0 || i >= c.n || j >= c.n || k >= c.n {
		var b Block
		for _, f := range Faces {
			b[f] = Interior
		}
		return b
	}
	return c.blocks[c.index(i, j, k)]
}

// Clone returns a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := &Cube{n: c.n, blocks: make([]Block, len(c.blocks))}
	copy(clone.blocks, c.blocks)
	return clone
}

// Equal reports whether both cubes have the same size and coloring.
func (c *Cube) Equal(other *Cube) bool {
	if other == nil || c.n != other.n {
		return false
	}
	for i := range c.blocks {
		if c.blocks[i] != other.blocks[i] {
			return false
		}
	}
	return true
}

// Rotate turns the layer selected by (face, depth) by turns quarter turns,
// clockwise as seen from outside face for positive turns. Turns are taken
// modulo 4; invalid faces or depths are ignored.
func (c *Cube) Rotate(face Face, depth, turns int) {
	if !face.Valid() || depth < 1 || depth > c.n {
		return
	}
	q := ((turns % 4) + 4) % 4
	if q == 0 {
		return
	}
	axis, layer := face.Layer(c.n, depth)
	sign := face.Sign()
	if q == 3 {
		// three clockwise quarters is one counterclockwise
		q, sign = 1, -sign
	}
	for ; q > 0; q-- {
		c.quarter(axis, layer, sign)
	}
}

// Apply commits moves in order.
func (c *Cube) Apply(moves ...Move) {
	for _, m := range moves {
		c.Rotate(m.Face, m.Depth, m.Turns)
	}
}

// quarter rotates one layer by 90 degrees about axis; sign +1 is the
// right-handed positive direction.
func (c *Cube) quarter(axis Axis, layer, sign int) {
	n := c.n
	s := 0
	if sign > 0 {
		s = 1
	}
	remap := &faceTurn[axis][s]

	type cell struct {
		idx int
		b   Block
	}
	next := make([]cell, 0, n*n)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			i, j, k := layerCell(axis, layer, a, b)
			// doubled coordinates centred on the cube
			p := [3]int{2*k - (n - 1), 2*i - (n - 1), 2*j - (n - 1)}
			q := turnVec(axis, sign, p)
			ni, nj, nk := (q[1]+n-1)/2, (q[2]+n-1)/2, (q[0]+n-1)/2

			old := c.blocks[c.index(i, j, k)]
			var moved Block
			for _, f := range Faces {
				moved[remap[f]] = old[f]
			}
			next = append(next, cell{idx: c.index(ni, nj, nk), b: moved})
		}
	}
	for _, nc := range next {
		c.blocks[nc.idx] = nc.b
	}
}

// layerCell maps in-layer coordinates (a, b) to block indices.
func layerCell(axis Axis, layer, a, b int) (i, j, k int) {
	switch axis {
	case AxisY:
		return layer, a, b
	case AxisZ:
		return a, layer, b
	default:
		return a, b, layer
	}
}

// Facelets returns the colors of one face as seen from outside it,
// row 0 at the top. Top is viewed with Back at the top edge, Bottom with
// Front at the top edge, side faces with Top at the top edge.
func (c *Cube) Facelets(face Face) [][]Color {
	n := c.n
	grid := make([][]Color, n)
	for r := 0; r < n; r++ {
		grid[r] = make([]Color, n)
		for col := 0; col < n; col++ {
			var i, j, k int
			switch face {
			case Top:
				i, j, k = n-1, r, col
			case Bottom:
				i, j, k = 0, n-1-r, col
			case Front:
				i, j, k = n-1-r, n-1, col
			case Back:
				i, j, k = n-1-r, 0, n-1-col
			case Left:
				i, j, k = n-1-r, col, 0
			default:
				i, j, k = n-1-r, n-1-col, n-1
			}
			grid[r][col] = c.blocks[c.index(i, j, k)][face]
		}
	}
	return grid
}

// IsSolved returns true if every face shows a single color.
func (c *Cube) IsSolved() bool {
	for _, f := range Faces {
		grid := c.Facelets(f)
		want := grid[0][0]
		for _, row := range grid {
			for _, col := range row {
				if col != want {
					return false
				}
			}
		}
	}
	return true
}

// Key returns a compact encoding of the surface coloring, usable as a map key.
func (c *Cube) Key() string {
	var sb strings.Builder
	sb.Grow(NumFaces * c.n * c.n)
	for _, f := range Faces {
		for _, row := range c.Facelets(f) {
			for _, col := range row {
				sb.WriteByte('0' + byte(col))
			}
		}
	}
	return sb.String()
}

// String renders the cube as an unfolded net:
//
//	  U
//	L F R B
//	  D
func (c *Cube) String() string {
	var sb strings.Builder
	pad := strings.Repeat("  ", c.n)

	writeRow := func(row []Color) {
		for _, col := range row {
			sb.WriteString(col.String())
			sb.WriteByte(' ')
		}
	}

	top := c.Facelets(Top)
	for _, row := range top {
		sb.WriteString(pad)
		writeRow(row)
		sb.WriteByte('\n')
	}

	sides := [][][]Color{c.Facelets(Left), c.Facelets(Front), c.Facelets(Right), c.Facelets(Back)}
	for r := 0; r < c.n; r++ {
		for _, grid := range sides {
			writeRow(grid[r])
		}
		sb.WriteByte('\n')
	}

	for _, row := range c.Facelets(Bottom) {
		sb.WriteString(pad)
		writeRow(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
