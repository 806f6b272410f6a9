package cubeview

// Color represents a facelet color.
type Color byte

const (
	White    Color = 0 // Top face when solved
	Yellow   Color = 1 // Bottom face when solved
	Green    Color = 2 // Front face when solved
	Blue     Color = 3 // Back face when solved
	Orange   Color = 4 // Left face when solved
	Red      Color = 5 // Right face when solved
	Interior Color = 6 // Block faces hidden inside the cube
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Orange:
		return "O"
	case Red:
		return "R"
	case Interior:
		return "."
	default:
		return "?"
	}
}

// Face identifies one of the six outward directions of the cube.
// The numeric order matches the scramble generator and keys 1-6.
type Face int

const (
	Top    Face = 0 // U
	Bottom Face = 1 // D
	Front  Face = 2 // F
	Back   Face = 3 // B
	Left   Face = 4 // L
	Right  Face = 5 // R
)

// NumFaces is the number of faces on a cube.
const NumFaces = 6

// Faces lists every face in numeric order.
var Faces = [NumFaces]Face{Top, Bottom, Front, Back, Left, Right}

// String returns the single-letter notation for the face.
func (f Face) String() string {
	switch f {
	case Top:
		return "U"
	case Bottom:
		return "D"
	case Front:
		return "F"
	case Back:
		return "B"
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return "?"
	}
}

// Name returns the lowercase face name.
func (f Face) Name() string {
	switch f {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= Top && f <= Right
}

// SolvedColor returns the color this face carries on a solved cube.
func (f Face) SolvedColor() Color {
	return Color(f)
}

// Axis identifies a principal axis of the cube. The numeric order is the
// slot order of a slice mask: vertical, front/back, left/right.
type Axis int

const (
	AxisY Axis = 0 // vertical, block index i
	AxisZ Axis = 1 // front/back, block index j
	AxisX Axis = 2 // left/right, block index k
)

func (a Axis) String() string {
	switch a {
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisX:
		return "x"
	default:
		return "?"
	}
}

// Layer returns the axis and layer index turned by a move of face f at the
// given depth on an n-layer cube. Depth 1 is the outer layer of f.
func (f Face) Layer(n, depth int) (Axis, int) {
	switch f {
	case Top:
		return AxisY, n - depth
	case Bottom:
		return AxisY, depth - 1
	case Front:
		return AxisZ, n - depth
	case Back:
		return AxisZ, depth - 1
	case Left:
		return AxisX, depth - 1
	default:
		return AxisX, n - depth
	}
}

// Sign returns +1 when a clockwise turn of f (viewed from outside f) is a
// positive right-handed rotation about its axis, and -1 otherwise.
func (f Face) Sign() int {
	switch f {
	case Bottom, Back, Left:
		return 1
	default:
		return -1
	}
}

// Normal returns the outward unit normal of f in x, y, z order, with y up
// and z pointing out of the front face.
func (f Face) Normal() [3]int {
	switch f {
	case Top:
		return [3]int{0, 1, 0}
	case Bottom:
		return [3]int{0, -1, 0}
	case Front:
		return [3]int{0, 0, 1}
	case Back:
		return [3]int{0, 0, -1}
	case Left:
		return [3]int{-1, 0, 0}
	default:
		return [3]int{1, 0, 0}
	}
}

func faceFromNormal(v [3]int) Face {
	for _, f := range Faces {
		if f.Normal() == v {
			return f
		}
	}
	return Face(-1)
}

// turnVec rotates v by a quarter turn about axis. sign +1 is the
// right-handed positive direction.
func turnVec(axis Axis, sign int, v [3]int) [3]int {
	x, y, z := v[0], v[1], v[2]
	switch axis {
	case AxisY:
		return [3]int{sign * z, y, -sign * x}
	case AxisX:
		return [3]int{x, -sign * z, sign * y}
	default:
		return [3]int{-sign * y, sign * x, z}
	}
}

// faceTurn[axis][signIdx][face] is the face that face f points to after a
// quarter turn. signIdx 0 is negative, 1 is positive.
var faceTurn = func() (t [3][2][NumFaces]Face) {
	for a := AxisY; a <= AxisX; a++ {
		for s, sign := range []int{-1, 1} {
			for _, f := range Faces {
				t[a][s][f] = faceFromNormal(turnVec(a, sign, f.Normal()))
			}
		}
	}
	return t
}()
