// Package cubeview provides the logical model behind the cubeview viewer:
// an N×N×N layered cube, face turns and standard move notation.
//
// # Cube Model
//
// A Cube is created solved and changed only by layer turns:
//
//	c := cubeview.NewCube(3)
//	c.Rotate(cubeview.Front, 1, 2)   // F2
//	c.Apply(cubeview.M(cubeview.Right, -1)) // R'
//
//	fmt.Println(c.IsSolved())
//	fmt.Print(c)
//
// Positive turns are clockwise as seen from outside the turned face and
// are taken modulo 4, so Rotate(f, d, 4) never changes the cube.
//
// # Notation
//
// Moves use the letters U D F B L R. Inner layers take a depth prefix:
//
//	moves, err := cubeview.ParseMoves("R U R' U' 2F2")
//	fmt.Println(cubeview.FormatMoves(cubeview.Simplify(moves)))
//
// The animated viewer itself lives under internal/ and is started with the
// cubeview command.
package cubeview
