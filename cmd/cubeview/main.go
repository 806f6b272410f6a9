// cubeview - an animated N-layer cube viewer.
package main

import (
	"github.com/SeamusWaldron/cubeview/internal/cli"
)

func main() {
	cli.Execute()
}
