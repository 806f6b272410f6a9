package solver

import (
	"context"

	"github.com/SeamusWaldron/cubeview"
	"golang.org/x/sync/errgroup"
)

type generator struct {
	face  cubeview.Face
	depth int
	q     int
}

// generators returns the outer layer turns searched by the table: each
// face, depths up to half the cube, one to three quarter turns.
func generators(n int) []generator {
	maxDepth := n / 2
	if maxDepth < 1 {
		maxDepth = 1
	}
	var gens []generator
	for _, f := range cubeview.Faces {
		for d := 1; d <= maxDepth; d++ {
			for q := 1; q <= 3; q++ {
				gens = append(gens, generator{face: f, depth: d, q: q})
			}
		}
	}
	return gens
}

type candidate struct {
	key  string
	cube *cubeview.Cube
	code uint16
}

// build runs a breadth-first search from the solved cube. Each frontier is
// split across workers; results are merged in chunk order so the table is
// the same for any worker count.
func build(ctx context.Context, n, depth, threads int) (map[string]uint16, error) {
	gens := generators(n)
	solved := cubeview.NewCube(n)
	entries := map[string]uint16{}
	seen := map[string]bool{solved.Key(): true}
	frontier := []*cubeview.Cube{solved}

	for level := 0; level < depth && len(frontier) > 0; level++ {
		chunks := split(frontier, threads)
		results := make([][]candidate, len(chunks))

		g, gctx := errgroup.WithContext(ctx)
		for idx, chunk := range chunks {
			idx, chunk := idx, chunk
			g.Go(func() error {
				var out []candidate
				for _, c := range chunk {
					if err := gctx.Err(); err != nil {
						return err
					}
					for _, gen := range gens {
						next := c.Clone()
						next.Rotate(gen.face, gen.depth, gen.q)
						out = append(out, candidate{
							key:  next.Key(),
							cube: next,
							code: encodeMove(gen.face, gen.depth, 4-gen.q),
						})
					}
				}
				results[idx] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []*cubeview.Cube
		for _, out := range results {
			for _, cand := range out {
				if seen[cand.key] {
					continue
				}
				seen[cand.key] = true
				entries[cand.key] = cand.code
				next = append(next, cand.cube)
			}
		}
		frontier = next
	}
	return entries, nil
}

func split(cubes []*cubeview.Cube, parts int) [][]*cubeview.Cube {
	if parts < 1 {
		parts = 1
	}
	if parts > len(cubes) {
		parts = len(cubes)
	}
	size := (len(cubes) + parts - 1) / parts
	var chunks [][]*cubeview.Cube
	for start := 0; start < len(cubes); start += size {
		end := start + size
		if end > len(cubes) {
			end = len(cubes)
		}
		chunks = append(chunks, cubes[start:end])
	}
	return chunks
}
