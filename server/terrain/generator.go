// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terrain synthesizes chunks as a pure function of
// (seed, chunkX, chunkY). Generation never consults the clock, other
// chunks, or any randomness beyond its own seeded generators.
package terrain

import (
	"github.com/chewxy/math32"

	"github.com/playaetharia/aetharia/server/world"
)

const (
	// DefaultSeed is used when no seed is configured.
	DefaultSeed = 12345

	// SeaLevel is the row below which exposed air floods with water.
	// Down is positive Y.
	SeaLevel = -2

	// TreeProbability is the per-column chance of bearing a tree.
	TreeProbability = 0.15

	// CaveProbability is the per-cell chance of deep stone hollowing
	// to air.
	CaveProbability = 0.08

	// caveDepth is the depth below the surface where caves start.
	caveDepth = 8

	// beachRange is how close the surface must sit to sea level for
	// the top layer to turn to sand.
	beachRange = 2
)

// Seed salts for the independent random decisions.
const (
	phaseSalt = 0x7065_6173
	treeSalt  = 0x7472_6565
	caveSalt  = 0x6361_7665
)

// Generator produces deterministic chunks. It is safe for concurrent
// use; all state is immutable after New.
type Generator struct {
	seed   int64
	phases [3]float32
}

func New(seed int64) *Generator {
	g := &Generator{seed: seed}

	r := newRNG(hash64(seed^phaseSalt, 0, 0))
	for i := range g.phases {
		g.phases[i] = r.float32() * 2 * math32.Pi
	}
	return g
}

func (g *Generator) Seed() int64 {
	return g.seed
}

// SurfaceHeight returns the terrain surface row for a world column,
// from a stack of sinusoidal octaves at seed-fixed phases. The result
// stays in roughly [-8, 8].
func (g *Generator) SurfaceHeight(worldX int) int {
	x := float32(worldX)
	h := 4.5*math32.Sin(x*0.021+g.phases[0]) +
		2.5*math32.Sin(x*0.05+g.phases[1]) +
		1.0*math32.Sin(x*0.11+g.phases[2])
	return int(math32.Round(h))
}

// columnTree reports whether the column at worldX bears a tree. The
// decision is per-column so trunks stay whole across vertical chunk
// borders.
func (g *Generator) columnTree(worldX int) bool {
	r := newRNG(hash64(g.seed^treeSalt, worldX, 0))
	return r.float32() < TreeProbability
}

// Generate synthesizes the chunk at (chunkX, chunkY).
// The replacement rules apply in a fixed order: base material by depth,
// water flood, beach sand, trees into remaining air, then caves.
func (g *Generator) Generate(chunkX, chunkY int) *world.Chunk {
	c := new(world.Chunk)

	baseX := chunkX * world.ChunkSize
	baseY := chunkY * world.ChunkSize
	caves := newRNG(hash64(g.seed^caveSalt, chunkX, chunkY))

	for localX := 0; localX < world.ChunkSize; localX++ {
		worldX := baseX + localX
		surface := g.SurfaceHeight(worldX)
		tree := g.columnTree(worldX)

		for localY := 0; localY < world.ChunkSize; localY++ {
			worldY := baseY + localY
			depth := worldY - surface

			var t world.Tile
			switch {
			case depth < 0:
				t = world.TileAir
			case depth == 0:
				t = world.TileGrass
			case depth <= 4:
				t = world.TileDirt
			default:
				t = world.TileStone
			}

			if t == world.TileAir && worldY > SeaLevel {
				t = world.TileWater
			}

			if t == world.TileGrass && absInt(surface-SeaLevel) <= beachRange {
				t = world.TileSand
			}

			if t == world.TileAir && tree {
				switch {
				case worldY >= surface-4 && worldY <= surface-1:
					t = world.TileWood
				case worldY == surface-5:
					t = world.TileLeaves
				}
			}

			if t == world.TileStone && depth > caveDepth && caves.float32() < CaveProbability {
				t = world.TileAir
			}

			c.Set(localX, localY, t)
		}
	}

	return c
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
