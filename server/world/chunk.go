// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"strconv"
)

// ChunkSize is the width and height of a chunk in tiles.
const ChunkSize = 32

// Chunk is a fixed grid of tiles indexed [localY][localX].
type Chunk [ChunkSize][ChunkSize]Tile

// At returns the tile at local coordinates.
func (c *Chunk) At(localX, localY int) Tile {
	return c[localY][localX]
}

// Set writes the tile at local coordinates.
func (c *Chunk) Set(localX, localY int, t Tile) {
	c[localY][localX] = t
}

type (
	// ChunkPos addresses a chunk in chunk-coordinate space.
	ChunkPos struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	// TilePos addresses a single tile in world-coordinate space.
	TilePos struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
)

// ChunkPosAt returns the chunk containing the world tile (x, y).
func ChunkPosAt(x, y int) ChunkPos {
	return ChunkPos{X: FloorDiv(x, ChunkSize), Y: FloorDiv(y, ChunkSize)}
}

// Key formats the position as "x,y", the map key used on the wire
// and by persistence backends.
func (p ChunkPos) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// Chebyshev returns the chessboard distance to another chunk.
func (p ChunkPos) Chebyshev(o ChunkPos) int {
	dx := intAbs(p.X - o.X)
	dy := intAbs(p.Y - o.Y)
	return max(dx, dy)
}

// Chunk returns the chunk containing the tile.
func (p TilePos) Chunk() ChunkPos {
	return ChunkPosAt(p.X, p.Y)
}

// Local returns the tile's coordinates within its chunk.
// Negative world coordinates wrap via floored modulo.
func (p TilePos) Local() (localX, localY int) {
	return FloorMod(p.X, ChunkSize), FloorMod(p.Y, ChunkSize)
}

func (p TilePos) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the remainder of FloorDiv, always in [0, b).
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func intAbs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
