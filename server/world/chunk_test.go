// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"testing"
)

func TestFloorDivMod(t *testing.T) {
	cases := []struct {
		a, b, div, mod int
	}{
		{0, 32, 0, 0},
		{31, 32, 0, 31},
		{32, 32, 1, 0},
		{-1, 32, -1, 31},
		{-32, 32, -1, 0},
		{-33, 32, -2, 31},
		{65, 32, 2, 1},
	}

	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.div {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.div)
		}
		if got := FloorMod(c.a, c.b); got != c.mod {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", c.a, c.b, got, c.mod)
		}
	}
}

func TestChunkPosAt(t *testing.T) {
	cases := []struct {
		x, y   int
		cx, cy int
	}{
		{0, 0, 0, 0},
		{31, 31, 0, 0},
		{32, 0, 1, 0},
		{-1, -1, -1, -1},
		{-32, -33, -1, -2},
	}

	for _, c := range cases {
		if got := ChunkPosAt(c.x, c.y); got.X != c.cx || got.Y != c.cy {
			t.Errorf("ChunkPosAt(%d, %d) = %v, want (%d, %d)", c.x, c.y, got, c.cx, c.cy)
		}
	}
}

func TestTilePosLocal(t *testing.T) {
	pos := TilePos{X: -1, Y: 33}

	if got := pos.Chunk(); got != (ChunkPos{X: -1, Y: 1}) {
		t.Fatalf("Chunk() = %v", got)
	}
	lx, ly := pos.Local()
	if lx != 31 || ly != 1 {
		t.Fatalf("Local() = (%d, %d), want (31, 1)", lx, ly)
	}
}

func TestChebyshev(t *testing.T) {
	a := ChunkPos{X: 0, Y: 0}

	if d := a.Chebyshev(ChunkPos{X: 3, Y: -5}); d != 5 {
		t.Errorf("Chebyshev = %d, want 5", d)
	}
	if d := a.Chebyshev(a); d != 0 {
		t.Errorf("Chebyshev to self = %d, want 0", d)
	}
}

func TestChunkPosKey(t *testing.T) {
	if key := (ChunkPos{X: -3, Y: 12}).Key(); key != "-3,12" {
		t.Errorf("Key() = %q, want \"-3,12\"", key)
	}
}
