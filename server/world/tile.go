// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// Tile is one integer-coded material occupying a 1x1 cell.
type Tile uint8

const (
	TileAir Tile = iota
	TileDirt
	TileStone
	TileGrass
	TileWater
	TileSand
	TileWood
	TileLeaves

	TileCount
)

var tileNames = [TileCount]string{
	TileAir:    "air",
	TileDirt:   "dirt",
	TileStone:  "stone",
	TileGrass:  "grass",
	TileWater:  "water",
	TileSand:   "sand",
	TileWood:   "wood",
	TileLeaves: "leaves",
}

// Solid reports whether an avatar collides with the tile.
// Air and water are the only passable materials.
func (t Tile) Solid() bool {
	return t != TileAir && t != TileWater
}

func (t Tile) String() string {
	if t >= TileCount {
		return "invalid"
	}
	return tileNames[t]
}

// ValidTile reports whether v is a legal tile id.
// Values outside [0, 7] must never enter the world.
func ValidTile(v int) bool {
	return v >= 0 && v < int(TileCount)
}
