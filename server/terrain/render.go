// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"image"
	"image/color"

	"github.com/playaetharia/aetharia/server/world"
)

// palette maps each tile to a render color, for eyeballing seeds.
var palette = [world.TileCount]color.RGBA{
	world.TileAir:    {R: 205, G: 225, B: 245, A: 255},
	world.TileDirt:   {R: 130, G: 90, B: 50, A: 255},
	world.TileStone:  {R: 105, G: 110, B: 115, A: 255},
	world.TileGrass:  {R: 90, G: 180, B: 30, A: 255},
	world.TileWater:  {R: 0, G: 75, B: 130, A: 255},
	world.TileSand:   {R: 194, G: 178, B: 128, A: 255},
	world.TileWood:   {R: 95, G: 65, B: 35, A: 255},
	world.TileLeaves: {R: 40, G: 120, B: 35, A: 255},
}

// Render draws the inclusive chunk rectangle [x0,x1]x[y0,y1] with one
// pixel per tile.
func Render(g *Generator, x0, y0, x1, y1 int) image.Image {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	width := (x1 - x0 + 1) * world.ChunkSize
	height := (y1 - y0 + 1) * world.ChunkSize
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for chunkY := y0; chunkY <= y1; chunkY++ {
		for chunkX := x0; chunkX <= x1; chunkX++ {
			c := g.Generate(chunkX, chunkY)
			baseX := (chunkX - x0) * world.ChunkSize
			baseY := (chunkY - y0) * world.ChunkSize

			for localY := 0; localY < world.ChunkSize; localY++ {
				for localX := 0; localX < world.ChunkSize; localX++ {
					img.SetRGBA(baseX+localX, baseY+localY, palette[c.At(localX, localY)])
				}
			}
		}
	}

	return img
}
