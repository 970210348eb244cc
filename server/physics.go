// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/chewxy/math32"

	"github.com/playaetharia/aetharia/server/world"
)

// Vertical simulation constants. Up is negative Y, so gravity is
// positive and a jump impulse is negative. Units are tiles and
// seconds.
const (
	TickDelta    float32 = 0.05
	Gravity      float32 = 30
	MaxFallSpeed float32 = 25
	JumpImpulse  float32 = -14

	// Footprint sample offsets within the 1-tile-wide avatar.
	footLeft  float32 = 0.1
	footRight float32 = 0.9

	// unstickScan bounds the upward search out of solid ground.
	unstickScan = 10

	// correctionEpsilon gates positionCorrection frames.
	correctionEpsilon float32 = 0.01
)

type physicsResult struct {
	id       world.SessionID
	name     string
	color    string
	x, y     float32
	onGround bool
}

// Physics advances every avatar by dt and emits corrections for those
// whose vertical position changed. Runs on the hub goroutine.
func (h *Hub) Physics(dt float32) {
	corrections := h.physicsCorrections[:0]

	h.registry.Each(func(p *world.Player) {
		yPrevious := p.Y
		h.stepPlayer(p, dt)
		p.Ticked = true

		if math32.Abs(p.Y-yPrevious) > correctionEpsilon {
			corrections = append(corrections, physicsResult{
				id:       p.ID,
				name:     p.Name,
				color:    p.Color,
				x:        p.X,
				y:        p.Y,
				onGround: p.OnGround,
			})
		}
	})
	h.physicsCorrections = corrections

	for i := range corrections {
		c := &corrections[i]

		if client := h.sessions[c.id]; client != nil {
			client.Send(marshalFrame(PositionCorrection{
				X:        c.x,
				Y:        c.y,
				OnGround: c.onGround,
			}))
		}

		// Falling across a chunk border can change the zone too.
		zone := h.transferZoneByID(c.id, c.name, c.color, c.x, c.y)
		h.toZone(zone, PlayerMoved{ID: c.id, X: c.x, Y: c.y}, c.id)
	}
}

// stepPlayer integrates gravity, collides against the two footprint
// columns, and unsticks an avatar buried in solid ground.
func (h *Hub) stepPlayer(p *world.Player, dt float32) {
	v := math32.Min(p.VelocityY+Gravity*dt, MaxFallSpeed)
	yCandidate := p.Y + v*dt

	left := int(math32.Floor(p.X + footLeft))
	right := int(math32.Floor(p.X + footRight))

	switch {
	case v > 0:
		// Descending: land on the row below the feet.
		row := int(math32.Floor(yCandidate + 1))
		if h.solidAt(left, row) || h.solidAt(right, row) {
			p.Y = float32(row) - 1
			v = 0
			p.OnGround = true
		} else {
			p.Y = yCandidate
			p.OnGround = false
		}
	case v < 0:
		// Ascending: bump on the row at the head.
		row := int(math32.Floor(yCandidate))
		if h.solidAt(left, row) || h.solidAt(right, row) {
			p.Y = float32(row) + 1
			v = 0
		} else {
			p.Y = yCandidate
		}
		p.OnGround = false
	default:
		p.Y = yCandidate
		below := int(math32.Floor(p.Y + 1))
		p.OnGround = h.solidAt(left, below) || h.solidAt(right, below)
	}
	p.VelocityY = v

	// Unstick an avatar whose center is inside solid ground, e.g.
	// after a block was placed into it.
	centerX := int(math32.Floor(p.X + 0.5))
	centerRow := int(math32.Floor(p.Y + 0.5))
	if h.solidAt(centerX, centerRow) {
		for i := 1; i <= unstickScan; i++ {
			row := centerRow - i
			if !h.solidAt(centerX, row) {
				p.Y = float32(row)
				p.VelocityY = 0
				p.OnGround = false
				break
			}
		}
	}
}

// horizontalBlocked checks the head and feet rows at the target x.
func (h *Hub) horizontalBlocked(p *world.Player, x float32) bool {
	head := int(math32.Floor(p.Y))
	feet := int(math32.Floor(p.Y + 0.9))
	left := int(math32.Floor(x + footLeft))
	right := int(math32.Floor(x + footRight))

	return h.solidAt(left, head) || h.solidAt(right, head) ||
		h.solidAt(left, feet) || h.solidAt(right, feet)
}

func (h *Hub) solidAt(x, y int) bool {
	return h.tiles.Tile(x, y).Solid()
}
