// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"github.com/google/uuid"
)

const (
	PlayerNameLengthMax = 16

	// DefaultSpawnX is the column probed for a safe spawn row.
	DefaultSpawnX = 0
)

type (
	// SessionID is the unique, opaque id of a live session.
	SessionID string

	// Profile is the wire-facing identity subset of a Player.
	Profile struct {
		ID    SessionID `json:"id"`
		Name  string    `json:"name"`
		Color string    `json:"color"`
	}

	// Item is one inventory entry. Quantities are strictly positive;
	// an entry reaching zero is removed.
	Item struct {
		Name     string `json:"name"`
		Type     Tile   `json:"type"`
		Quantity int    `json:"quantity"`
	}

	// Player is the avatar owned by a session. Positions are in tile
	// units as real numbers; up is negative Y. The physics loop is the
	// only writer of Y, VelocityY, and OnGround.
	Player struct {
		Profile
		X         float32
		Y         float32
		VelocityY float32
		OnGround  bool
		Zone      ZoneID
		Inventory []Item
		IsAgent   bool

		// LastMessage is the arrival time of the last accepted
		// inbound message, in unix milliseconds.
		LastMessage int64

		// Ticked is set once the physics loop has stepped this
		// player; the client's y hint is only honored before that.
		Ticked bool
	}

	// PlayerSnapshot is an atomic copy of the fields other components
	// read: welcome payloads, rosters, and persistence.
	PlayerSnapshot struct {
		ID        SessionID `json:"id"`
		Name      string    `json:"name"`
		Color     string    `json:"color"`
		X         float32   `json:"x"`
		Y         float32   `json:"y"`
		Zone      ZoneID    `json:"zone"`
		IsAgent   bool      `json:"isAgent"`
		Inventory []Item    `json:"inventory"`
	}
)

// NewSessionID allocates a fresh opaque session id.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

var defaultPalette = [...]string{
	"#E53935",
	"#8E24AA",
	"#3949AB",
	"#039BE5",
	"#00897B",
	"#7CB342",
	"#FDD835",
	"#F4511E",
}

// DefaultProfile derives a starting name and color from the session id.
func DefaultProfile(id SessionID) Profile {
	short := string(id)
	if len(short) > 4 {
		short = short[:4]
	}

	var sum int
	for i := 0; i < len(id); i++ {
		sum += int(id[i])
	}

	return Profile{
		ID:    id,
		Name:  "wanderer-" + short,
		Color: defaultPalette[sum%len(defaultPalette)],
	}
}

// DefaultInventory is the kit every fresh avatar carries.
func DefaultInventory() []Item {
	return []Item{
		{Name: "dirt", Type: TileDirt, Quantity: 20},
		{Name: "stone", Type: TileStone, Quantity: 20},
		{Name: "wood", Type: TileWood, Quantity: 10},
	}
}

// AddItem credits quantity of the tile, merging with an existing entry.
func (p *Player) AddItem(name string, t Tile, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range p.Inventory {
		if p.Inventory[i].Type == t {
			p.Inventory[i].Quantity += quantity
			return
		}
	}
	p.Inventory = append(p.Inventory, Item{Name: name, Type: t, Quantity: quantity})
}

// RemoveItem debits up to quantity of the tile. Entries that reach
// zero are dropped. Returns how many were actually removed.
func (p *Player) RemoveItem(t Tile, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	for i := range p.Inventory {
		if p.Inventory[i].Type != t {
			continue
		}

		n := min(quantity, p.Inventory[i].Quantity)
		p.Inventory[i].Quantity -= n
		if p.Inventory[i].Quantity == 0 {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		}
		return n
	}
	return 0
}

// Snapshot copies the externally visible fields.
func (p *Player) Snapshot() PlayerSnapshot {
	inv := make([]Item, len(p.Inventory))
	copy(inv, p.Inventory)

	return PlayerSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		X:         p.X,
		Y:         p.Y,
		Zone:      p.Zone,
		IsAgent:   p.IsAgent,
		Inventory: inv,
	}
}
