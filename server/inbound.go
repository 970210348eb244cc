// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chewxy/math32"
	"github.com/finnbear/moderation"

	"github.com/playaetharia/aetharia/server/world"
)

const (
	// MaxMoveDelta bounds |x - previous x| per move message, in tiles.
	MaxMoveDelta = 20

	// BlockReach is the Chebyshev tile range for block edits;
	// AgentBlockReach is the relaxed range for identified agents.
	BlockReach      = 10
	AgentBlockReach = 50

	// ChunkRequestRadius is the Chebyshev chunk range a session may
	// request around its avatar's chunk.
	ChunkRequestRadius = 5

	// ChatLengthMax truncates chat messages, in bytes.
	ChatLengthMax = 500
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type (
	// Move updates the avatar's x and requests a jump. The y hint is
	// only honored before the first physics tick of the session.
	Move struct {
		X    *float32 `json:"x"`
		Y    *float32 `json:"y"`
		Jump bool     `json:"jump"`
	}

	// Chat relays a line to the sender's zone.
	Chat struct {
		Message *string `json:"message"`
	}

	// RequestChunk asks for one chunk's merged tiles.
	RequestChunk struct {
		ChunkX *int `json:"chunkX"`
		ChunkY *int `json:"chunkY"`
	}

	// PlaceBlock writes a tile override near the avatar.
	PlaceBlock struct {
		X    *int `json:"x"`
		Y    *int `json:"y"`
		Tile *int `json:"tile"`
	}

	// RemoveBlock clears a tile near the avatar.
	RemoveBlock struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}

	// SetProfile changes the avatar's name and/or color.
	SetProfile struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	// Identify flags the session as an automated agent.
	Identify struct {
		IsAI bool `json:"isAI"`
	}

	// Interact is reserved; it always answers not_implemented.
	Interact struct {
		Target string `json:"target"`
		Action string `json:"action"`
	}

	// InvalidInbound is the sentinel for an unregistered message type.
	InvalidInbound struct {
		messageType messageType
	}

	// MalformedInbound is the sentinel for a registered type whose
	// body failed to decode.
	MalformedInbound struct {
		messageType messageType
	}
)

func init() {
	registerInbound(
		Move{},
		Chat{},
		RequestChunk{},
		PlaceBlock{},
		RemoveBlock{},
		SetProfile{},
		Identify{},
		Interact{},
	)
}

func (data Move) Process(h *Hub, client Client) {
	id := client.Data().SessionID

	if data.X == nil || !finite(*data.X) || (data.Y != nil && !finite(*data.Y)) {
		h.sendError(client, "Invalid move message")
		return
	}

	var (
		rejected bool
		snap     world.PlayerSnapshot
	)
	ok := h.registry.With(id, func(p *world.Player) {
		x := *data.X
		if math32.Abs(x-p.X) > MaxMoveDelta {
			rejected = true
			return
		}

		if !h.horizontalBlocked(p, x) {
			p.X = x
		}
		if data.Y != nil && !p.Ticked {
			p.Y = *data.Y
		}
		if data.Jump && p.OnGround {
			p.VelocityY = JumpImpulse
			p.OnGround = false
		}
		snap = p.Snapshot()
	})
	if !ok {
		return
	}
	if rejected {
		h.sendError(client, "Movement too large")
		return
	}

	zone := h.transferZone(client, snap)
	h.toZone(zone, PlayerMoved{ID: id, X: snap.X, Y: snap.Y}, id)
}

func (data Chat) Process(h *Hub, client Client) {
	id := client.Data().SessionID

	if data.Message == nil {
		h.sendError(client, "Missing chat message")
		return
	}

	message, ok := sanitize(*data.Message, false, 1, ChatLengthMax)
	if !ok {
		return
	}

	result := moderation.Scan(message)
	if result.Is(moderation.Inappropriate & moderation.Severe) {
		return
	}
	if result.Is(moderation.Inappropriate) {
		message, _ = moderation.Censor(message, moderation.Inappropriate)
	}

	snap, ok := h.registry.Snapshot(id)
	if !ok {
		return
	}

	h.toZone(snap.Zone, ChatMessage{
		ID:        id,
		Message:   message,
		Timestamp: unixMillis(),
	}, "")
	h.logChat(snap, message)
}

func (data RequestChunk) Process(h *Hub, client Client) {
	if data.ChunkX == nil || data.ChunkY == nil {
		h.sendError(client, "Missing chunk coordinates")
		return
	}

	snap, ok := h.registry.Snapshot(client.Data().SessionID)
	if !ok {
		return
	}

	request := world.ChunkPos{X: *data.ChunkX, Y: *data.ChunkY}
	center := world.ChunkPosAt(int(math32.Floor(snap.X)), int(math32.Floor(snap.Y)))
	if center.Chebyshev(request) > ChunkRequestRadius {
		h.sendError(client, "Chunk too far away")
		return
	}

	h.sendTo(client, ChunkData{Chunk: ChunkPayload{
		X:     request.X,
		Y:     request.Y,
		Tiles: h.tiles.ChunkMerged(request),
	}})
}

func (data PlaceBlock) Process(h *Hub, client Client) {
	id := client.Data().SessionID

	if data.X == nil || data.Y == nil || data.Tile == nil {
		h.sendError(client, "Missing block coordinates")
		return
	}
	if !world.ValidTile(*data.Tile) {
		h.sendError(client, "Invalid tile type")
		return
	}

	snap, ok := h.registry.Snapshot(id)
	if !ok {
		return
	}
	if !inReach(snap, *data.X, *data.Y) {
		h.sendError(client, "Block out of range")
		return
	}

	tile := world.Tile(*data.Tile)
	if err := h.tiles.PlaceTile(*data.X, *data.Y, tile); err != nil {
		h.sendError(client, "Invalid tile type")
		return
	}
	h.registry.With(id, func(p *world.Player) {
		p.RemoveItem(tile, 1)
	})

	h.toZone(snap.Zone, BlockUpdate{
		X:        *data.X,
		Y:        *data.Y,
		Tile:     tile,
		PlacedBy: id,
	}, "")
}

func (data RemoveBlock) Process(h *Hub, client Client) {
	id := client.Data().SessionID

	if data.X == nil || data.Y == nil {
		h.sendError(client, "Missing block coordinates")
		return
	}

	snap, ok := h.registry.Snapshot(id)
	if !ok {
		return
	}
	if !inReach(snap, *data.X, *data.Y) {
		h.sendError(client, "Block out of range")
		return
	}

	current := h.tiles.Tile(*data.X, *data.Y)
	if current == world.TileAir {
		h.sendError(client, "No block to remove at that position")
		return
	}
	if err := h.tiles.RemoveTile(*data.X, *data.Y); err != nil {
		h.sendError(client, "Invalid tile type")
		return
	}
	h.registry.With(id, func(p *world.Player) {
		p.AddItem(current.String(), current, 1)
	})

	h.toZone(snap.Zone, BlockUpdate{
		X:        *data.X,
		Y:        *data.Y,
		Tile:     world.TileAir,
		PlacedBy: id,
	}, "")
}

func (data SetProfile) Process(h *Hub, client Client) {
	id := client.Data().SessionID

	var (
		changed bool
		snap    world.PlayerSnapshot
	)
	ok := h.registry.With(id, func(p *world.Player) {
		if data.Name != nil {
			if name, ok := sanitize(*data.Name, true, 1, world.PlayerNameLengthMax); ok {
				p.Name = name
				changed = true
			}
		}
		if data.Color != nil && colorPattern.MatchString(*data.Color) {
			p.Color = *data.Color
			changed = true
		}
		snap = p.Snapshot()
	})
	if !ok || !changed {
		return
	}

	h.toZone(snap.Zone, ProfileUpdate{ID: id, Name: snap.Name, Color: snap.Color}, "")
}

func (data Identify) Process(h *Hub, client Client) {
	h.registry.With(client.Data().SessionID, func(p *world.Player) {
		p.IsAgent = data.IsAI
	})
}

func (data Interact) Process(h *Hub, client Client) {
	h.sendTo(client, InteractResult{Result: "not_implemented"})
}

func (data InvalidInbound) Process(h *Hub, client Client) {
	h.sendError(client, "Unknown message type")
}

func (data MalformedInbound) Process(h *Hub, client Client) {
	h.sendError(client, "Invalid message format")
}

// inReach checks the Chebyshev tile range from the avatar to a block
// edit, relaxed for identified agents.
func inReach(snap world.PlayerSnapshot, x, y int) bool {
	reach := BlockReach
	if snap.IsAgent {
		reach = AgentBlockReach
	}

	dx := intAbs(x - int(math32.Round(snap.X)))
	dy := intAbs(y - int(math32.Round(snap.Y)))
	return max(dx, dy) <= reach
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func trimUtf8(in string, low, high int) (str string, ok bool) {
	if !utf8.ValidString(in) {
		return "", false
	}

	str = strings.TrimSpace(in)

	// Too long but can resize down
	if len(str) > high {
		var builder strings.Builder
		for _, r := range str {
			if builder.Len()+utf8.RuneLen(r) > high {
				break
			}
			builder.WriteRune(r)
		}
		str = builder.String()
	}

	// Too short
	if len(str) < low {
		return "", false
	}
	ok = true
	return
}

// sanitize strips control and non-printable runes, trims, and bounds
// the byte length. Names additionally lose formatting characters and
// pass through the moderation filter.
func sanitize(text string, name bool, low, high int) (string, bool) {
	if name {
		// Brackets are used in formatting, * is used for censoring
		const removals = "()[]{}*"
		for i := 0; i < len(removals); i++ {
			text = strings.ReplaceAll(text, removals[i:i+1], "")
		}
	}

	text = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, text)

	text, ok := trimUtf8(text, low, high)
	if !ok {
		return "", false
	}

	if name {
		result := moderation.Scan(text)
		if result.Is(moderation.Inappropriate) {
			if result.Is(moderation.Inappropriate & moderation.Moderate) {
				return "", false
			}
			text, _ = moderation.Censor(text, moderation.Inappropriate)
		}
	}

	return text, true
}
