// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playaetharia/aetharia/server/world"
)

func errorMessages(c *testClient) []string {
	var out []string
	for _, f := range c.ofType("error") {
		out = append(out, json.Get(f, "message").ToString())
	}
	return out
}

func TestMoveDeltaPerimeter(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	// Exactly the limit is accepted.
	Move{X: floatPtr(20)}.Process(h, client)
	p := h.registry.Get(client.SessionID)
	require.Equal(t, float32(20), p.X)
	require.Empty(t, errorMessages(client))

	// One step beyond is rejected without moving.
	Move{X: floatPtr(40.5)}.Process(h, client)
	assert.Equal(t, float32(20), p.X)
	assert.Equal(t, []string{"Movement too large"}, errorMessages(client))
}

func TestMoveMissingX(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	Move{Jump: true}.Process(h, client)
	assert.Equal(t, []string{"Invalid move message"}, errorMessages(client))

	p := h.registry.Get(client.SessionID)
	assert.Zero(t, p.VelocityY)
}

func TestChunkRequestPerimeter(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	RequestChunk{ChunkX: intPtr(5), ChunkY: intPtr(0)}.Process(h, client)
	data := client.ofType("chunkData")
	require.Len(t, data, 1)
	assert.Equal(t, 5, json.Get(data[0], "chunk", "x").ToInt())
	assert.Equal(t, 32, json.Get(data[0], "chunk", "tiles").Size())

	client.reset()
	RequestChunk{ChunkX: intPtr(6), ChunkY: intPtr(0)}.Process(h, client)
	assert.Empty(t, client.ofType("chunkData"))
	assert.Equal(t, []string{"Chunk too far away"}, errorMessages(client))
}

func TestRequestChunkMergesOverrides(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	require.NoError(t, h.tiles.PlaceTile(1, 1, world.TileLeaves))
	client.reset()

	RequestChunk{ChunkX: intPtr(0), ChunkY: intPtr(0)}.Process(h, client)
	data := client.ofType("chunkData")
	require.Len(t, data, 1)
	tile := json.Get(data[0], "chunk", "tiles", 1, 1).ToInt()
	assert.Equal(t, int(world.TileLeaves), tile)
}

func TestPlaceBlock(t *testing.T) {
	h := newTestHub(flatSource(5))
	observer := join(h)
	client := join(h)
	observer.reset()
	client.reset()

	PlaceBlock{X: intPtr(3), Y: intPtr(3), Tile: intPtr(int(world.TileDirt))}.Process(h, client)

	assert.Equal(t, world.TileDirt, h.tiles.Tile(3, 3))

	// Both zone members see the update, the placer included.
	for _, c := range []*testClient{observer, client} {
		updates := c.ofType("blockUpdate")
		require.Len(t, updates, 1)
		assert.Equal(t, int(world.TileDirt), json.Get(updates[0], "tile").ToInt())
		assert.Equal(t, string(client.SessionID), json.Get(updates[0], "placedBy").ToString())
	}

	// Inventory debited.
	snap, _ := h.registry.Snapshot(client.SessionID)
	assert.Equal(t, 19, snap.Inventory[0].Quantity)
}

func TestPlaceBlockTilePerimeter(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	for _, tile := range []int{-1, 8, 255} {
		PlaceBlock{X: intPtr(1), Y: intPtr(1), Tile: intPtr(tile)}.Process(h, client)
	}
	assert.Equal(t, []string{
		"Invalid tile type", "Invalid tile type", "Invalid tile type",
	}, errorMessages(client))

	// Boundary values pass.
	PlaceBlock{X: intPtr(1), Y: intPtr(1), Tile: intPtr(7)}.Process(h, client)
	assert.Equal(t, world.TileLeaves, h.tiles.Tile(1, 1))
}

func TestBlockReachPerimeter(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	// Avatar at (0, 4): Chebyshev 10 is in reach, 11 is not.
	PlaceBlock{X: intPtr(10), Y: intPtr(4), Tile: intPtr(1)}.Process(h, client)
	require.Empty(t, errorMessages(client))

	PlaceBlock{X: intPtr(11), Y: intPtr(4), Tile: intPtr(1)}.Process(h, client)
	assert.Equal(t, []string{"Block out of range"}, errorMessages(client))

	// Identified agents reach further.
	Identify{IsAI: true}.Process(h, client)
	client.reset()
	PlaceBlock{X: intPtr(50), Y: intPtr(4), Tile: intPtr(1)}.Process(h, client)
	require.Empty(t, errorMessages(client))
	PlaceBlock{X: intPtr(51), Y: intPtr(4), Tile: intPtr(1)}.Process(h, client)
	assert.Equal(t, []string{"Block out of range"}, errorMessages(client))
}

func TestRemoveBlock(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	RemoveBlock{X: intPtr(2), Y: intPtr(6)}.Process(h, client)

	assert.Equal(t, world.TileAir, h.tiles.Tile(2, 6))
	updates := client.ofType("blockUpdate")
	require.Len(t, updates, 1)
	assert.Equal(t, 0, json.Get(updates[0], "tile").ToInt())

	// The removed stone lands in the inventory.
	snap, _ := h.registry.Snapshot(client.SessionID)
	for _, item := range snap.Inventory {
		if item.Type == world.TileStone {
			assert.Equal(t, 21, item.Quantity)
		}
	}
}

func TestRemoveBlockRequiresBlock(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	RemoveBlock{X: intPtr(2), Y: intPtr(2)}.Process(h, client)

	assert.Equal(t, []string{"No block to remove at that position"}, errorMessages(client))
	assert.Empty(t, client.ofType("blockUpdate"))
	assert.Zero(t, h.tiles.OverrideCount())
}

func TestChatBroadcastAndSanitize(t *testing.T) {
	h := newTestHub(flatSource(5))
	a := join(h)
	b := join(h)
	a.reset()
	b.reset()

	Chat{Message: strPtr("  hel\x01lo\x7f zone  ")}.Process(h, a)

	for _, c := range []*testClient{a, b} {
		msgs := c.ofType("chatMessage")
		require.Len(t, msgs, 1)
		assert.Equal(t, "hello zone", json.Get(msgs[0], "message").ToString())
		assert.Equal(t, string(a.SessionID), json.Get(msgs[0], "id").ToString())
		assert.Positive(t, json.Get(msgs[0], "timestamp").ToInt64())
	}
}

func TestChatEmptyDropped(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	Chat{Message: strPtr("   \x01\x02  ")}.Process(h, client)
	assert.Empty(t, client.frames)
}

func TestChatTruncated(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	Chat{Message: strPtr(strings.Repeat("a", 600))}.Process(h, client)

	msgs := client.ofType("chatMessage")
	require.Len(t, msgs, 1)
	assert.Len(t, json.Get(msgs[0], "message").ToString(), ChatLengthMax)
}

func TestSetProfile(t *testing.T) {
	h := newTestHub(flatSource(5))
	observer := join(h)
	client := join(h)
	observer.reset()
	client.reset()

	SetProfile{Name: strPtr("Skybuilder"), Color: strPtr("#AABB01")}.Process(h, client)

	snap, _ := h.registry.Snapshot(client.SessionID)
	assert.Equal(t, "Skybuilder", snap.Name)
	assert.Equal(t, "#AABB01", snap.Color)

	updates := observer.ofType("profileUpdate")
	require.Len(t, updates, 1)
	assert.Equal(t, "Skybuilder", json.Get(updates[0], "name").ToString())
}

func TestSetProfileRejectsBadColor(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	before, _ := h.registry.Snapshot(client.SessionID)
	client.reset()

	for _, color := range []string{"red", "#12345", "#GGGGGG", "123456#"} {
		SetProfile{Color: strPtr(color)}.Process(h, client)
	}

	after, _ := h.registry.Snapshot(client.SessionID)
	assert.Equal(t, before.Color, after.Color)
	assert.Empty(t, client.ofType("profileUpdate"))
}

func TestSetProfileNameTruncated(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)

	SetProfile{Name: strPtr(strings.Repeat("x", 40))}.Process(h, client)

	snap, _ := h.registry.Snapshot(client.SessionID)
	assert.Len(t, snap.Name, world.PlayerNameLengthMax)
}

func TestInteractNotImplemented(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	Interact{Target: "door", Action: "open"}.Process(h, client)

	results := client.ofType("interactResult")
	require.Len(t, results, 1)
	assert.Equal(t, "not_implemented", json.Get(results[0], "result").ToString())
}

func TestSentinelReplies(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	client.reset()

	InvalidInbound{messageType: "teleport"}.Process(h, client)
	MalformedInbound{messageType: "move"}.Process(h, client)

	assert.Equal(t, []string{
		"Unknown message type",
		"Invalid message format",
	}, errorMessages(client))
}
