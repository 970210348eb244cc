// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playaetharia/aetharia/server/store"
	"github.com/playaetharia/aetharia/server/world"
)

func TestJoinHandshake(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)

	require.GreaterOrEqual(t, len(client.frames), 2)

	welcome := client.frames[0]
	require.Equal(t, "welcome", json.Get(welcome, "type").ToString())
	assert.Equal(t, string(client.SessionID), json.Get(welcome, "id").ToString())
	assert.Equal(t, "zone_central", json.Get(welcome, "zone").ToString())
	assert.Equal(t, float32(0), json.Get(welcome, "x").ToFloat32())
	assert.Equal(t, float32(4), json.Get(welcome, "y").ToFloat32())
	assert.Equal(t, 32, json.Get(welcome, "worldConfig", "chunkSize").ToInt())

	// 3x3 chunk neighborhood around the spawn chunk.
	chunks := json.Get(welcome, "chunks")
	require.Equal(t, 9, chunks.Size())
	for _, key := range []string{"-1,-1", "0,0", "1,1"} {
		assert.Equal(t, 32, chunks.Get(key, "tiles").Size(), "chunk %s", key)
	}

	roster := client.ofType("existingPlayers")
	require.Len(t, roster, 1)
	assert.Equal(t, 0, json.Get(roster[0], "players").Size())
}

func TestJoinAnnouncedToZone(t *testing.T) {
	h := newTestHub(flatSource(5))
	first := join(h)
	first.reset()

	second := join(h)

	joined := first.ofType("playerJoined")
	require.Len(t, joined, 1)
	assert.Equal(t, string(second.SessionID), json.Get(joined[0], "id").ToString())

	// The newcomer hears about the first player via the roster, not a
	// playerJoined of their own.
	assert.Empty(t, second.ofType("playerJoined"))
	roster := second.ofType("existingPlayers")
	require.Len(t, roster, 1)
	players := json.Get(roster[0], "players")
	require.Equal(t, 1, players.Size())
	assert.Equal(t, string(first.SessionID), players.Get(0, "id").ToString())
}

func TestLeaveAnnouncedToZone(t *testing.T) {
	h := newTestHub(flatSource(5))
	first := join(h)
	second := join(h)
	first.reset()

	h.removeClient(second)

	left := first.ofType("playerLeft")
	require.Len(t, left, 1)
	assert.Equal(t, string(second.SessionID), json.Get(left[0], "id").ToString())

	assert.Equal(t, 1, h.registry.Len())
	_, stillThere := h.zones.Zone(second.SessionID)
	assert.False(t, stillThere)

	h.removeClient(first)
	assert.Zero(t, h.registry.Len())
	assert.Empty(t, h.sessions)
}

func TestZoneTransferOnMove(t *testing.T) {
	h := newTestHub(flatSource(5))
	central := join(h)
	mover := join(h)

	// Walk the mover to the eastern edge of zone_central.
	h.registry.With(mover.SessionID, func(p *world.Player) {
		p.X = 90
	})
	central.reset()
	mover.reset()

	// Crossing chunk x=3 enters zone_east.
	Move{X: floatPtr(97)}.Process(h, mover)

	changed := mover.ofType("zoneChanged")
	require.Len(t, changed, 1)
	assert.Equal(t, "zone_east", json.Get(changed[0], "zone").ToString())

	zone, _ := h.zones.Zone(mover.SessionID)
	assert.Equal(t, world.ZoneID("zone_east"), zone)
	snap, _ := h.registry.Snapshot(mover.SessionID)
	assert.Equal(t, world.ZoneID("zone_east"), snap.Zone)

	// The old zone sees a departure, not a movement.
	left := central.ofType("playerLeft")
	require.Len(t, left, 1)
	assert.Equal(t, string(mover.SessionID), json.Get(left[0], "id").ToString())
	assert.Empty(t, central.ofType("playerMoved"))
}

func TestMovedBroadcastExcludesMover(t *testing.T) {
	h := newTestHub(flatSource(5))
	observer := join(h)
	mover := join(h)
	observer.reset()
	mover.reset()

	Move{X: floatPtr(3)}.Process(h, mover)

	moved := observer.ofType("playerMoved")
	require.Len(t, moved, 1)
	assert.Equal(t, float32(3), json.Get(moved[0], "x").ToFloat32())
	assert.Empty(t, mover.ofType("playerMoved"))
}

func TestDispatchRateLimit(t *testing.T) {
	h := newTestHub(flatSource(5))
	a := join(h)
	b := join(h)
	a.reset()
	b.reset()

	// Burst of three chats; the limiter admits only the first.
	for i := 0; i < 3; i++ {
		h.dispatch(SignedInbound{Client: a, inbound: Chat{Message: strPtr("hello")}})
	}

	assert.Len(t, b.ofType("chatMessage"), 1)
	// Silent drop: no error frames either.
	assert.Empty(t, a.ofType("error"))
}

func TestDispatchStaleClient(t *testing.T) {
	h := newTestHub(flatSource(5))
	client := join(h)
	h.removeClient(client)
	client.reset()

	h.dispatch(SignedInbound{Client: client, inbound: Chat{Message: strPtr("ghost")}})
	assert.Empty(t, client.frames)
}

func TestStatusPayload(t *testing.T) {
	h := newTestHub(flatSource(5))
	join(h)
	join(h)
	require.NoError(t, h.tiles.PlaceTile(0, 0, world.TileWood))
	h.started = time.Now().Add(-3 * time.Second)

	h.refreshStatus()

	status := h.statusJSON.Load().([]byte)
	assert.Equal(t, 2, json.Get(status, "sessions").ToInt())
	assert.Equal(t, 0, json.Get(status, "agents").ToInt())
	assert.Equal(t, 1, json.Get(status, "overrides").ToInt())
	assert.Equal(t, 2, json.Get(status, "zones", "zone_central").ToInt())
	assert.GreaterOrEqual(t, json.Get(status, "uptimeSeconds").ToInt64(), int64(3))
}

func TestRecoverLoadsState(t *testing.T) {
	h := newTestHub(flatSource(5))
	h.persist = seededStore{
		overrides: map[world.TilePos]world.Tile{{X: 1, Y: 1}: world.TileWood},
		players:   []world.PlayerSnapshot{{ID: "old", Name: "old-timer"}},
	}

	require.NoError(t, h.Recover())

	assert.Equal(t, world.TileWood, h.tiles.Tile(1, 1))
	assert.Equal(t, 1, h.registry.RestoredCount())
	assert.Zero(t, h.registry.Len())
	assert.True(t, h.ready.Load())
}

type seededStore struct {
	store.Nop
	overrides map[world.TilePos]world.Tile
	players   []world.PlayerSnapshot
}

func (s seededStore) LoadOverrides() (map[world.TilePos]world.Tile, error) {
	return s.overrides, nil
}

func (s seededStore) LoadPlayers() ([]world.PlayerSnapshot, error) {
	return s.players, nil
}
