// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"time"

	"github.com/playaetharia/aetharia/server/store"
	"github.com/playaetharia/aetharia/server/world"
)

// flatSource generates terrain that is solid stone at every world row
// >= the threshold and air above it.
type flatSource int

func (f flatSource) Generate(chunkX, chunkY int) *world.Chunk {
	var c world.Chunk
	for ly := 0; ly < world.ChunkSize; ly++ {
		if chunkY*world.ChunkSize+ly >= int(f) {
			for lx := 0; lx < world.ChunkSize; lx++ {
				c[ly][lx] = world.TileStone
			}
		}
	}
	return &c
}

// newTestHub builds a hub whose loop is never started; tests drive
// handlers synchronously on their own goroutine.
func newTestHub(src world.Source) *Hub {
	h := &Hub{
		cfg:        DefaultConfig(),
		tiles:      world.NewStore(src),
		registry:   world.NewRegistry(),
		zones:      world.NewZoneIndex(world.DefaultZones(), world.ZoneFrontier),
		persist:    store.Nop{},
		sessions:   make(map[world.SessionID]Client),
		started:    time.Now(),
		inbound:    make(chan SignedInbound, 64),
		register:   make(chan Client, 8),
		unregister: make(chan Client, 16),
	}
	h.statusJSON.Store([]byte("{}"))
	return h
}

// testClient records every frame the hub sends it.
type testClient struct {
	ClientData
	frames []frame
}

func (c *testClient) Init()             {}
func (c *testClient) Close()            {}
func (c *testClient) Destroy()          {}
func (c *testClient) Agent() bool       { return false }
func (c *testClient) Data() *ClientData { return &c.ClientData }
func (c *testClient) Send(f frame)      { c.frames = append(c.frames, f) }

func (c *testClient) reset() {
	c.frames = nil
}

// ofType filters recorded frames by their wire discriminator.
func (c *testClient) ofType(t string) []frame {
	var out []frame
	for _, f := range c.frames {
		if json.Get(f, "type").ToString() == t {
			out = append(out, f)
		}
	}
	return out
}

func join(h *Hub) *testClient {
	client := &testClient{}
	h.addClient(client)
	return client
}

func floatPtr(f float32) *float32 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }
