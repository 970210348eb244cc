// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playaetharia/aetharia/server/world"
)

func drainInbound(h *Hub) {
	for {
		select {
		case in := <-h.inbound:
			h.dispatch(in)
		default:
			return
		}
	}
}

func TestAgentIdentifiesAndNames(t *testing.T) {
	h := newTestHub(flatSource(5))
	agent := NewAgentClient()
	h.addClient(agent)
	agent.Limiter = nil // tests dispatch faster than real time

	// Init queued the identify handshake.
	drainInbound(h)
	snap, ok := h.registry.Snapshot(agent.SessionID)
	require.True(t, ok)
	assert.True(t, snap.IsAgent)

	// The first action picks a display name.
	agent.act(h, snap)
	drainInbound(h)
	snap, _ = h.registry.Snapshot(agent.SessionID)
	assert.NotContains(t, snap.Name, "wanderer-")
}

func TestAgentWanderStaysInPerimeter(t *testing.T) {
	h := newTestHub(flatSource(5))
	agent := NewAgentClient()
	h.addClient(agent)
	agent.Limiter = nil
	drainInbound(h)

	for i := 0; i < 50; i++ {
		snap, ok := h.registry.Snapshot(agent.SessionID)
		require.True(t, ok)
		agent.act(h, snap)
		drainInbound(h)
	}

	// Whatever the agent did, the hub never rejected a move.
	snap, _ := h.registry.Snapshot(agent.SessionID)
	assert.LessOrEqual(t, snap.X, float32(world.DefaultSpawnX+50*agentStride))
	assert.GreaterOrEqual(t, snap.X, float32(world.DefaultSpawnX-50*agentStride))
}

func TestDriveAgentsTopsUp(t *testing.T) {
	h := newTestHub(flatSource(5))
	h.cfg.Agents = 3

	h.driveAgents()

	// Agents arrive via the register channel like any client.
	count := 0
	for {
		select {
		case client := <-h.register:
			assert.True(t, client.Agent())
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 3, count)
}
