// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"

	"github.com/playaetharia/aetharia/server/world"
)

// agentStride scales the wander noise into a per-step x delta, well
// inside the movement perimeter.
const agentStride = 4

// AgentClient is an in-process session that wanders the world, chats,
// and remodels terrain. It speaks the same inbound messages as a
// remote client and enjoys no special treatment beyond the identified
// agent reach.
type AgentClient struct {
	ClientData
	noise      *perlin.Perlin
	t          float64
	named      bool
	destroying bool
}

func NewAgentClient() *AgentClient {
	r := getRand()
	seed := r.Int63()
	poolRand(r)

	return &AgentClient{
		noise: perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (agent *AgentClient) Agent() bool {
	return true
}

func (agent *AgentClient) Close() {}

func (agent *AgentClient) Data() *ClientData {
	return &agent.ClientData
}

func (agent *AgentClient) Destroy() {
	if agent.destroying {
		return // In case goroutine hasn't run yet
	}

	agent.destroying = true
	hub := agent.Hub

	// Needs to go through always.
	select {
	case hub.unregister <- agent:
	default:
		go func() {
			hub.unregister <- agent
		}()
	}
}

func (agent *AgentClient) Init() {
	agent.receiveAsync(Identify{IsAI: true})
}

// Send discards server frames. Agents act on the authoritative
// snapshot the hub hands to act, so they never parse their own view.
func (agent *AgentClient) Send(f frame) {}

// act takes one decision. Called from the hub goroutine on the agent
// ticker; snap is the agent's live state.
func (agent *AgentClient) act(h *Hub, snap world.PlayerSnapshot) {
	r := getRand()
	defer poolRand(r)

	agent.t += 0.03

	switch {
	case !agent.named:
		agent.named = true
		name := randomAgentName(r)
		agent.receiveAsync(SetProfile{Name: &name})
	case prob(r, 0.02):
		line := agentChatLines[r.Intn(len(agentChatLines))]
		agent.receiveAsync(Chat{Message: &line})
	case prob(r, 0.05):
		// Remodel the terrain nearby.
		x := int(math32.Round(snap.X)) + r.Intn(9) - 4
		y := int(math32.Round(snap.Y)) + r.Intn(5) - 2
		if prob(r, 0.5) {
			tile := int(world.TileDirt)
			agent.receiveAsync(PlaceBlock{X: &x, Y: &y, Tile: &tile})
		} else {
			agent.receiveAsync(RemoveBlock{X: &x, Y: &y})
		}
	default:
		wander := float32(agent.noise.Noise1D(agent.t))
		x := snap.X + wander*agentStride
		agent.receiveAsync(Move{X: &x, Jump: prob(r, 0.1)})
	}
}

// receiveAsync doesn't deadlock the hub
func (agent *AgentClient) receiveAsync(in inbound) {
	select {
	case agent.Hub.inbound <- SignedInbound{Client: agent, inbound: in}:
	default:
		// Drop agent messages to avoid downfall of server
	}
}
