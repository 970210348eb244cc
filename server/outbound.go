// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/playaetharia/aetharia/server/world"
)

type (
	// WorldConfig tells the client how to interpret chunk payloads.
	WorldConfig struct {
		ChunkSize int `json:"chunkSize"`
		TileSize  int `json:"tileSize"`
	}

	// ChunkPayload is one chunk's tiles, row-major.
	ChunkPayload struct {
		X     int          `json:"x"`
		Y     int          `json:"y"`
		Tiles *world.Chunk `json:"tiles"`
	}

	// PlayerInfo is the roster view of another player.
	PlayerInfo struct {
		ID    world.SessionID `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color"`
		X     float32         `json:"x"`
		Y     float32         `json:"y"`
	}

	// Welcome is the first frame of every session.
	Welcome struct {
		ID          world.SessionID         `json:"id"`
		Name        string                  `json:"name"`
		Color       string                  `json:"color"`
		X           float32                 `json:"x"`
		Y           float32                 `json:"y"`
		Zone        world.ZoneID            `json:"zone"`
		Chunks      map[string]ChunkPayload `json:"chunks"`
		WorldConfig WorldConfig             `json:"worldConfig"`
	}

	// ExistingPlayers is the live roster, excluding the recipient.
	ExistingPlayers struct {
		Players []PlayerInfo `json:"players"`
	}

	// PlayerJoined announces a player entering the recipient's zone.
	PlayerJoined struct {
		PlayerInfo
	}

	// PlayerLeft announces a player leaving the recipient's zone.
	PlayerLeft struct {
		ID    world.SessionID `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color"`
	}

	// PlayerMoved carries another player's authoritative position.
	PlayerMoved struct {
		ID world.SessionID `json:"id"`
		X  float32         `json:"x"`
		Y  float32         `json:"y"`
	}

	// PositionCorrection snaps the recipient's own avatar after a
	// physics adjustment.
	PositionCorrection struct {
		X        float32 `json:"x"`
		Y        float32 `json:"y"`
		OnGround bool    `json:"onGround"`
	}

	// ProfileUpdate announces a name or color change.
	ProfileUpdate struct {
		ID    world.SessionID `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color"`
	}

	// ChunkData answers a requestChunk.
	ChunkData struct {
		Chunk ChunkPayload `json:"chunk"`
	}

	// ChatMessage relays a chat line to the sender's zone.
	ChatMessage struct {
		ID        world.SessionID `json:"id"`
		Message   string          `json:"message"`
		Timestamp int64           `json:"timestamp"`
	}

	// BlockUpdate announces a committed tile change.
	BlockUpdate struct {
		X        int             `json:"x"`
		Y        int             `json:"y"`
		Tile     world.Tile      `json:"tile"`
		PlacedBy world.SessionID `json:"placedBy"`
	}

	// ZoneChanged tells the recipient their broadcast scope moved.
	ZoneChanged struct {
		Zone world.ZoneID `json:"zone"`
	}

	// InteractResult answers the reserved interact operation.
	InteractResult struct {
		Result string `json:"result"`
	}

	// Error is the reply to a rejected inbound.
	Error struct {
		Message string `json:"message"`
	}
)

func init() {
	registerOutbound(
		Welcome{},
		ExistingPlayers{},
		PlayerJoined{},
		PlayerLeft{},
		PlayerMoved{},
		PositionCorrection{},
		ProfileUpdate{},
		ChunkData{},
		ChatMessage{},
		BlockUpdate{},
		ZoneChanged{},
		InteractResult{},
		Error{},
	)
}
