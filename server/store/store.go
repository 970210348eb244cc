// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists world overrides and player snapshots. The
// hub treats every backend as a write-through observer plus a periodic
// snapshot sink; recovery loads both before any session is accepted.
package store

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/playaetharia/aetharia/server/logger"
	"github.com/playaetharia/aetharia/server/world"
)

type (
	// Store is a persistence backend.
	Store interface {
		// LoadOverrides returns every persisted tile override.
		LoadOverrides() (map[world.TilePos]world.Tile, error)

		// SaveOverride persists one override. Called from the async
		// write-through queue, never from the hub goroutine.
		SaveOverride(x, y int, t world.Tile) error

		// LoadPlayers returns the last player snapshot.
		LoadPlayers() ([]world.PlayerSnapshot, error)

		// SavePlayers replaces the player snapshot.
		SavePlayers(snaps []world.PlayerSnapshot) error

		Close() error
	}

	// Config selects and parameterizes a backend.
	Config struct {
		// Backend is one of "none", "leveldb", "dynamo".
		Backend string `toml:"backend"`

		// Path is the database directory for the leveldb backend.
		Path string `toml:"path"`

		// Region and TablePrefix configure the dynamo backend.
		Region      string `toml:"region"`
		TablePrefix string `toml:"table_prefix"`
	}

	// Nop discards writes and recovers nothing.
	Nop struct{}
)

func (Nop) LoadOverrides() (map[world.TilePos]world.Tile, error) { return nil, nil }
func (Nop) SaveOverride(int, int, world.Tile) error              { return nil }
func (Nop) LoadPlayers() ([]world.PlayerSnapshot, error)         { return nil, nil }
func (Nop) SavePlayers([]world.PlayerSnapshot) error             { return nil }
func (Nop) Close() error                                         { return nil }

// Open constructs the backend named by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "leveldb":
		return OpenLevelDB(cfg.Path)
	case "dynamo":
		return OpenDynamo(cfg.Region, cfg.TablePrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// tileKey formats an override coordinate the way every backend keys it.
func tileKey(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

func parseTileKey(key string) (world.TilePos, error) {
	sx, sy, ok := strings.Cut(key, ",")
	if !ok {
		return world.TilePos{}, fmt.Errorf("malformed tile key %q", key)
	}
	x, err := strconv.Atoi(sx)
	if err != nil {
		return world.TilePos{}, fmt.Errorf("malformed tile key %q: %w", key, err)
	}
	y, err := strconv.Atoi(sy)
	if err != nil {
		return world.TilePos{}, fmt.Errorf("malformed tile key %q: %w", key, err)
	}
	return world.TilePos{X: x, Y: y}, nil
}

type tileWrite struct {
	x, y int
	tile world.Tile
}

// Async adapts a Store into a non-blocking world.Observer. Committed
// overrides queue onto a buffered channel drained by one writer
// goroutine; when the queue is full the write is dropped with a log
// line rather than stalling the hub.
type Async struct {
	store Store
	queue chan tileWrite
	done  chan struct{}
}

func NewAsync(s Store) *Async {
	a := &Async{
		store: s,
		queue: make(chan tileWrite, 1024),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// TileChanged implements world.Observer.
func (a *Async) TileChanged(x, y int, t world.Tile) {
	select {
	case a.queue <- tileWrite{x: x, y: y, tile: t}:
	default:
		logger.Get().Warn("store queue full, dropping override write",
			zap.Int("x", x), zap.Int("y", y))
	}
}

func (a *Async) run() {
	defer close(a.done)
	for w := range a.queue {
		if err := a.store.SaveOverride(w.x, w.y, w.tile); err != nil {
			logger.Get().Error("store write failed",
				zap.Int("x", w.x), zap.Int("y", w.y), zap.Error(err))
		}
	}
}

// Close drains the queue and stops the writer.
func (a *Async) Close() {
	close(a.queue)
	<-a.done
}
