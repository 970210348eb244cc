// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"errors"
	"sync"
)

// ErrTileRange rejects writes of tile values outside [0, 7].
var ErrTileRange = errors.New("tile out of range")

type (
	// Source generates a chunk as a pure function of its coordinates.
	Source interface {
		Generate(chunkX, chunkY int) *Chunk
	}

	// Observer is notified of every committed override, after the
	// write is visible to readers. Used as a persistence write-through
	// hook; implementations must not block.
	Observer interface {
		TileChanged(x, y int, t Tile)
	}

	// Store layers a sparse override map over generated terrain.
	// Writes are serialized; readers never observe torn tiles.
	// Generated chunks are cached immutably for the process lifetime,
	// so a cached read always equals re-generation.
	Store struct {
		source   Source
		observer Observer

		mu        sync.RWMutex
		overrides map[TilePos]Tile

		cacheMu sync.RWMutex
		cache   map[ChunkPos]*Chunk
	}
)

func NewStore(source Source) *Store {
	return &Store{
		source:    source,
		overrides: make(map[TilePos]Tile),
		cache:     make(map[ChunkPos]*Chunk),
	}
}

// SetObserver installs the persistence hook. Must be called before
// the store is shared.
func (s *Store) SetObserver(o Observer) {
	s.observer = o
}

// Tile returns the override at (x, y) if present, else the generated
// tile.
func (s *Store) Tile(x, y int) Tile {
	pos := TilePos{X: x, Y: y}

	s.mu.RLock()
	t, ok := s.overrides[pos]
	s.mu.RUnlock()
	if ok {
		return t
	}

	localX, localY := pos.Local()
	return s.generated(pos.Chunk()).At(localX, localY)
}

// PlaceTile writes an override. Tile values outside the legal range
// fail with no state change.
func (s *Store) PlaceTile(x, y int, t Tile) error {
	if t >= TileCount {
		return ErrTileRange
	}

	s.mu.Lock()
	s.overrides[TilePos{X: x, Y: y}] = t
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.TileChanged(x, y, t)
	}
	return nil
}

// RemoveTile stores an air override. The override is kept rather than
// deleted so reads stay O(1) and stable even where the generated tile
// is also air.
func (s *Store) RemoveTile(x, y int) error {
	return s.PlaceTile(x, y, TileAir)
}

// ChunkMerged returns a fresh copy of the chunk with all applicable
// overrides layered on top.
func (s *Store) ChunkMerged(pos ChunkPos) *Chunk {
	merged := *s.generated(pos)

	baseX := pos.X * ChunkSize
	baseY := pos.Y * ChunkSize

	s.mu.RLock()
	for tp, t := range s.overrides {
		if tp.X >= baseX && tp.X < baseX+ChunkSize && tp.Y >= baseY && tp.Y < baseY+ChunkSize {
			merged[tp.Y-baseY][tp.X-baseX] = t
		}
	}
	s.mu.RUnlock()

	return &merged
}

// OverrideCount reports how many overrides the store carries.
func (s *Store) OverrideCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.overrides)
}

// Overrides copies the override map, for persistence snapshots.
func (s *Store) Overrides() map[TilePos]Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[TilePos]Tile, len(s.overrides))
	for pos, t := range s.overrides {
		out[pos] = t
	}
	return out
}

// LoadOverrides bulk-installs recovered overrides without notifying
// the observer. Called once before the store is shared.
func (s *Store) LoadOverrides(overrides map[TilePos]Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pos, t := range overrides {
		if t < TileCount {
			s.overrides[pos] = t
		}
	}
}

// generated returns the cached chunk, generating it at most once.
func (s *Store) generated(pos ChunkPos) *Chunk {
	s.cacheMu.RLock()
	c := s.cache[pos]
	s.cacheMu.RUnlock()
	if c != nil {
		return c
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Re-check after acquiring the lock.
	if c = s.cache[pos]; c == nil {
		c = s.source.Generate(pos.X, pos.Y)
		s.cache[pos] = c
	}
	return c
}
