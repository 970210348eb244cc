// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"sync"
)

// Registry is the canonical table of players, keyed by session id.
// Structural mutations and per-player field updates happen under the
// registry lock; snapshot readers take the read lock. Restored
// records from a persistence snapshot are kept apart from live
// players and never enter physics or broadcasts.
type Registry struct {
	mu       sync.RWMutex
	players  map[SessionID]*Player
	restored map[SessionID]PlayerSnapshot
}

func NewRegistry() *Registry {
	return &Registry{
		players:  make(map[SessionID]*Player),
		restored: make(map[SessionID]PlayerSnapshot),
	}
}

// Insert adds a live player. The id must not already be present.
func (r *Registry) Insert(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[p.ID]; ok {
		panic("player already registered")
	}
	r.players[p.ID] = p
}

// Remove deletes the player and returns it, or nil if absent.
func (r *Registry) Remove(id SessionID) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.players[id]
	delete(r.players, id)
	return p
}

// Get returns the live player, or nil. The caller must be the hub
// goroutine or hold no reference past its own critical section.
func (r *Registry) Get(id SessionID) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.players[id]
}

// Len counts live players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players)
}

// Each runs fn for every live player under the write lock. The
// physics loop uses it for its per-player tick step.
func (r *Registry) Each(fn func(*Player)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		fn(p)
	}
}

// With runs fn on one player under the write lock.
func (r *Registry) With(id SessionID, fn func(*Player)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.players[id]
	if p == nil {
		return false
	}
	fn(p)
	return true
}

// Snapshot copies one player's visible fields.
func (r *Registry) Snapshot(id SessionID) (PlayerSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := r.players[id]
	if p == nil {
		return PlayerSnapshot{}, false
	}
	return p.Snapshot(), true
}

// SnapshotAll copies every live player's visible fields.
func (r *Registry) SnapshotAll() []PlayerSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		snaps = append(snaps, p.Snapshot())
	}
	return snaps
}

// Restore re-populates the registry from a persistence snapshot.
// Records stay offline until a session claims a fresh id; they exist
// so recovered state is observable before any session is accepted.
func (r *Registry) Restore(snaps []PlayerSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range snaps {
		r.restored[s.ID] = s
	}
}

// RestoredCount reports how many offline records recovery loaded.
func (r *Registry) RestoredCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.restored)
}
