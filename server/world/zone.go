// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"sync"

	"github.com/chewxy/math32"
)

type (
	// ZoneID names a broadcast scope.
	ZoneID string

	// Zone is a rectangular region in chunk-coordinate space with
	// inclusive bounds. Named zones must not overlap; positions not
	// covered by any named zone belong to the index's fallback zone.
	Zone struct {
		ID   ZoneID
		MinX int
		MaxX int
		MinY int
		MaxY int
	}
)

func (z Zone) contains(p ChunkPos) bool {
	return p.X >= z.MinX && p.X <= z.MaxX && p.Y >= z.MinY && p.Y <= z.MaxY
}

// ZoneFrontier is the fallback zone absorbing every position the
// named regions leave uncovered.
const ZoneFrontier = ZoneID("zone_frontier")

// DefaultZones tiles the reachable world. North is negative chunk Y.
func DefaultZones() []Zone {
	return []Zone{
		{ID: "zone_central", MinX: -2, MaxX: 2, MinY: -2, MaxY: 2},
		{ID: "zone_north", MinX: -2, MaxX: 2, MinY: -64, MaxY: -3},
		{ID: "zone_south", MinX: -2, MaxX: 2, MinY: 3, MaxY: 64},
		{ID: "zone_west", MinX: -64, MaxX: -3, MinY: -64, MaxY: 64},
		{ID: "zone_east", MinX: 3, MaxX: 64, MinY: -64, MaxY: 64},
	}
}

// ZoneIndex maps sessions to the zone containing their avatar.
// Members returns point-in-time snapshots so a session removed
// mid-broadcast is safe.
type ZoneIndex struct {
	mu        sync.RWMutex
	zones     []Zone
	fallback  ZoneID
	members   map[ZoneID]map[SessionID]struct{}
	bySession map[SessionID]ZoneID
}

func NewZoneIndex(zones []Zone, fallback ZoneID) *ZoneIndex {
	return &ZoneIndex{
		zones:     zones,
		fallback:  fallback,
		members:   make(map[ZoneID]map[SessionID]struct{}),
		bySession: make(map[SessionID]ZoneID),
	}
}

// ZoneAt returns the zone containing the position, in tile units.
func (zi *ZoneIndex) ZoneAt(x, y float32) ZoneID {
	p := ChunkPosAt(int(math32.Floor(x)), int(math32.Floor(y)))
	for i := range zi.zones {
		if zi.zones[i].contains(p) {
			return zi.zones[i].ID
		}
	}
	return zi.fallback
}

// Assign moves the session into the zone containing (x, y), removing
// it from its previous zone first. Idempotent when the zone is
// unchanged. Returns the new zone, whether it changed, and the
// previous zone ("" for a fresh session).
func (zi *ZoneIndex) Assign(id SessionID, x, y float32) (zone ZoneID, changed bool, previous ZoneID) {
	zone = zi.ZoneAt(x, y)

	zi.mu.Lock()
	defer zi.mu.Unlock()

	previous, ok := zi.bySession[id]
	if ok && previous == zone {
		return zone, false, previous
	}

	if ok {
		zi.drop(id, previous)
	}

	set := zi.members[zone]
	if set == nil {
		set = make(map[SessionID]struct{})
		zi.members[zone] = set
	}
	set[id] = struct{}{}
	zi.bySession[id] = zone

	return zone, true, previous
}

// Remove takes the session out of the index entirely.
// Returns the zone it was in, if any.
func (zi *ZoneIndex) Remove(id SessionID) (ZoneID, bool) {
	zi.mu.Lock()
	defer zi.mu.Unlock()

	zone, ok := zi.bySession[id]
	if !ok {
		return "", false
	}

	zi.drop(id, zone)
	delete(zi.bySession, id)
	return zone, true
}

// drop must be called with the lock held.
func (zi *ZoneIndex) drop(id SessionID, zone ZoneID) {
	set := zi.members[zone]
	delete(set, id)
	if len(set) == 0 {
		delete(zi.members, zone)
	}
}

// Members returns a snapshot of the session ids in the zone.
func (zi *ZoneIndex) Members(zone ZoneID) []SessionID {
	zi.mu.RLock()
	defer zi.mu.RUnlock()

	set := zi.members[zone]
	if len(set) == 0 {
		return nil
	}

	ids := make([]SessionID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// Zone returns the zone the session is currently assigned to.
func (zi *ZoneIndex) Zone(id SessionID) (ZoneID, bool) {
	zi.mu.RLock()
	defer zi.mu.RUnlock()

	zone, ok := zi.bySession[id]
	return zone, ok
}

// Populations counts members per zone.
func (zi *ZoneIndex) Populations() map[ZoneID]int {
	zi.mu.RLock()
	defer zi.mu.RUnlock()

	counts := make(map[ZoneID]int, len(zi.members))
	for zone, set := range zi.members {
		counts[zone] = len(set)
	}
	return counts
}
