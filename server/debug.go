// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/playaetharia/aetharia/server/logger"
)

// Debug logs a periodic snapshot of hub internals. Only interesting
// at Debug level, so it costs nothing in production.
func (h *Hub) Debug() {
	log := logger.Get()
	if !log.Core().Enabled(zap.DebugLevel) {
		return
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	agents := 0
	for client := h.clients.First; client != nil; client = client.Data().Next {
		if client.Agent() {
			agents++
		}
	}

	log.Debug("hub",
		zap.Int("clients", h.clients.Len),
		zap.Int("agents", agents),
		zap.Int("overrides", h.tiles.OverrideCount()),
		zap.Any("zones", h.zones.Populations()),
		zap.Float64("tickMillis", h.tickMillis),
		zap.Uint64("heapInuseMB", stats.HeapInuse/1e6),
		zap.Uint64("nextGCMB", stats.NextGC/1e6))
}
