// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/playaetharia/aetharia/server/logger"
	"github.com/playaetharia/aetharia/server/world"
)

// Router wires the HTTP surface: the websocket endpoint plus the
// operational read-only endpoints.
func (h *Hub) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", h.ServeSocket)
	router.HandleFunc("/status", h.ServeStatus).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.ServeHealth).Methods(http.MethodGet)
	return router
}

func (h *Hub) ServeSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Warn("upgrade error", zap.Error(err))
		return
	}

	h.register <- NewSocketClient(conn, h.cfg.Heartbeat())
}

// ServeStatus returns the last status snapshot. The payload is
// refreshed on the hub goroutine and served atomically.
func (h *Hub) ServeStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	if buf, ok := h.statusJSON.Load().([]byte); ok {
		_, _ = w.Write(buf)
	}
}

// ServeHealth reports readiness: recovery finished and the hub loop
// is accepting sessions.
func (h *Hub) ServeHealth(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		http.Error(w, "recovering", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statusPayload struct {
	UptimeSeconds int64                `json:"uptimeSeconds"`
	Sessions      int                  `json:"sessions"`
	Agents        int                  `json:"agents"`
	Restored      int                  `json:"restored"`
	Overrides     int                  `json:"overrides"`
	Zones         map[world.ZoneID]int `json:"zones"`
	TickMillis    float64              `json:"tickMillis"`
}

// refreshStatus rebuilds the status payload. Runs on the hub
// goroutine.
func (h *Hub) refreshStatus() {
	agents := 0
	for client := h.clients.First; client != nil; client = client.Data().Next {
		if client.Agent() {
			agents++
		}
	}

	payload := statusPayload{
		UptimeSeconds: int64(time.Since(h.started) / time.Second),
		Sessions:      h.clients.Len,
		Agents:        agents,
		Restored:      h.registry.RestoredCount(),
		Overrides:     h.tiles.OverrideCount(),
		Zones:         h.zones.Populations(),
		TickMillis:    h.tickMillis,
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Error("status marshal failed", zap.Error(err))
		return
	}
	h.statusJSON.Store(buf)
}
