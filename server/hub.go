// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/playaetharia/aetharia/server/logger"
	"github.com/playaetharia/aetharia/server/store"
	"github.com/playaetharia/aetharia/server/terrain"
	"github.com/playaetharia/aetharia/server/world"
)

const (
	// TickPeriod is the fixed physics cadence.
	TickPeriod = 50 * time.Millisecond

	// MinMessageInterval paces each session's inbound messages.
	MinMessageInterval = 50 * time.Millisecond

	agentPeriod  = time.Second / 4
	statusPeriod = time.Second
	debugPeriod  = 5 * time.Second
)

// Hub is the single owner of all world and player mutations. Clients
// push messages onto channels; everything else happens on the hub
// goroutine.
type Hub struct {
	cfg Config

	// World state
	tiles    *world.Store
	registry *world.Registry
	zones    *world.ZoneIndex

	// Persistence
	persist  store.Store
	observer *store.Async

	// Live sessions
	clients  ClientList // implemented as doubly-linked list
	sessions map[world.SessionID]Client

	// Served atomically by HTTP
	statusJSON atomic.Value
	ready      atomic.Bool

	started    time.Time
	tickMillis float64 // EWMA of physics step duration

	physicsCorrections []physicsResult

	// Inbound channels
	inbound    chan SignedInbound
	register   chan Client
	unregister chan Client

	// Timer based events
	physicsTicker  *time.Ticker
	statusTicker   *time.Ticker
	snapshotTicker *time.Ticker
	agentsTicker   *time.Ticker
	debugTicker    *time.Ticker
}

func NewHub(cfg Config, persist store.Store) *Hub {
	tiles := world.NewStore(terrain.New(cfg.Seed))
	observer := store.NewAsync(persist)
	tiles.SetObserver(observer)

	h := &Hub{
		cfg:            cfg,
		tiles:          tiles,
		registry:       world.NewRegistry(),
		zones:          world.NewZoneIndex(world.DefaultZones(), world.ZoneFrontier),
		persist:        persist,
		observer:       observer,
		sessions:       make(map[world.SessionID]Client),
		started:        time.Now(),
		inbound:        make(chan SignedInbound, 64),
		register:       make(chan Client, 8),
		unregister:     make(chan Client, 16),
		physicsTicker:  time.NewTicker(TickPeriod),
		statusTicker:   time.NewTicker(statusPeriod),
		snapshotTicker: time.NewTicker(cfg.SnapshotInterval()),
		agentsTicker:   time.NewTicker(agentPeriod),
		debugTicker:    time.NewTicker(debugPeriod),
	}
	h.statusJSON.Store([]byte("{}"))
	return h
}

// Recover loads persisted state before any session is accepted.
func (h *Hub) Recover() error {
	overrides, err := h.persist.LoadOverrides()
	if err != nil {
		return fmt.Errorf("load overrides: %w", err)
	}
	h.tiles.LoadOverrides(overrides)

	snaps, err := h.persist.LoadPlayers()
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	h.registry.Restore(snaps)

	logger.Get().Info("recovery complete",
		zap.Int("overrides", h.tiles.OverrideCount()),
		zap.Int("players", h.registry.RestoredCount()))
	h.ready.Store(true)
	return nil
}

func (h *Hub) Run() {
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
		logger.Get().Error("hub goroutine exited")
		os.Exit(1)
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case in := <-h.inbound:
			// Read all messages currently in the channel
			n := len(h.inbound)
			for {
				h.dispatch(in)

				if n--; n <= 0 {
					break
				}
				in = <-h.inbound
			}
		case <-h.physicsTicker.C:
			start := time.Now()
			h.Physics(TickDelta)
			h.observeTick(time.Since(start))
		case <-h.statusTicker.C:
			h.refreshStatus()
		case <-h.snapshotTicker.C:
			h.snapshotPlayers()
		case <-h.agentsTicker.C:
			h.driveAgents()
		case <-h.debugTicker.C:
			h.Debug()
		}
	}
}

// Shutdown flushes persistence. Call once the listener is closed.
func (h *Hub) Shutdown() {
	h.observer.Close()
	if err := h.persist.SavePlayers(h.registry.SnapshotAll()); err != nil {
		logger.Get().Error("final player snapshot failed", zap.Error(err))
	}
	if err := h.persist.Close(); err != nil {
		logger.Get().Error("store close failed", zap.Error(err))
	}
}

// dispatch runs one inbound message through its handler. A panicking
// handler takes down its own client, never the hub.
func (h *Hub) dispatch(in SignedInbound) {
	data := in.Client.Data()

	// If not same hub the message is old
	if h != data.Hub {
		return
	}
	if data.Limiter != nil && !data.Limiter.Allow() {
		// Paced out; silently dropped.
		return
	}

	h.registry.With(data.SessionID, func(p *world.Player) {
		p.LastMessage = unixMillis()
	})

	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("inbound handler panic",
				zap.String("session", string(data.SessionID)), zap.Any("err", r))
			in.Client.Destroy()
		}
	}()
	in.Process(h, in.Client)
}

func (h *Hub) addClient(client Client) {
	id := world.NewSessionID()

	data := client.Data()
	data.SessionID = id
	data.Hub = h
	data.Limiter = rate.NewLimiter(rate.Every(MinMessageInterval), 1)

	h.clients.Add(client)
	h.sessions[id] = client

	x := float32(world.DefaultSpawnX)
	y := h.spawnY(world.DefaultSpawnX)

	p := &world.Player{
		Profile:   world.DefaultProfile(id),
		X:         x,
		Y:         y,
		OnGround:  true,
		Inventory: world.DefaultInventory(),
	}
	zone, _, _ := h.zones.Assign(id, x, y)
	p.Zone = zone
	h.registry.Insert(p)

	client.Init()

	h.sendTo(client, h.welcome(p, zone))
	h.toZone(zone, PlayerJoined{PlayerInfo{ID: id, Name: p.Name, Color: p.Color, X: x, Y: y}}, id)
	h.sendTo(client, h.roster(id))

	logger.Get().Info("session joined",
		zap.String("session", string(id)),
		zap.String("zone", string(zone)),
		zap.Bool("agent", client.Agent()))
}

func (h *Hub) removeClient(client Client) {
	client.Close()

	data := client.Data()
	id := data.SessionID
	data.Hub = nil

	h.clients.Remove(client)
	delete(h.sessions, id)

	p := h.registry.Remove(id)
	zone, ok := h.zones.Remove(id)
	if p != nil && ok {
		h.toZone(zone, PlayerLeft{ID: id, Name: p.Name, Color: p.Color}, id)
	}

	logger.Get().Info("session left", zap.String("session", string(id)))
}

// welcome assembles the first frame: identity, spawn, and the 3x3
// chunk neighborhood around it.
func (h *Hub) welcome(p *world.Player, zone world.ZoneID) Welcome {
	center := world.ChunkPosAt(int(math32.Floor(p.X)), int(math32.Floor(p.Y)))

	chunks := make(map[string]ChunkPayload, 9)
	for cy := center.Y - 1; cy <= center.Y+1; cy++ {
		for cx := center.X - 1; cx <= center.X+1; cx++ {
			pos := world.ChunkPos{X: cx, Y: cy}
			chunks[pos.Key()] = ChunkPayload{X: cx, Y: cy, Tiles: h.tiles.ChunkMerged(pos)}
		}
	}

	return Welcome{
		ID:     p.ID,
		Name:   p.Name,
		Color:  p.Color,
		X:      p.X,
		Y:      p.Y,
		Zone:   zone,
		Chunks: chunks,
		WorldConfig: WorldConfig{
			ChunkSize: world.ChunkSize,
			TileSize:  32,
		},
	}
}

// roster lists every live player except the recipient.
func (h *Hub) roster(exclude world.SessionID) ExistingPlayers {
	snaps := h.registry.SnapshotAll()

	players := make([]PlayerInfo, 0, len(snaps))
	for _, snap := range snaps {
		if snap.ID == exclude {
			continue
		}
		players = append(players, PlayerInfo{
			ID:    snap.ID,
			Name:  snap.Name,
			Color: snap.Color,
			X:     snap.X,
			Y:     snap.Y,
		})
	}
	return ExistingPlayers{Players: players}
}

// spawnY probes the column for the first air tile resting on solid
// ground.
func (h *Hub) spawnY(x int) float32 {
	for y := -2 * world.ChunkSize; y < 2*world.ChunkSize; y++ {
		if h.tiles.Tile(x, y) == world.TileAir && h.tiles.Tile(x, y+1).Solid() {
			return float32(y)
		}
	}
	return 0
}

// transferZone moves the session between broadcast scopes when its
// position left the current zone. Returns the (possibly unchanged)
// zone.
func (h *Hub) transferZone(client Client, snap world.PlayerSnapshot) world.ZoneID {
	return h.transferZoneByID(snap.ID, snap.Name, snap.Color, snap.X, snap.Y)
}

func (h *Hub) transferZoneByID(id world.SessionID, name, color string, x, y float32) world.ZoneID {
	zone, changed, previous := h.zones.Assign(id, x, y)
	if !changed {
		return zone
	}

	h.registry.With(id, func(p *world.Player) {
		p.Zone = zone
	})

	if previous != "" {
		h.toZone(previous, PlayerLeft{ID: id, Name: name, Color: color}, id)
	}
	h.toZone(zone, PlayerJoined{PlayerInfo{ID: id, Name: name, Color: color, X: x, Y: y}}, id)

	if client := h.sessions[id]; client != nil {
		h.sendTo(client, ZoneChanged{Zone: zone})
	}
	return zone
}

// toZone serializes once and fans out to the zone's members.
func (h *Hub) toZone(zone world.ZoneID, out outbound, exclude world.SessionID) {
	members := h.zones.Members(zone)
	if len(members) == 0 {
		return
	}

	f := marshalFrame(out)
	for _, id := range members {
		if id == exclude {
			continue
		}
		if client := h.sessions[id]; client != nil {
			client.Send(f)
		}
	}
}

func (h *Hub) sendTo(client Client, out outbound) {
	client.Send(marshalFrame(out))
}

func (h *Hub) sendError(client Client, message string) {
	h.sendTo(client, Error{Message: message})
}

// snapshotPlayers persists the roster off the hub goroutine.
func (h *Hub) snapshotPlayers() {
	snaps := h.registry.SnapshotAll()
	go func() {
		if err := h.persist.SavePlayers(snaps); err != nil {
			logger.Get().Error("player snapshot failed", zap.Error(err))
		}
	}()
}

func (h *Hub) observeTick(d time.Duration) {
	millis := float64(d) / float64(time.Millisecond)
	if h.tickMillis == 0 {
		h.tickMillis = millis
	} else {
		h.tickMillis = h.tickMillis*0.9 + millis*0.1
	}
}

// driveAgents tops the in-process agent population up to the
// configured count and lets each live agent act once.
func (h *Hub) driveAgents() {
	count := 0
	for client := h.clients.First; client != nil; client = client.Data().Next {
		if agent, ok := client.(*AgentClient); ok {
			count++
			if snap, live := h.registry.Snapshot(agent.SessionID); live {
				agent.act(h, snap)
			}
		}
	}

	for ; count < h.cfg.Agents; count++ {
		select {
		case h.register <- NewAgentClient():
		default:
			return
		}
	}
}
