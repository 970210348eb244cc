// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/playaetharia/aetharia/server/store"
)

// Config is layered: defaults, then the TOML file, then environment
// variables, then command-line flags.
type Config struct {
	Port               int          `toml:"port"`
	Seed               int64        `toml:"seed"`
	HeartbeatMs        int          `toml:"heartbeat_ms"`
	Debug              bool         `toml:"debug"`
	MaxConnections     int          `toml:"max_connections"`
	SnapshotIntervalMs int          `toml:"snapshot_interval_ms"`
	Agents             int          `toml:"agents"`
	ChatLogPath        string       `toml:"chat_log"`
	Store              store.Config `toml:"store"`
}

func DefaultConfig() Config {
	return Config{
		Port:               8080,
		Seed:               12345,
		HeartbeatMs:        30000,
		MaxConnections:     256,
		SnapshotIntervalMs: 60000,
		Store:              store.Config{Backend: "none"},
	}
}

// LoadFile merges a TOML file over the receiver. A missing file is
// not an error; an unknown key is.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	decoder := toml.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

// ApplyEnv merges recognized environment variables over the receiver.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("AETHARIA_WORLD_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AETHARIA_WORLD_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("AETHARIA_HEARTBEAT"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AETHARIA_HEARTBEAT: %w", err)
		}
		c.HeartbeatMs = ms
	}
	if v := os.Getenv("AETHARIA_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AETHARIA_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}

// Heartbeat is the pong deadline for idle sessions.
func (c Config) Heartbeat() time.Duration {
	if c.HeartbeatMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

// SnapshotInterval is the cadence of player persistence snapshots.
func (c Config) SnapshotInterval() time.Duration {
	if c.SnapshotIntervalMs <= 0 {
		return time.Minute
	}
	return time.Duration(c.SnapshotIntervalMs) * time.Millisecond
}
