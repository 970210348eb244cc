// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/util"
	jsoniter "github.com/json-iterator/go"

	"github.com/playaetharia/aetharia/server/world"
)

// Key prefixes in the local database. Overrides are one byte per
// coordinate; player snapshots are JSON blobs keyed by session id.
const (
	overridePrefix = "o:"
	playerPrefix   = "p:"
)

var levelJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// LevelDB is the local file-database backend.
type LevelDB struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (*LevelDB, error) {
	if path == "" {
		return nil, fmt.Errorf("leveldb backend requires a path")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %q: %w", path, err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) LoadOverrides() (map[world.TilePos]world.Tile, error) {
	overrides := make(map[world.TilePos]world.Tile)

	iter := l.db.NewIterator(util.BytesPrefix([]byte(overridePrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		pos, err := parseTileKey(string(iter.Key()[len(overridePrefix):]))
		if err != nil {
			return nil, err
		}
		value := iter.Value()
		if len(value) != 1 {
			return nil, fmt.Errorf("override %v: malformed value", pos)
		}
		overrides[pos] = world.Tile(value[0])
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("scan overrides: %w", err)
	}
	return overrides, nil
}

func (l *LevelDB) SaveOverride(x, y int, t world.Tile) error {
	key := append([]byte(overridePrefix), tileKey(x, y)...)
	return l.db.Put(key, []byte{byte(t)}, nil)
}

func (l *LevelDB) LoadPlayers() ([]world.PlayerSnapshot, error) {
	var snaps []world.PlayerSnapshot

	iter := l.db.NewIterator(util.BytesPrefix([]byte(playerPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		var snap world.PlayerSnapshot
		if err := levelJSON.Unmarshal(iter.Value(), &snap); err != nil {
			return nil, fmt.Errorf("decode player %q: %w", iter.Key(), err)
		}
		snaps = append(snaps, snap)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	return snaps, nil
}

// SavePlayers replaces the previous snapshot wholesale so departed
// players don't linger.
func (l *LevelDB) SavePlayers(snaps []world.PlayerSnapshot) error {
	batch := new(leveldb.Batch)

	iter := l.db.NewIterator(util.BytesPrefix([]byte(playerPrefix)), nil)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("scan players: %w", err)
	}

	for _, snap := range snaps {
		value, err := levelJSON.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode player %v: %w", snap.ID, err)
		}
		batch.Put(append([]byte(playerPrefix), snap.ID...), value)
	}

	return l.db.Write(batch, nil)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
