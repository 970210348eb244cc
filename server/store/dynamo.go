// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"

	"github.com/playaetharia/aetharia/server/world"
)

type (
	// Dynamo is the DynamoDB backend: one table for overrides, one
	// for player snapshots.
	Dynamo struct {
		db        *dynamo.DB
		overrides dynamo.Table
		players   dynamo.Table
	}

	overrideItem struct {
		Pos  string `dynamo:"pos,hash"`
		Tile int    `dynamo:"tile"`
	}

	playerItem struct {
		ID        string       `dynamo:"id,hash"`
		Name      string       `dynamo:"name"`
		Color     string       `dynamo:"color"`
		X         float64      `dynamo:"x"`
		Y         float64      `dynamo:"y"`
		Zone      string       `dynamo:"zone"`
		IsAgent   bool         `dynamo:"isAgent"`
		Inventory []world.Item `dynamo:"inventory,omitempty"`
	}
)

func OpenDynamo(region, tablePrefix string) (*Dynamo, error) {
	if tablePrefix == "" {
		return nil, fmt.Errorf("dynamo backend requires a table prefix")
	}

	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}

	db := dynamo.New(sess)
	return &Dynamo{
		db:        db,
		overrides: db.Table(tablePrefix + "-overrides"),
		players:   db.Table(tablePrefix + "-players"),
	}, nil
}

func (d *Dynamo) LoadOverrides() (map[world.TilePos]world.Tile, error) {
	overrides := make(map[world.TilePos]world.Tile)

	iter := d.overrides.Scan().Iter()
	for {
		var item overrideItem
		if !iter.Next(&item) {
			break
		}
		pos, err := parseTileKey(item.Pos)
		if err != nil {
			return nil, err
		}
		if !world.ValidTile(item.Tile) {
			return nil, fmt.Errorf("override %v: tile %d out of range", pos, item.Tile)
		}
		overrides[pos] = world.Tile(item.Tile)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan overrides: %w", err)
	}
	return overrides, nil
}

func (d *Dynamo) SaveOverride(x, y int, t world.Tile) error {
	return d.overrides.Put(overrideItem{Pos: tileKey(x, y), Tile: int(t)}).Run()
}

func (d *Dynamo) LoadPlayers() ([]world.PlayerSnapshot, error) {
	var snaps []world.PlayerSnapshot

	iter := d.players.Scan().Iter()
	for {
		var item playerItem
		if !iter.Next(&item) {
			break
		}
		snaps = append(snaps, world.PlayerSnapshot{
			ID:        world.SessionID(item.ID),
			Name:      item.Name,
			Color:     item.Color,
			X:         float32(item.X),
			Y:         float32(item.Y),
			Zone:      world.ZoneID(item.Zone),
			IsAgent:   item.IsAgent,
			Inventory: item.Inventory,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	return snaps, nil
}

func (d *Dynamo) SavePlayers(snaps []world.PlayerSnapshot) error {
	for _, snap := range snaps {
		item := playerItem{
			ID:        string(snap.ID),
			Name:      snap.Name,
			Color:     snap.Color,
			X:         float64(snap.X),
			Y:         float64(snap.Y),
			Zone:      string(snap.Zone),
			IsAgent:   snap.IsAgent,
			Inventory: snap.Inventory,
		}
		if err := d.players.Put(item).Run(); err != nil {
			return fmt.Errorf("put player %v: %w", snap.ID, err)
		}
	}
	return nil
}

func (d *Dynamo) Close() error {
	return nil
}
