// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger owns the process-wide structured logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.Mutex
	log = zap.NewNop()
)

// Init builds the process logger. Call once at startup, before any
// goroutine calls Get. With debug set, the development config logs at
// Debug level; otherwise the production config logs at Info.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// Get returns the process logger. Before Init it is a nop logger, so
// tests stay quiet without setup.
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = Get().Sync()
}
