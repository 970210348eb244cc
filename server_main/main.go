// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/playaetharia/aetharia/server"
	"github.com/playaetharia/aetharia/server/logger"
	"github.com/playaetharia/aetharia/server/store"
)

func main() {
	var (
		configPath     string
		port           int
		seed           int64
		agents         int
		maxConnections int
		chatLog        string
		debug          bool
		storeBackend   string
		storePath      string
	)

	flag.StringVar(&configPath, "config", "aetharia.toml", "TOML config file")
	flag.IntVar(&port, "port", 0, "http service port")
	flag.Int64Var(&seed, "seed", 0, "world generation seed")
	flag.IntVar(&agents, "agents", 0, "number of in-process agents")
	flag.IntVar(&maxConnections, "max-connections", 0, "maximum number of inbound TCP connections")
	flag.StringVar(&chatLog, "chat-log", "", "chat audit CSV file")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.StringVar(&storeBackend, "store", "", "persistence backend (none, leveldb, dynamo)")
	flag.StringVar(&storePath, "store-path", "", "leveldb database directory")
	flag.Parse()

	// Defaults, then file, then environment, then flags.
	cfg := server.DefaultConfig()
	if err := cfg.LoadFile(configPath); err != nil {
		log.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = port
		case "seed":
			cfg.Seed = seed
		case "agents":
			cfg.Agents = agents
		case "max-connections":
			cfg.MaxConnections = maxConnections
		case "chat-log":
			cfg.ChatLogPath = chatLog
		case "debug":
			cfg.Debug = debug
		case "store":
			cfg.Store.Backend = storeBackend
		case "store-path":
			cfg.Store.Path = storePath
		}
	})

	if err := logger.Init(cfg.Debug); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	persist, err := store.Open(cfg.Store)
	if err != nil {
		logger.Get().Fatal("open store", zap.Error(err))
	}

	hub := server.NewHub(cfg, persist)

	// Recovery completes before the listener opens.
	if err := hub.Recover(); err != nil {
		logger.Get().Fatal("recovery", zap.Error(err))
	}

	go hub.Run()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Get().Info("shutting down")
		hub.Shutdown()
		logger.Sync()
		os.Exit(0)
	}()

	l, err := net.Listen("tcp", fmt.Sprint(":", cfg.Port))
	if err != nil {
		logger.Get().Fatal("listen", zap.Error(err))
	}
	defer l.Close()

	l = netutil.LimitListener(l, cfg.MaxConnections)

	logger.Get().Info("server started", zap.Int("port", cfg.Port))
	logger.Get().Fatal("serve", zap.Error(http.Serve(l, hub.Router())))
}
