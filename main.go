package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatrelaygo/internal/config"
	"chatrelaygo/internal/http/http_server"
	"chatrelaygo/internal/redis/redis_client"
	"chatrelaygo/internal/services/chatroom"
	"chatrelaygo/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Room registry (+ optional empty-room reaper)
	registry := chatroom.NewRegistry()

	// 3. Relay hub
	hub := ws.NewHub()

	// 4. Optional cross-instance fan-out through Redis
	if cfg.RedisEnabled {
		rdc, err := redis_client.New(cfg.RedisHost, cfg.RedisPort)
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer rdc.Close()
		hub.AttachBridge(ws.NewRedisBridge(ctx, rdc, hub))
		Log.Debug("Redis fan-out bridge attached")
	}

	registry.RunReaper(ctx, cfg.RoomGCInterval, hub.RoomEmpty)

	// 5. WS server (session state machine + relay)
	wsSrv := ws.NewWsServer(cfg, hub, registry)

	// 6. HTTP control API + WS upgrade endpoint
	httpServer := http_server.NewHttpServer(ctx, cfg, wsSrv, registry)

	// 7. Drain on the first signal; a second signal exits immediately.
	drainer := ws.NewDrainer(hub)
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		go func() {
			<-sig
			Log.Warn("Immediate shutdown")
			os.Exit(1)
		}()
		Log.Info("Draining: notifying sessions before restart",
			zap.Duration("grace", cfg.DrainGrace))
		drainer.Drain()
		if err := httpServer.Dispose(); err != nil {
			os.Exit(1)
		}
	}()

	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	Log.Info("Server drained and stopped")
}
