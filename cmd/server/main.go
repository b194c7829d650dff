package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/sakshamg567/sketchguess/config"
	"github.com/sakshamg567/sketchguess/internal/api"
	"github.com/sakshamg567/sketchguess/internal/gateway"
	"github.com/sakshamg567/sketchguess/internal/room"
	"github.com/sakshamg567/sketchguess/logger"
	"github.com/sakshamg567/sketchguess/pkg/utils"
)

func main() {
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.LogJSON)

	words := utils.DefaultWordBank()
	if cfg.WordBankPath != "" {
		wb, err := utils.LoadWordBank(cfg.WordBankPath)
		if err != nil {
			logger.Error("word bank %s: %v", cfg.WordBankPath, err)
			os.Exit(1)
		}
		words = wb
	}
	logger.Info("loaded %d words", words.Len())

	rm := room.NewRoomManager(nil)
	hub := gateway.NewHub()
	coord := room.NewCoordinator(rm, hub, room.Options{
		RotationDelay: cfg.RotationDelay,
		Words:         words,
	})

	opts := gateway.Options{
		PingInterval:   cfg.PingInterval,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		SendBuffer:     cfg.ClientSendBuffer,
		RelayRate:      cfg.RelayRate,
		RelayBurst:     cfg.RelayBurst,
		AllowedOrigins: cfg.CORSOrigins,
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	api.Register(app, rm)
	gateway.NewWebSocket(hub, coord, opts).Register(app)

	var sioServer *http.Server
	var sio *gateway.SocketIO
	if cfg.SocketIOAddr != "" {
		sio = gateway.NewSocketIO(hub, coord, opts)
		go func() {
			if err := sio.Serve(); err != nil {
				logger.Error("socket.io engine: %v", err)
			}
		}()

		mux := http.NewServeMux()
		mux.Handle("/socket.io/", sio.Handler())
		sioServer = &http.Server{Addr: cfg.SocketIOAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("socket.io server %s", cfg.SocketIOAddr)
			if err := sioServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("socket.io server: %v", err)
			}
		}()
	}

	go func() {
		logger.Info("server %s", cfg.ServerAddr)
		if err := app.Listen(cfg.ServerAddr); err != nil {
			logger.Error("server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Warn("server shutdown: %v", err)
	}
	if sioServer != nil {
		if err := sioServer.Shutdown(ctx); err != nil {
			logger.Warn("socket.io shutdown: %v", err)
		}
		if err := sio.Close(); err != nil {
			logger.Warn("socket.io engine close: %v", err)
		}
	}
	coord.Reset()
}
