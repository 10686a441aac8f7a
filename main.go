package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/playword/wordbomb/config"
	"github.com/playword/wordbomb/game"
	"github.com/playword/wordbomb/logger"
	"github.com/playword/wordbomb/monitor"
	"github.com/playword/wordbomb/server"
	"github.com/playword/wordbomb/words"
)

func main() {
	// A local .env is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// The dictionary is the one hard dependency: refuse to serve without
	// it or with a word list too thin to cover every prefix length.
	index, err := words.Load(cfg.Dictionary.Path)
	if err != nil {
		logger.Log.Fatalf("Failed to load dictionary: %v", err)
	}
	if err := index.CheckPrefixCoverage(); err != nil {
		logger.Log.Fatalf("Dictionary unusable: %v", err)
	}
	logger.Log.Infof("Dictionary loaded: %d words", index.Len())

	mon := monitor.NewMonitor("wordbomb")
	mon.StartServer(cfg.Server.MetricsAddress)

	gameServer, err := server.NewGameServer(server.Options{
		HTTPAddress:  cfg.Server.HTTPAddress,
		RPCAddress:   cfg.Server.RPCAddress,
		Token:        cfg.Server.Token,
		LobbyTimeout: cfg.Game.LobbyTimeoutDuration(),
		Index:        index,
		Monitor:      mon,
		Timing:       game.DefaultTiming(),
	})
	if err != nil {
		logger.Log.Fatalf("Failed to create game server: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info("Shutting down...")
		gameServer.Shutdown()
	}()

	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Infof("Server stopped: %v", err)
	}
}
