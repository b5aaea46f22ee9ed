package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"nftswap/config"
	"nftswap/core"
	"nftswap/core/events"
	"nftswap/observability/logging"
	"nftswap/rpc"
	"nftswap/storage"
)

const (
	envToken = "NFTSWAP_RPC_TOKEN"
	envEnv   = "NFTSWAP_ENV"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	rpcAddr := flag.String("rpc", "", "JSON-RPC listen address (overrides config)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv(envEnv))

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Setup("nftswapd", env).Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.SetupWithFile("nftswapd", env, cfg.LogFile)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.String("path", cfg.DataDir), slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	node := core.NewNode(db, logger)
	node.SetMinimumReserve(cfg.MinimumReserve)
	node.SetMaxDeposit(cfg.MaxDeposit)
	node.SetEventSink(events.NewRecorder(db, logger))

	token := strings.TrimSpace(os.Getenv(envToken))
	if token == "" {
		token = strings.TrimSpace(cfg.RPCToken)
	}
	if token == "" {
		logger.Warn("no RPC token configured; operator methods disabled")
	}

	addr := cfg.RPCAddress
	if strings.TrimSpace(*rpcAddr) != "" {
		addr = *rpcAddr
	}

	logger.Info("starting nftswapd",
		slog.String("network", cfg.NetworkName),
		slog.String("rpc", addr),
		slog.String("data_dir", cfg.DataDir))

	server := rpc.NewServer(node, token, logger)
	if err := server.Start(addr); err != nil {
		logger.Error("rpc server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
