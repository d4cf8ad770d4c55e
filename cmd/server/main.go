package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/adapter/store/sqlite"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/adapter/transport/tcp"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/app"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/ledger"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/poi"
	"github.com/dayanaadylkhanova/proof-of-inference/pkg/config"
	"github.com/dayanaadylkhanova/proof-of-inference/pkg/logger"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	params := poi.DefaultParams()
	params.EpochDuration = int64(cfg.EpochDuration.Seconds())
	params.InitialDifficulty = cfg.InitialDifficulty

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	ldg, err := ledger.Open(context.Background(), store, params, log)
	if err != nil {
		log.Fatal("open ledger", zap.Error(err))
	}

	srv := tcp.NewServer(log, cfg.ListenAddr, cfg.ConnTimeout, cfg.ShutdownWait, ldg)
	a := app.New(log, srv, ldg, cfg.RotateTick)

	if err := a.Run(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
	}
}
