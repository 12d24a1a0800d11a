package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/authstate"
	"taskdeck/internal/config"
	"taskdeck/internal/localstore"
	"taskdeck/internal/logging"
	"taskdeck/internal/tui"
)

func main() {
	var (
		configPath string
		baseURL    string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.StringVar(&baseURL, "api", "", "Backend base URL override")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}

	log, err := logging.New(cfg.Storage.LogPath(), cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logging failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	kv, err := localstore.NewSQLiteStore(cfg.Storage.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init local storage failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = kv.Close() }()

	sessions := authstate.New(kv, log)
	sessions.Initialize()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), sessions, log)

	log.Info("starting",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("restored_session", sessions.Current().IsAuthenticated),
	)

	if err := tui.Run(client, sessions, log); err != nil {
		log.Error("tui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "taskdeck: %v\n", err)
		os.Exit(1)
	}
}
