package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/leca/fw-gallery/internal/config"
	"github.com/leca/fw-gallery/internal/database"
	"github.com/leca/fw-gallery/internal/logger"
	"github.com/leca/fw-gallery/internal/router"
	"github.com/leca/fw-gallery/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Env)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create database directory")
		}
	}

	db, err := database.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	store := storage.NewFileSystem(cfg.StaticRoot)

	srv := router.New(db, store, cfg)

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
