package main

import (
	"net/http"
	"os"
	"time"

	"el-triunfo/internal/config"
	"el-triunfo/internal/db"
	"el-triunfo/internal/logging"
	"el-triunfo/internal/server"
)

func main() {
	logger := logging.GetZeroLogger("main", nil)

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		logger.Warn().Err(err).Msg("running without a database")
		conn = nil
	} else {
		if err := db.Migrate(conn); err != nil {
			logger.Fatal().Err(err).Msg("database migration failed")
		}
		sqlDB, err := conn.DB()
		if err != nil {
			logger.Fatal().Err(err).Msg("database handle unavailable")
		}
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, cfg)
	stopReaper := srv.StartPresenceReaper()
	defer stopReaper()

	logger.Info().Str("addr", addr).Msg("el-triunfo server listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
