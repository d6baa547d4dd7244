package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recordkit/recordkit/internal/cli"
	"github.com/recordkit/recordkit/internal/engine"
	"github.com/recordkit/recordkit/internal/security"
	"github.com/recordkit/recordkit/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP read API",
	Long: `Serve the entity read API: record fetches by id and bulk record-access
lookups, backed by the configured database, Redis access store and entity
catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Catalog == "" {
			return fmt.Errorf("no entity catalog configured")
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("no JWT secret configured")
		}

		log, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer log.Sync() //nolint:errcheck

		registry, err := cli.LoadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		server := web.NewServer(web.Config{
			Metadata:       registry,
			Engine:         engine.NewSQLEngine(db),
			Access:         security.NewRedisStore(rdb, cfg.Actor),
			Logger:         log,
			JWTSecret:      cfg.JWTSecret,
			ObjectSecurity: cfg.ObjectSecurity,
			FieldSecurity:  cfg.FieldSecurity,
		})

		color.Green("recordkit listening on %s (%d entities)", cfg.Addr, registry.Count())
		return http.ListenAndServe(cfg.Addr, server)
	},
}
