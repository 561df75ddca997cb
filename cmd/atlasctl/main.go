// Command atlasctl runs claim imports, exports and analyses against the
// configured store without going through the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fraatlas/config"
	"fraatlas/database"
	"fraatlas/pkg/ai"
	"fraatlas/pkg/claim/repositoryImp"
	"fraatlas/pkg/claim/service"
	"fraatlas/pkg/claim/serviceImp"
	"fraatlas/pkg/ingest"
	"fraatlas/pkg/logger"
)

// app is what every subcommand needs; built once per invocation. cache is
// opened from the same settings as the server's, so writes here invalidate
// what the API serves.
type app struct {
	cfg   config.AppConfig
	log   *zap.Logger
	db    *gorm.DB
	cache ai.Cache
	rdb   *redis.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogMode)
	if err != nil {
		return nil, err
	}
	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DBDSN
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	cache, rdb, err := ai.OpenCache(cfg.CacheBackend, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db, cache: cache, rdb: rdb}, nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

// claims builds the claim service against the shared store and cache.
func (a *app) claims(policy ingest.CategoryPolicy) service.ClaimService {
	return serviceImp.New(repositoryImp.New(a.db), ingest.NewNormalizer(policy, a.log), a.cache)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "atlasctl",
		Short:         "FRA Atlas claims tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newNormalizeCmd(), newExportCmd(), newAnalyzeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "atlasctl:", err)
		os.Exit(1)
	}
}
