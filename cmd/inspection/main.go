package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"equipinspect/internal/config"
	"equipinspect/internal/database"
	"equipinspect/internal/logger"
	"equipinspect/internal/pkg/cache"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/server"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "inspection",
	Short:         "Equipment inspection log service",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version + " (" + BuildTime + ")",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ./configs/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(loadChecklistCmd)
	rootCmd.AddCommand(createAccountCmd)
	rootCmd.AddCommand(createTokensCmd)
	rootCmd.AddCommand(cleanupTokensCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand works with.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
	app *server.App

	closers []func()
}

func (r *env) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.log.Sync()
}

// setup loads config, opens the database and builds the services. Files and
// the token cache are only connected when withServices is set.
func setup(ctx context.Context, withServices bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	rt := &env{cfg: cfg, log: log}

	db, err := database.Connect(cfg.Database.URL, database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogQueries:      cfg.Database.LogQueries,
	}, log)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rt.db = db
	rt.closers = append(rt.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if !withServices {
		return rt, nil
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var tokenCache cache.TokenCache
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, token cache disabled", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
			_ = rdb.Close()
		} else {
			tokenCache = cache.NewRedis(rdb)
			rt.closers = append(rt.closers, func() { _ = rdb.Close() })
		}
	}

	rt.app = server.New(server.Deps{Config: cfg, DB: db, Storage: store, Cache: tokenCache, Log: log})
	return rt, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMinIO:
		publicURL := cfg.Storage.URLBase
		if !strings.HasPrefix(publicURL, "http://") && !strings.HasPrefix(publicURL, "https://") {
			publicURL = ""
		}
		store, err := storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: publicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("open minio storage: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.URLBase)
		if err != nil {
			return nil, fmt.Errorf("open local storage: %w", err)
		}
		return store, nil
	}
}
