package builder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/provek/interview-sim/internal/config"
	"github.com/provek/interview-sim/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// setupStorage creates the session store selected by STORAGE_DRIVER.
func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		return storage.NewMemoryStore(), nil

	case config.StorageDriverFile:
		return storage.NewFileStore(cfg.StorageDir, logger)

	case config.StorageDriverPostgres:
		db, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		return storage.NewPostgresStore(db, logger), nil

	case config.StorageDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisStore(client, logger), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// setupDatabase creates a new database connection pool
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		zap.Duration("max_conn_idle_time", poolConfig.MaxConnIdleTime),
		zap.Duration("health_check_period", poolConfig.HealthCheckPeriod),
	)

	return pool, nil
}
