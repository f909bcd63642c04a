package cmd

import (
	"context"
	"fmt"
	"time"

	"ads-reconciler/core/config"
	"ads-reconciler/core/database"
	"ads-reconciler/core/lock"
	"ads-reconciler/core/logger"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/reconcile"
	"ads-reconciler/core/resolver"
	"ads-reconciler/core/snapshot"
	"ads-reconciler/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// services holds the dependencies shared by the commands.
type services struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	repo   *snapshot.GormRepository

	closers []func() error
}

// bootstrap loads the configuration, builds the logger and connects to the
// snapshot database.
func bootstrap() (*services, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &services{
		cfg:    cfg,
		logger: l,
		db:     db,
		repo:   snapshot.NewGormRepository(db),
	}, nil
}

// queueStore opens the configured manifest queue. The object backend is the
// only one that needs a storage client.
func (s *services) queueStore(ctx context.Context) (queue.Store, error) {
	backends := queue.Backends{DB: s.db, Bucket: s.cfg.Storage.Bucket}
	if s.cfg.Queue.Backend == queue.BackendObject {
		client, err := storage.NewClient(s.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		backends.Storage = client
	}

	store, err := queue.Open(ctx, s.cfg.Queue, backends)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s queue: %w", s.cfg.Queue.Backend, err)
	}
	return store, nil
}

// runner wires a reconciliation runner for the configured account.
func (s *services) runner(ctx context.Context) (*reconcile.Runner, error) {
	if s.cfg.Reconcile.AccountID == "" {
		return nil, fmt.Errorf("reconcile.account_id is not set (RECONCILE_ACCOUNT_ID)")
	}

	store, err := s.queueStore(ctx)
	if err != nil {
		return nil, err
	}

	locker, closeLocker, err := lock.New(s.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass locker: %w", err)
	}
	s.closers = append(s.closers, closeLocker)

	ttl := time.Duration(s.cfg.Reconcile.SnapshotCacheTTLSeconds) * time.Second
	return &reconcile.Runner{
		Store:     store,
		Snapshots: snapshot.NewLoader(s.repo, ttl),
		AccountID: s.cfg.Reconcile.AccountID,
		Locker:    locker,
		Logger:    s.logger,
	}, nil
}

// resolver builds the current state resolver of the configured account.
func (s *services) resolver() *resolver.Resolver {
	return resolver.New(s.repo, s.cfg.Reconcile.AccountID, s.cfg.Reconcile.PageSize)
}

// close releases connections in reverse order of creation.
func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = s.logger.Sync()
}
