package integrity

import (
	"context"
	"time"

	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"
	"ads-reconciler/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db        *gorm.DB
	models    []any
	store     queue.Store
	repo      snapshot.Repository
	accountID string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new integrity service. models are the tables the
// schema check compares.
func NewService(db *gorm.DB, models []any, store queue.Store, repo snapshot.Repository, accountID string, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		models:    models,
		store:     store,
		repo:      repo,
		accountID: accountID,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckSchema reports missing tables and columns.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// FixSchema migrates the missing tables and columns.
func (s *Service) FixSchema() error {
	return checks.FixSchema(s.db, s.models...)
}

// CheckQueue counts manifests and looks for missing sidecars.
func (s *Service) CheckQueue(ctx context.Context) (*checks.QueueReport, error) {
	return checks.CheckQueue(ctx, s.store)
}

// CheckSnapshot reports the latest published snapshot.
func (s *Service) CheckSnapshot(ctx context.Context) (*checks.SnapshotReport, error) {
	return checks.CheckSnapshot(ctx, s.repo, s.accountID, s.now())
}
