package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Entry is one manifest_queue row.
type Entry struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
	State     string    `gorm:"column:state;type:varchar(16);index;not null"`
	Manifest  []byte    `gorm:"column:manifest;not null"`
	Sidecar   []byte    `gorm:"column:sidecar"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Entry) TableName() string {
	return "manifest_queue"
}

// DBStore keeps the queue in a single table with a state column.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBStore creates a store backed by db.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

// Migrate creates or updates the manifest_queue table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate manifest_queue: %w", err)
	}
	return nil
}

// List returns the manifests in a state sorted by name.
func (s *DBStore) List(ctx context.Context, state State) ([]Item, error) {
	var rows []Entry
	err := s.db.WithContext(ctx).
		Select("name", "state", "updated_at").
		Where("state = ?", string(state)).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", state, err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{Name: row.Name, State: State(row.State), UpdatedAt: row.UpdatedAt.UTC()})
	}
	return items, nil
}

// Read returns the raw manifest bytes.
func (s *DBStore) Read(ctx context.Context, item Item) ([]byte, error) {
	row, err := s.find(ctx, item, "manifest")
	if err != nil {
		return nil, err
	}
	return row.Manifest, nil
}

// ReadSidecar returns the outcome payload of a terminal item.
func (s *DBStore) ReadSidecar(ctx context.Context, item Item) ([]byte, error) {
	if !item.State.Terminal() {
		return nil, notFound(item.State, item.Name)
	}
	row, err := s.find(ctx, item, "sidecar")
	if err != nil {
		return nil, err
	}
	return row.Sidecar, nil
}

func (s *DBStore) find(ctx context.Context, item Item, column string) (*Entry, error) {
	var row Entry
	err := s.db.WithContext(ctx).
		Select(column).
		Where("name = ? AND state = ?", item.Name, string(item.State)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(item.State, item.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", item.State, item.Name, err)
	}
	return &row, nil
}

// Enqueue inserts a new pending row.
func (s *DBStore) Enqueue(ctx context.Context, name string, data []byte) (Item, error) {
	if err := ValidateName(name); err != nil {
		return Item{}, err
	}

	now := s.now().UTC()
	row := Entry{Name: name, State: string(StatePending), Manifest: data, CreatedAt: now, UpdatedAt: now}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Entry{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s: %w", name, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrExists, name)
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to enqueue %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	return Item{Name: name, State: StatePending, UpdatedAt: now}, nil
}

// Transition moves a pending row to a terminal state with a conditional UPDATE.
// Zero affected rows means another pass won and ErrNotFound is returned.
func (s *DBStore) Transition(ctx context.Context, item Item, to State, sidecar []byte) (Item, error) {
	if err := checkTransition(item, to); err != nil {
		return Item{}, err
	}

	now := s.now().UTC()
	res := s.db.WithContext(ctx).
		Model(&Entry{}).
		Where("name = ? AND state = ?", item.Name, string(StatePending)).
		Updates(map[string]any{
			"state":      string(to),
			"sidecar":    sidecar,
			"updated_at": now,
		})
	if res.Error != nil {
		return Item{}, fmt.Errorf("failed to move %s to %s: %w", item.Name, to, res.Error)
	}
	if res.RowsAffected == 0 {
		return Item{}, notFound(StatePending, item.Name)
	}
	return Item{Name: item.Name, State: to, UpdatedAt: now}, nil
}
