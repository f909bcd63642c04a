package queue

import (
	"context"
	"testing"
	"time"

	"ads-reconciler/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDBStore(t *testing.T) *DBStore {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewDBStore(db)
}

func TestDBStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return newTestDBStore(t) })
}

func TestDBStore_TransitionIsConditional(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	s := NewDBStore(db)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	t.Run("Lost Race", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `manifest_queue` SET .* WHERE name = \\? AND state = \\?").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "r1.json", "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		_, err := s.Transition(context.Background(), Item{Name: "r1.json", State: StatePending}, StateReconciled, []byte(`{}`))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Winner", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `manifest_queue` SET .* WHERE name = \\? AND state = \\?").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "r2.json", "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		moved, err := s.Transition(context.Background(), Item{Name: "r2.json", State: StatePending}, StateFailed, []byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, StateFailed, moved.State)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
