package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ads-reconciler/core/database"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, snapshot.Migrate(db))

	store, err := queue.NewFileStore(t.TempDir())
	require.NoError(t, err)

	models := append(snapshot.Models(), &queue.Entry{})
	svc := NewService(db, models, store, snapshot.NewGormRepository(db), "acct-1", zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC) }

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := get(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, false, body["matched"])

	status, body = get(t, app, "/integrity/schema?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])

	status, body = get(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandleQueueCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := get(t, app, "/integrity/queue")
	assert.Equal(t, 200, status)
	assert.Equal(t, map[string]any{"pending": 0.0, "reconciled": 0.0, "failed": 0.0}, body["counts"])
}

func TestHandleSnapshotCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := get(t, app, "/integrity/snapshot")
	assert.Equal(t, 200, status)
	assert.Equal(t, false, body["published"])
	assert.Equal(t, "acct-1", body["account_id"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := get(t, app, "/integrity")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "schema")
	assert.Contains(t, body, "queue")
	assert.Contains(t, body, "snapshot")
}

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, nil, nil, nil, "", zap.NewNop())
	assert.Equal(t, "integrity", feature.Name())
	assert.False(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
