package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/shenikar/sos_alert_system/pkg/postgres"
	redisclient "github.com/shenikar/sos_alert_system/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool поднимает схему через миграции и очищает таблицу инцидентов.
// Тест пропускается без TEST_DATABASE_URL.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	migrationURL := strings.Replace(dsn, "postgres://", "pgx5://", 1)
	migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	m, err := migrate.New("file://../../migrations", migrationURL)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	_, _ = m.Close()

	ctx := context.Background()
	pool, err := postgres.NewPostgresDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE incidents RESTART IDENTITY;`)
	require.NoError(t, err)
	return pool
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	client, err := redisclient.NewRedisClient(context.Background(), redisclient.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func pgIncident(id string, deviceID, ts int64) *models.Incident {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Incident{
		ID:                id,
		DeviceID:          deviceID,
		Latitude:          12.9716,
		Longitude:         77.5946,
		BatteryLevel:      80,
		Timestamp:         ts,
		EmergencyContacts: []string{"+919876543210", "+14155550100"},
		Status:            models.StatusTriggered,
		Metadata:          map[string]any{"source": "lora"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestIncidentRepository_CreateAndGet(t *testing.T) {
	repo := NewIncidentRepository(newTestPool(t), nil, 0)
	ctx := context.Background()

	want := pgIncident("01HXPG0000000000000000000A", 7, 1700000000000)
	require.NoError(t, repo.Create(ctx, want))
	assert.Error(t, repo.Create(ctx, want), "duplicate id must be rejected")

	got, ok, err := repo.GetByID(ctx, want.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.EmergencyContacts, got.EmergencyContacts)
	assert.Equal(t, "lora", got.Metadata["source"])
	assert.Equal(t, models.StatusTriggered, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	_, ok, err = repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncidentRepository_UpdateStatusMergesMetadata(t *testing.T) {
	repo := NewIncidentRepository(newTestPool(t), nil, 0)
	ctx := context.Background()

	incident := pgIncident("01HXPG0000000000000000000B", 7, 1700000000000)
	require.NoError(t, repo.Create(ctx, incident))

	updatedAt := incident.UpdatedAt.Add(time.Second)
	got, err := repo.UpdateStatus(ctx, incident.ID, models.StatusAlertsSent, map[string]any{"smsSent": 2, "provider": "msg91"}, updatedAt)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAlertsSent, got.Status)
	assert.Equal(t, "lora", got.Metadata["source"])
	assert.EqualValues(t, 2, got.Metadata["smsSent"])
	assert.Equal(t, "msg91", got.Metadata["provider"])
	assert.True(t, updatedAt.Equal(got.UpdatedAt))

	got, err = repo.UpdateStatus(ctx, incident.ID, models.StatusResolved, map[string]any{"provider": "exotel"}, updatedAt.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "exotel", got.Metadata["provider"])
	assert.EqualValues(t, 2, got.Metadata["smsSent"])

	_, err = repo.UpdateStatus(ctx, incident.ID, models.StatusAlertsSent, nil, time.Now())
	var trErr *models.TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, models.StatusResolved, trErr.From)

	_, err = repo.UpdateStatus(ctx, "missing", models.StatusResolved, nil, time.Now())
	var nfErr *models.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestIncidentRepository_ListOrderAndFilters(t *testing.T) {
	repo := NewIncidentRepository(newTestPool(t), nil, 0)
	ctx := context.Background()

	// Три события с одинаковым временем и одно более новое
	ids := []string{"01HXPG000000000000000000C1", "01HXPG000000000000000000C2", "01HXPG000000000000000000C3"}
	for i, id := range ids {
		require.NoError(t, repo.Create(ctx, pgIncident(id, int64(10+i%2), 1700000000000)))
	}
	newest := pgIncident("01HXPG000000000000000000C4", 10, 1700000500000)
	require.NoError(t, repo.Create(ctx, newest))
	_, err := repo.UpdateStatus(ctx, ids[1], models.StatusAlertFailed, nil, time.Now())
	require.NoError(t, err)

	all, err := repo.List(ctx, models.IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{newest.ID, ids[0], ids[1], ids[2]}, incidentIDs(all))

	device := int64(10)
	byDevice, err := repo.List(ctx, models.IncidentFilter{DeviceID: &device})
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, ids[0], ids[2]}, incidentIDs(byDevice))

	failed := models.StatusAlertFailed
	byStatus, err := repo.List(ctx, models.IncidentFilter{Status: &failed})
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1]}, incidentIDs(byStatus))

	start := time.UnixMilli(1700000100000)
	recent, err := repo.List(ctx, models.IncidentFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID}, incidentIDs(recent))

	end := time.UnixMilli(1700000000000)
	older, err := repo.List(ctx, models.IncidentFilter{DeviceID: &device, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[2]}, incidentIDs(older))
}

func TestIncidentRepository_CacheIsRefreshedOnUpdate(t *testing.T) {
	client := newTestRedis(t)
	repo := NewIncidentRepository(newTestPool(t), client, time.Minute)
	ctx := context.Background()

	incident := pgIncident("01HXPG0000000000000000000D", 3, 1700000000000)
	require.NoError(t, repo.Create(ctx, incident))
	t.Cleanup(func() { client.Del(context.Background(), incidentCacheKey(incident.ID)) })

	// Чтение кладет строку в кеш
	_, ok, err := repo.GetByID(ctx, incident.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = repo.UpdateStatus(ctx, incident.ID, models.StatusAlertsSent, map[string]any{"smsSent": 1}, incident.UpdatedAt.Add(time.Second))
	require.NoError(t, err)

	got, ok, err := repo.GetByID(ctx, incident.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.StatusAlertsSent, got.Status)
}

func TestIncidentCache_OlderVersionDoesNotOverwrite(t *testing.T) {
	client := newTestRedis(t)
	repo := &IncidentRepository{redisClient: client, cacheTTL: time.Minute}
	ctx := context.Background()

	stale := pgIncident("01HXCACHE00000000000000001", 5, 1700000000000)
	fresh := stale.Clone()
	fresh.Status = models.StatusResolved
	fresh.UpdatedAt = stale.UpdatedAt.Add(time.Second)
	t.Cleanup(func() { client.Del(context.Background(), incidentCacheKey(stale.ID)) })

	// Обновление записало свежую версию, затем запоздавшее чтение пытается положить старую
	require.NoError(t, repo.setIncidentCache(ctx, fresh))
	require.NoError(t, repo.setIncidentCache(ctx, stale))

	got, err := repo.getIncidentFromCache(ctx, stale.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusResolved, got.Status)

	ttl, err := client.PTTL(ctx, incidentCacheKey(stale.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func incidentIDs(incidents []*models.Incident) []string {
	ids := make([]string, 0, len(incidents))
	for _, i := range incidents {
		ids = append(ids, i.ID)
	}
	return ids
}
