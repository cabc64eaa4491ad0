package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/shenikar/sos_alert_system/internal/service"
)

const incidentColumns = `
	id,
	device_id,
	latitude,
	longitude,
	battery_level,
	sequence_number,
	event_timestamp,
	emergency_contacts,
	status,
	metadata,
	created_at,
	updated_at`

// setIfNewerScript записывает инцидент в кеш, только если в кеше нет более новой версии.
// KEYS[1] - ключ, ARGV[1] - версия (updated_at в микросекундах), ARGV[2] - JSON, ARGV[3] - TTL в мс.
var setIfNewerScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
else
	redis.call('PERSIST', KEYS[1])
end
return 1
`)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewIncidentRepository создает репозиторий PostgreSQL.
// redisClient может быть nil, тогда кеш инцидентов не используется.
func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (` + incidentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	metadata := incident.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	_, err := r.db.Exec(ctx, query,
		incident.ID,
		incident.DeviceID,
		incident.Latitude,
		incident.Longitude,
		incident.BatteryLevel,
		incident.SequenceNumber,
		incident.Timestamp,
		incident.EmergencyContacts,
		string(incident.Status),
		metadata,
		incident.CreatedAt,
		incident.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его ID, сначала из кеша
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, bool, error) {
	if cached, err := r.getIncidentFromCache(ctx, id); err == nil && cached != nil {
		return cached, true, nil
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get incident by id: %w", err)
	}

	// ошибка кеша не должна ломать чтение
	_ = r.setIncidentCache(ctx, incident)
	return incident, true, nil
}

// UpdateStatus блокирует строку, проверяет переход и объединяет метаданные через jsonb ||
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id string, status models.Status, patch map[string]any, updatedAt time.Time) (*models.Incident, error) {
	if patch == nil {
		patch = map[string]any{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1 FOR UPDATE;`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &models.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to lock incident: %w", err)
	}
	if !models.Status(current).CanTransitionTo(status) {
		return nil, &models.TransitionError{ID: id, From: models.Status(current), To: status}
	}

	query := `
		UPDATE incidents SET
			status = $2,
			metadata = metadata || $3::jsonb,
			updated_at = $4
		WHERE id = $1
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(tx.QueryRow(ctx, query, id, string(status), patch, updatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to update incident: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit incident update: %w", err)
	}

	// Пишем свежую версию поверх кеша, чтобы запоздавшее чтение не вернуло старую строку
	if err := r.setIncidentCache(ctx, incident); err != nil {
		_ = r.invalidateIncidentCache(ctx, id)
	}
	return incident, nil
}

// List возвращает инциденты по фильтрам, новые первыми, при равенстве - в порядке вставки
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DeviceID != nil {
		args = append(args, *filter.DeviceID)
		conds = append(conds, fmt.Sprintf("device_id = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, filter.StartDate.UnixMilli())
		conds = append(conds, fmt.Sprintf("event_timestamp >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, filter.EndDate.UnixMilli())
		conds = append(conds, fmt.Sprintf("event_timestamp <= $%d", len(args)))
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY event_timestamp DESC, seq ASC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var status string
	err := row.Scan(
		&incident.ID,
		&incident.DeviceID,
		&incident.Latitude,
		&incident.Longitude,
		&incident.BatteryLevel,
		&incident.SequenceNumber,
		&incident.Timestamp,
		&incident.EmergencyContacts,
		&status,
		&incident.Metadata,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	incident.Status = models.Status(status)
	if incident.Metadata == nil {
		incident.Metadata = map[string]any{}
	}
	return incident, nil
}

func incidentCacheKey(id string) string {
	return fmt.Sprintf("incident:%s", id)
}

// getIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) getIncidentFromCache(ctx context.Context, id string) (*models.Incident, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	val, err := r.redisClient.HGet(ctx, incidentCacheKey(id), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// setIncidentCache сохраняет инцидент в Redis, не затирая более новую версию
func (r *IncidentRepository) setIncidentCache(ctx context.Context, incident *models.Incident) error {
	if r.redisClient == nil {
		return nil
	}
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	err = setIfNewerScript.Run(ctx, r.redisClient,
		[]string{incidentCacheKey(incident.ID)},
		incident.UpdatedAt.UnixMicro(), val, r.cacheTTL.Milliseconds(),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// invalidateIncidentCache удаляет инцидент из Redis кеша
func (r *IncidentRepository) invalidateIncidentCache(ctx context.Context, id string) error {
	if r.redisClient == nil {
		return nil
	}
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
