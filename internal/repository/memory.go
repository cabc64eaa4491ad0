package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/shenikar/sos_alert_system/internal/service"
)

// MemoryIncidentRepository хранит инциденты в памяти процесса.
// Наружу отдаются только копии записей.
type MemoryIncidentRepository struct {
	mu        sync.RWMutex
	incidents map[string]*models.Incident
	order     []string // порядок добавления
}

func NewMemoryIncidentRepository() service.IncidentRepository {
	return &MemoryIncidentRepository{
		incidents: make(map[string]*models.Incident),
	}
}

// Create сохраняет копию инцидента
func (r *MemoryIncidentRepository) Create(_ context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.incidents[incident.ID]; exists {
		return fmt.Errorf("incident with id %s already exists", incident.ID)
	}
	r.incidents[incident.ID] = incident.Clone()
	r.order = append(r.order, incident.ID)
	return nil
}

// GetByID возвращает копию инцидента
func (r *MemoryIncidentRepository) GetByID(_ context.Context, id string) (*models.Incident, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incident, ok := r.incidents[id]
	if !ok {
		return nil, false, nil
	}
	return incident.Clone(), true, nil
}

// UpdateStatus проверяет переход и меняет запись под блокировкой записи
func (r *MemoryIncidentRepository) UpdateStatus(_ context.Context, id string, status models.Status, patch map[string]any, updatedAt time.Time) (*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.incidents[id]
	if !ok {
		return nil, &models.NotFoundError{ID: id}
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, &models.TransitionError{ID: id, From: current.Status, To: status}
	}

	updated := current.Clone()
	updated.MergeMetadata(patch)
	updated.Status = status
	updated.UpdatedAt = updatedAt
	r.incidents[id] = updated

	return updated.Clone(), nil
}

// List возвращает отфильтрованные инциденты, новые первыми
func (r *MemoryIncidentRepository) List(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	r.mu.RLock()
	incidents := make([]*models.Incident, 0, len(r.order))
	for _, id := range r.order {
		incident := r.incidents[id]
		if filter.Match(incident) {
			incidents = append(incidents, incident.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].Timestamp > incidents[j].Timestamp
	})
	return incidents, nil
}
