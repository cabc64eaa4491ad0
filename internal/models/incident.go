package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Status - статус жизненного цикла инцидента
type Status string

const (
	StatusTriggered   Status = "triggered"
	StatusAlertsSent  Status = "alerts_sent"
	StatusAlertFailed Status = "alert_failed"
	StatusResolved    Status = "resolved"
)

// Statuses возвращает все известные статусы в порядке жизненного цикла
func Statuses() []Status {
	return []Status{StatusTriggered, StatusAlertsSent, StatusAlertFailed, StatusResolved}
}

// Valid проверяет, что статус входит в известный набор
func (s Status) Valid() bool {
	switch s {
	case StatusTriggered, StatusAlertsSent, StatusAlertFailed, StatusResolved:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода.
// Переходы только вперед: вернуться в triggered нельзя, resolved - конечный статус.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusTriggered:
		return true
	case StatusAlertsSent, StatusAlertFailed:
		return next != StatusTriggered
	}
	return false
}

type Incident struct {
	ID                string         `json:"id"`
	DeviceID          int64          `json:"deviceId"`
	Latitude          float64        `json:"latitude"`
	Longitude         float64        `json:"longitude"`
	BatteryLevel      int            `json:"batteryLevel"`
	SequenceNumber    int64          `json:"sequenceNumber"`
	Timestamp         int64          `json:"timestamp"` // epoch millis
	EmergencyContacts []string       `json:"emergencyContacts"`
	Status            Status         `json:"status"`
	Metadata          map[string]any `json:"metadata"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// LocationURL возвращает ссылку на карту, если известны обе координаты
func (i *Incident) LocationURL() string {
	if i.Latitude == 0 || i.Longitude == 0 {
		return ""
	}
	return "https://maps.google.com/?q=" + strconv.FormatFloat(i.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(i.Longitude, 'f', -1, 64)
}

// MarshalJSON добавляет к инциденту вычисляемое поле locationUrl, которое не хранится
func (i Incident) MarshalJSON() ([]byte, error) {
	type plain Incident
	return json.Marshal(struct {
		plain
		LocationURL string `json:"locationUrl,omitempty"`
	}{plain: plain(i), LocationURL: i.LocationURL()})
}

// EventTime возвращает время события как time.Time
func (i *Incident) EventTime() time.Time {
	return time.UnixMilli(i.Timestamp)
}

// Clone возвращает копию инцидента, не разделяющую контакты и метаданные с оригиналом
func (i *Incident) Clone() *Incident {
	cp := *i
	cp.EmergencyContacts = append([]string(nil), i.EmergencyContacts...)
	cp.Metadata = make(map[string]any, len(i.Metadata))
	for k, v := range i.Metadata {
		cp.Metadata[k] = v
	}
	return &cp
}

// MergeMetadata объединяет patch с метаданными инцидента, при совпадении ключей побеждает patch
func (i *Incident) MergeMetadata(patch map[string]any) {
	if i.Metadata == nil {
		i.Metadata = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		i.Metadata[k] = v
	}
}

// AlertRequest - нормализованный входящий сигнал тревоги от устройства
type AlertRequest struct {
	DeviceID          *int64
	Latitude          float64
	Longitude         float64
	BatteryLevel      *int
	SequenceNumber    int64
	Timestamp         int64
	EmergencyContacts []string
}

// IncidentFilter - фильтры выборки инцидентов, nil означает отсутствие фильтра.
// Все заданные фильтры объединяются через AND.
type IncidentFilter struct {
	Status    *Status
	DeviceID  *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// Match проверяет инцидент по всем заданным фильтрам
func (f IncidentFilter) Match(i *Incident) bool {
	if f.Status != nil && i.Status != *f.Status {
		return false
	}
	if f.DeviceID != nil && i.DeviceID != *f.DeviceID {
		return false
	}
	if f.StartDate != nil && i.Timestamp < f.StartDate.UnixMilli() {
		return false
	}
	if f.EndDate != nil && i.Timestamp > f.EndDate.UnixMilli() {
		return false
	}
	return true
}

// IncidentStats - агрегированная статистика по инцидентам
type IncidentStats struct {
	Total           int            `json:"total"`
	ByStatus        map[Status]int `json:"byStatus"`
	ByDevice        map[int64]int  `json:"byDevice"`
	AvgResponseTime int64          `json:"avgResponseTime"`
}
