package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusTriggered, StatusAlertsSent, true},
		{StatusTriggered, StatusAlertFailed, true},
		{StatusTriggered, StatusResolved, true},
		{StatusTriggered, StatusTriggered, true},
		{StatusAlertsSent, StatusResolved, true},
		{StatusAlertFailed, StatusResolved, true},
		{StatusAlertFailed, StatusAlertsSent, true},
		{StatusAlertsSent, StatusTriggered, false},
		{StatusAlertFailed, StatusTriggered, false},
		{StatusResolved, StatusTriggered, false},
		{StatusResolved, StatusAlertsSent, false},
		{StatusResolved, StatusResolved, true},
		{StatusTriggered, Status("escalated"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIncident_LocationURL(t *testing.T) {
	inc := &Incident{Latitude: 12.9716, Longitude: 77.5946}
	assert.Equal(t, "https://maps.google.com/?q=12.9716,77.5946", inc.LocationURL())

	inc.Longitude = 0
	assert.Empty(t, inc.LocationURL())
}

func TestIncident_MarshalJSON_IncludesLocationURL(t *testing.T) {
	inc := Incident{ID: "01HZ", DeviceID: 7, Latitude: 1.5, Longitude: 2.25, Status: StatusTriggered}

	data, err := json.Marshal(inc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "https://maps.google.com/?q=1.5,2.25", got["locationUrl"])
	assert.Equal(t, "01HZ", got["id"])
	assert.Equal(t, "triggered", got["status"])

	data, err = json.Marshal(&Incident{ID: "01HY"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "locationUrl")
}

func TestIncident_MergeMetadata(t *testing.T) {
	inc := &Incident{}
	inc.MergeMetadata(map[string]any{"a": 1})
	inc.MergeMetadata(map[string]any{"b": 2})
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, inc.Metadata)

	inc.MergeMetadata(map[string]any{"a": 3})
	assert.Equal(t, map[string]any{"a": 3, "b": 2}, inc.Metadata)
}

func TestIncident_CloneDoesNotShare(t *testing.T) {
	inc := &Incident{EmergencyContacts: []string{"1"}, Metadata: map[string]any{"k": "v"}}
	cp := inc.Clone()
	cp.EmergencyContacts[0] = "2"
	cp.Metadata["k"] = "changed"

	assert.Equal(t, "1", inc.EmergencyContacts[0])
	assert.Equal(t, "v", inc.Metadata["k"])
}

func TestIncidentFilter_Match(t *testing.T) {
	ts := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	inc := &Incident{DeviceID: 5, Status: StatusAlertsSent, Timestamp: ts.UnixMilli()}

	sent := StatusAlertsSent
	failed := StatusAlertFailed
	dev := int64(5)
	otherDev := int64(6)
	before := ts.Add(-time.Hour)
	after := ts.Add(time.Hour)

	assert.True(t, IncidentFilter{}.Match(inc))
	assert.True(t, IncidentFilter{Status: &sent, DeviceID: &dev, StartDate: &before, EndDate: &after}.Match(inc))
	assert.False(t, IncidentFilter{Status: &failed}.Match(inc))
	assert.False(t, IncidentFilter{DeviceID: &otherDev}.Match(inc))
	assert.False(t, IncidentFilter{StartDate: &after}.Match(inc))
	assert.False(t, IncidentFilter{EndDate: &before}.Match(inc))
}

func TestAlertOutcome_Counts(t *testing.T) {
	o := &AlertOutcome{
		SMS:   []DispatchResult{{Success: true}, {Success: false}},
		Calls: []DispatchResult{{Success: true, Simulated: true}, {Success: false}},
	}
	assert.Equal(t, 2, o.SuccessCount())
	assert.Equal(t, 2, o.FailureCount())
	assert.True(t, o.Simulated())
}
