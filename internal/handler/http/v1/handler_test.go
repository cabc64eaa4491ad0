package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/shenikar/sos_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var authHeader = map[string]string{"X-API-Key": "test-api-key"}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, *mocks.MockAlertService, *mocks.MockIncidentService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	alertMock := mocks.NewMockAlertService(ctrl)
	incidentMock := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(alertMock, incidentMock, ProviderInfo{Active: "msg91"}, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, alertMock, incidentMock, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testIncident(id string, status models.Status) *models.Incident {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Incident{
		ID:                id,
		DeviceID:          4096,
		Latitude:          12.9716,
		Longitude:         77.5946,
		BatteryLevel:      100,
		Timestamp:         now.UnixMilli(),
		EmergencyContacts: []string{"9876543210"},
		Status:            status,
		Metadata:          map[string]any{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestCreateAlert_Success(t *testing.T) {
	_, alertMock, _, router := newTestHandler(t)
	expected := testIncident("01HXALERT", models.StatusTriggered)

	alertMock.EXPECT().
		TriggerAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.AlertRequest) (*models.Incident, error) {
			require.NotNil(t, req.DeviceID)
			assert.Equal(t, int64(4096), *req.DeviceID)
			assert.Nil(t, req.BatteryLevel)
			assert.Equal(t, []string{"9876543210"}, req.EmergencyContacts)
			return expected, nil
		}).Times(1)

	body := `{"deviceId": 4096, "latitude": 12.9716, "longitude": 77.5946, "emergencyContacts": ["9876543210"]}`
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBufferString(body), authHeader)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp CreateAlertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "01HXALERT", resp.IncidentID)
	require.NotNil(t, resp.Incident)
	assert.Equal(t, "triggered", resp.Incident.Status)
	assert.Equal(t, "https://maps.google.com/?q=12.9716,77.5946", resp.Incident.LocationURL)
}

func TestCreateAlert_InvalidJSON(t *testing.T) {
	_, alertMock, _, router := newTestHandler(t)

	alertMock.EXPECT().TriggerAlert(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBufferString(`{"deviceId": 1`), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateAlert_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "missing device id", body: `{"emergencyContacts": ["1"]}`},
		{name: "empty contacts", body: `{"deviceId": 1, "emergencyContacts": []}`},
		{name: "missing contacts", body: `{"deviceId": 1}`},
		{name: "battery out of range", body: `{"deviceId": 1, "batteryLevel": 150, "emergencyContacts": ["1"]}`},
		{name: "latitude out of range", body: `{"deviceId": 1, "latitude": 95, "emergencyContacts": ["1"]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, alertMock, _, router := newTestHandler(t)
			alertMock.EXPECT().TriggerAlert(gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBufferString(tc.body), authHeader)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateAlert_ZeroBatteryIsAccepted(t *testing.T) {
	_, alertMock, _, router := newTestHandler(t)

	alertMock.EXPECT().
		TriggerAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.AlertRequest) (*models.Incident, error) {
			require.NotNil(t, req.BatteryLevel)
			assert.Equal(t, 0, *req.BatteryLevel)
			return testIncident("a", models.StatusTriggered), nil
		})

	body := `{"deviceId": 1, "batteryLevel": 0, "emergencyContacts": ["1"]}`
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBufferString(body), authHeader)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateAlert_ServiceError(t *testing.T) {
	_, alertMock, _, router := newTestHandler(t)
	alertMock.EXPECT().TriggerAlert(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	body := `{"deviceId": 1, "emergencyContacts": ["1"]}`
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBufferString(body), authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCreateAlert_Unauthorized(t *testing.T) {
	_, alertMock, _, router := newTestHandler(t)
	alertMock.EXPECT().TriggerAlert(gomock.Any(), gomock.Any()).Times(0)

	body := `{"deviceId": 1, "emergencyContacts": ["1"]}`
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBufferString(body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetIncident_Success(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incident := testIncident("01HX", models.StatusAlertsSent)
	incident.Metadata["provider"] = "msg91"

	incidentMock.EXPECT().GetIncident(gomock.Any(), "01HX").Return(incident, true, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/01HX", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "01HX", resp.ID)
	assert.Equal(t, "alerts_sent", resp.Status)
	assert.Equal(t, "msg91", resp.Metadata["provider"])
}

func TestGetIncident_NotFound(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().GetIncident(gomock.Any(), "missing").Return(nil, false, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/missing", nil, authHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "incident not found")
}

func TestGetIncident_ServiceError(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().GetIncident(gomock.Any(), "x").Return(nil, false, errors.New("db down"))

	w := makeRequest(router, "GET", "/api/v1/incidents/x", nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListIncidents_WithFilters(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)

	incidentMock.EXPECT().
		ListIncidents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
			require.NotNil(t, filter.Status)
			assert.Equal(t, models.StatusAlertFailed, *filter.Status)
			require.NotNil(t, filter.DeviceID)
			assert.Equal(t, int64(7), *filter.DeviceID)
			require.NotNil(t, filter.StartDate)
			assert.Equal(t, int64(1700000000000), filter.StartDate.UnixMilli())
			require.NotNil(t, filter.EndDate)
			assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli(), filter.EndDate.UnixMilli())
			return []*models.Incident{testIncident("a", models.StatusAlertFailed)}, nil
		})

	url := "/api/v1/incidents?status=alert_failed&deviceId=7&startDate=1700000000000&endDate=2024-01-02T00:00:00Z"
	w := makeRequest(router, "GET", url, nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestListIncidents_NoFilters(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().ListIncidents(gomock.Any(), models.IncidentFilter{}).Return([]*models.Incident{}, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListIncidents_InvalidFilters(t *testing.T) {
	testCases := []string{
		"/api/v1/incidents?status=escalated",
		"/api/v1/incidents?deviceId=abc",
		"/api/v1/incidents?startDate=yesterday",
		"/api/v1/incidents?endDate=2024-13-45",
	}

	for _, url := range testCases {
		t.Run(url, func(t *testing.T) {
			_, _, incidentMock, router := newTestHandler(t)
			incidentMock.EXPECT().ListIncidents(gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, "GET", url, nil, authHeader)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetStats_Success(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().GetStats(gomock.Any()).Return(&models.IncidentStats{
		Total:           3,
		ByStatus:        map[models.Status]int{models.StatusTriggered: 1, models.StatusAlertsSent: 2},
		ByDevice:        map[int64]int{4096: 3},
		AvgResponseTime: 200,
	}, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"byStatus":{"triggered":1,"alerts_sent":2},"byDevice":{"4096":3},"avgResponseTime":200}`, w.Body.String())
}

func TestGetStats_ServiceError(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().GetStats(gomock.Any()).Return(nil, errors.New("db down"))

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResolveIncident_Success(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	resolved := testIncident("01HX", models.StatusResolved)
	resolved.Metadata["resolvedBy"] = "operator-7"

	incidentMock.EXPECT().
		UpdateStatus(gomock.Any(), "01HX", models.StatusResolved, map[string]any{"resolvedBy": "operator-7", "resolution": "false alarm"}).
		Return(resolved, nil)

	body := `{"resolvedBy": "operator-7", "resolution": "false alarm"}`
	w := makeRequest(router, "PUT", "/api/v1/incidents/01HX/resolve", bytes.NewBufferString(body), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "resolved", resp.Status)
}

func TestResolveIncident_EmptyBody(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().
		UpdateStatus(gomock.Any(), "01HX", models.StatusResolved, map[string]any{}).
		Return(testIncident("01HX", models.StatusResolved), nil)

	w := makeRequest(router, "PUT", "/api/v1/incidents/01HX/resolve", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResolveIncident_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: &models.NotFoundError{ID: "x"}, status: http.StatusNotFound},
		{
			name:   "already resolved",
			err:    &models.TransitionError{ID: "x", From: models.StatusResolved, To: models.StatusResolved},
			status: http.StatusConflict,
		},
		{name: "storage failure", err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, incidentMock, router := newTestHandler(t)
			incidentMock.EXPECT().
				UpdateStatus(gomock.Any(), "x", models.StatusResolved, gomock.Any()).
				Return(nil, tc.err)

			w := makeRequest(router, "PUT", "/api/v1/incidents/x/resolve", bytes.NewBufferString(`{}`), authHeader)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestListDeviceIncidents(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().ListByDevice(gomock.Any(), int64(4096)).Return([]*models.Incident{
		testIncident("b", models.StatusTriggered),
		testIncident("a", models.StatusResolved),
	}, nil)

	w := makeRequest(router, "GET", "/api/v1/devices/4096/incidents", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "b", resp[0].ID)
}

func TestListDeviceIncidents_InvalidID(t *testing.T) {
	_, _, incidentMock, router := newTestHandler(t)
	incidentMock.EXPECT().ListByDevice(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/devices/abc/incidents", nil, authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProviders(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/providers", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active":"msg91","simulation":false,"supported":["exotel","gupshup","msg91"]}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	// Health-check доступен без ключа
	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRegisterRoutes_NoAPIKeysDisablesAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	incidentMock := mocks.NewMockIncidentService(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	handler := NewHandler(mocks.NewMockAlertService(ctrl), incidentMock, ProviderInfo{}, logger, &config.Config{})
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	incidentMock.EXPECT().GetIncident(gomock.Any(), "x").Return(nil, false, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/x", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKeyAuthMiddleware_Success(t *testing.T) {
	// Создаем Gin-роутер и добавляем middleware
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"valid-key"},
	}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"valid-key"},
	}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil) // Нет API ключа
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"valid-key"},
	}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "invalid-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestAPIKeyAuthMiddleware_SetsKeyIDAndHidesKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger, hook := test.NewNullLogger()

	cfg := &config.Config{
		APIKeys: []string{"first-key", "valid-key"},
	}

	var gotID string
	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		gotID = c.GetString(ctxKeyID)
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, keyID("valid-key"), gotID)
	assert.Len(t, gotID, 8)

	w = makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "leaked-secret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, hook.LastEntry())
	line, err := hook.LastEntry().String()
	require.NoError(t, err)
	assert.NotContains(t, line, "leaked-secret")
	assert.Equal(t, keyID("leaked-secret"), hook.LastEntry().Data[ctxKeyID])
}

func TestMatchKey(t *testing.T) {
	keys := []string{"alpha", "beta"}
	assert.True(t, matchKey(keys, "beta"))
	assert.False(t, matchKey(keys, "bet"))
	assert.False(t, matchKey(nil, "alpha"))
}
