package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"seedtracker-api/internal/models"
)

type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) Status(ctx context.Context) (*models.DatasetStatus, error) {
	args := m.Called(ctx)
	st, _ := args.Get(0).(*models.DatasetStatus)
	return st, args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestStatusHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		pingError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "healthy",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "storage unavailable",
			pingError:      assert.AnError,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := new(MockPinger)
			pinger.On("Ping", mock.Anything).Return(tt.pingError)
			handler := NewStatusHandler(new(MockStatusService), pinger)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

			handler.Health(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			pinger.AssertExpectations(t)
		})
	}
}

func TestStatusHandler_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)

	loadedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		mockStatus     *models.DatasetStatus
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "loaded",
			mockStatus: &models.DatasetStatus{
				DatasetStats: models.DatasetStats{Species: 2, Collections: 5, Located: 4},
				LoadedAt:     &loadedAt,
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"species":2,"collections":5,"located":4,"loaded_at":"2024-05-01T12:00:00Z"}`,
		},
		{
			name:           "never loaded",
			mockStatus:     &models.DatasetStatus{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"species":0,"collections":0,"located":0,"loaded_at":null}`,
		},
		{
			name:           "service error",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockStatusService)
			mockSvc.On("Status", mock.Anything).Return(tt.mockStatus, tt.mockError)
			handler := NewStatusHandler(mockSvc, nil)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/status", nil)

			handler.Status(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
