package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"seedtracker-api/internal/service"
)

// MockUploadService is a mock implementation of the UploadService interface
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Ingest(ctx context.Context, in service.UploadInput) (*service.UploadResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.UploadResult)
	return res, args.Error(1)
}

// multipartBody builds a form with one file per field name.
func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = io.WriteString(part, f[1])
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler_Upload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	both := map[string][2]string{
		SpeciesField:     {"species.csv", "Species Code\nANGE\n"},
		CollectionsField: {"collections.csv", "Collection Code\nX\n"},
	}

	tests := []struct {
		name           string
		files          map[string][2]string
		callsService   bool
		mockResult     *service.UploadResult
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			files:          both,
			callsService:   true,
			mockResult:     &service.UploadResult{Message: "files uploaded and dataset reloaded"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing collections field",
			files:          map[string][2]string{SpeciesField: both[SpeciesField]},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"missing required file field 'collections'"}`,
		},
		{
			name:           "rejected file type",
			files:          both,
			callsService:   true,
			mockError:      fmt.Errorf("%w: species file \"species.xlsx\" must be a .csv file", service.ErrInvalidUpload),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid upload: species file \"species.xlsx\" must be a .csv file"}`,
		},
		{
			name:           "rejected sheet",
			files:          both,
			callsService:   true,
			mockError:      fmt.Errorf("service: collection sheet: %w: bad columns", service.ErrInvalidSource),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"service: collection sheet: invalid source sheet: bad columns"}`,
		},
		{
			name:           "service error",
			files:          both,
			callsService:   true,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockUploadService)
			handler := NewUploadHandler(mockSvc, 1<<20)

			if tt.callsService {
				mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
					return in.Species.Filename == "species.csv" && in.Species.Body != nil &&
						in.Collections.Filename == "collections.csv" && in.Collections.Body != nil
				})).Return(tt.mockResult, tt.mockError)
			}

			body, contentType := multipartBody(t, tt.files)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.Upload(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "files uploaded and dataset reloaded")
			}

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_Upload_TooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockUploadService)
	handler := NewUploadHandler(mockSvc, 64)

	body, contentType := multipartBody(t, map[string][2]string{
		SpeciesField:     {"species.csv", strings.Repeat("x", 4096)},
		CollectionsField: {"collections.csv", "y"},
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}
