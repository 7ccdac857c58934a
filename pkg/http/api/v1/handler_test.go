package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/securelayer/sbom-analyzer/pkg/analysis"
	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/mock"
)

var testInfo = etc.BuildInfo{
	Version: "1.0",
	Commit:  "abc",
	Date:    "2024-03-18T08:30:00Z",
}

var testReport = analysis.Report{
	GeneratedAt: time.Date(2024, time.March, 18, 8, 30, 0, 0, time.UTC),
	Rows: []analysis.Row{
		{
			Package:         "django",
			Version:         "4.1.7",
			License:         "Unknown",
			LicenseRisk:     analysis.RiskNeedsReview,
			Vulnerabilities: 0,
			HighestSeverity: analysis.SevNone,
		},
	},
}

var testSummary = analysis.Summary{
	TotalPackages: 1,
}

func TestAcceptAnalyzeRequest(t *testing.T) {
	t.Run("Should run analysis and return report", func(t *testing.T) {
		controller := mock.NewController()
		controller.On("Analyze", tmock.Anything, "https://github.com/acme/demo.git").
			Return(testReport, testSummary)

		handler := NewAPIHandler(testInfo, controller)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
			strings.NewReader(`{"target": "https://github.com/acme/demo.git"}`))
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "application/json", res.Header().Get("Content-Type"))

		var response AnalyzeResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
		assert.Equal(t, testReport, response.Report)
		assert.Equal(t, testSummary, response.Summary)
		assert.Equal(t, analysis.Columns(), response.Columns)

		controller.AssertExpectations(t)
	})

	t.Run("Should return 400 on malformed request body", func(t *testing.T) {
		controller := mock.NewController()
		handler := NewAPIHandler(testInfo, controller)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("not json"))
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		assert.Equal(t, http.StatusBadRequest, res.Code)
		controller.AssertNotCalled(t, "Analyze", tmock.Anything, tmock.Anything)
	})

	t.Run("Should return 422 on missing target", func(t *testing.T) {
		controller := mock.NewController()
		handler := NewAPIHandler(testInfo, controller)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`))
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	})

	t.Run("Should accept target as query parameter", func(t *testing.T) {
		controller := mock.NewController()
		controller.On("Analyze", tmock.Anything, "/projects/demo").
			Return(testReport, testSummary)

		handler := NewAPIHandler(testInfo, controller)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze?target=%2Fprojects%2Fdemo", nil)
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		controller.AssertExpectations(t)
	})
}

func TestGetMetadata(t *testing.T) {
	handler := NewAPIHandler(testInfo, mock.NewController())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metadata", nil)
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var metadata Metadata
	require.NoError(t, json.NewDecoder(res.Body).Decode(&metadata))
	assert.Equal(t, Metadata{
		Name:    "sbom-analyzer",
		Version: "1.0",
		Commit:  "abc",
		BuiltAt: "2024-03-18T08:30:00Z",
	}, metadata)
}

func TestGetHealthy(t *testing.T) {
	handler := NewAPIHandler(testInfo, mock.NewController())

	req := httptest.NewRequest(http.MethodGet, "/probe/healthy", nil)
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}
