package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/ingest"
	"dqcli/internal/middleware"
	"dqcli/internal/quality"
	"dqcli/internal/services"
	"dqcli/internal/shared/testutil"
	"dqcli/pkg/contracts/domain"
)

func newTestRouter(t *testing.T, maxBody int64) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewInspectionService(quality.NewInspector(logger), quality.DefaultConfig(), ingest.DefaultOptions(), logger)
	errHandler := apperrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.BodyLimit(maxBody))
	r.Mount("/api/v1/inspections", NewInspectionHandler(svc, errHandler, logger).Routes())
	r.Get("/api/health", NewHealthHandler(services.NewHealthService("dqinspect"), logger).HealthCheck)
	return r
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body %s", rec.Body.String())
	return rec, decoded
}

func TestInspectionHandler_Create(t *testing.T) {
	h := newTestRouter(t, 1<<20)

	body := `{
		"columns": ["id", "age", "email"],
		"rows": [
			[1, 25, "a@example.com"],
			[2, null, "b@example.com"],
			[2, "30", "not-an-email"],
			[3, 40, "c@example.com"]
		],
		"config": {
			"key_columns": ["id"],
			"rules": [{"column": "email", "rules": [
				{"op": "not_matches", "pattern": "^[^@]+@[^@]+\\.[^@]+$", "label": "invalid_format"}
			]}]
		}
	}`
	rec, decoded := post(t, h, body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), decoded["request_id"])

	var resp struct {
		RequestID string        `json:"request_id"`
		Report    domain.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Report.Summary.Rows)
	assert.Equal(t, 1, resp.Report.Summary.MissingCells)
	require.Len(t, resp.Report.DuplicateKeys.Groups, 1)
	assert.Equal(t, []int{1, 2}, resp.Report.DuplicateKeys.Groups[0].Rows)
	assert.Equal(t, 1, resp.Report.Summary.IssuesByKind[domain.IssueRuleViolation])
	assert.Equal(t, 1, resp.Report.Summary.IssuesByKind[domain.IssueTypeMismatch])
}

func TestInspectionHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		maxBody    int64
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "malformed json",
			body:       `{"columns": [`,
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"columns": ["a"], "rows": [], "colour": 1}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeBadRequest,
		},
		{
			name:       "boolean cell",
			body:       `{"columns": ["a"], "rows": [[true]]}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeBadRequest,
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeBadRequest,
		},
		{
			name:       "no columns",
			body:       `{"columns": [], "rows": []}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apperrors.TypeValidation,
		},
		{
			name:       "ragged row",
			body:       `{"columns": ["a", "b"], "rows": [[1]]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apperrors.TypeValidation,
		},
		{
			name:       "unknown key column",
			body:       `{"columns": ["a"], "rows": [[1]], "config": {"key_columns": ["id"]}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apperrors.TypeConfig,
		},
		{
			name:       "body too large",
			body:       `{"columns": ["a"], "rows": [[1], [2], [3], [4], [5], [6]]}`,
			maxBody:    16,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   apperrors.TypePayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxBody := tt.maxBody
			if maxBody == 0 {
				maxBody = 1 << 20
			}
			rec, problem := post(t, newTestRouter(t, maxBody), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.EqualValues(t, tt.wantStatus, problem["status"])
			assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), problem["trace_id"])
		})
	}
}

func TestInspectionHandler_ConfigProblemsListed(t *testing.T) {
	body := `{"columns": ["a"], "rows": [[1]], "config": {"key_columns": ["id"], "outlier_columns": ["b"]}}`
	rec, problem := post(t, newTestRouter(t, 1<<20), body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problems, ok := problem["problems"].([]any)
	require.True(t, ok, "problems extension missing: %v", problem)
	assert.Len(t, problems, 2)
	assert.Equal(t, "CONFIG", problem["error_code"])
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, 1<<20).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "dqinspect", status.Service)
}
