package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/ingest"
	"dqcli/internal/quality"
	"dqcli/internal/shared/testutil"
	"dqcli/pkg/contracts/domain"
)

func newService(t *testing.T, defaults quality.Config) *InspectionService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewInspectionService(quality.NewInspector(logger), defaults, ingest.DefaultOptions(), logger)
}

func TestInspectTable(t *testing.T) {
	defaults := quality.DefaultConfig()
	defaults.KeyColumns = []string{"id"}

	withKey := quality.DefaultConfig()
	withKey.KeyColumns = []string{"name"}

	tests := []struct {
		name     string
		columns  []string
		rows     [][]domain.Value
		cfg      *quality.Config
		wantErr  apperrors.ErrorType
		validate func(*testing.T, *domain.Report)
	}{
		{
			name:    "defaults apply when no config is given",
			columns: []string{"id", "name"},
			rows: [][]domain.Value{
				{domain.Int(1), domain.Text("a")},
				{domain.Int(1), domain.Text("b")},
			},
			validate: func(t *testing.T, r *domain.Report) {
				assert.Equal(t, []string{"id"}, r.DuplicateKeys.Key)
				require.Len(t, r.DuplicateKeys.Groups, 1)
			},
		},
		{
			name:    "request config replaces defaults",
			columns: []string{"id", "name"},
			rows: [][]domain.Value{
				{domain.Int(1), domain.Text("a")},
				{domain.Int(1), domain.Text("b")},
			},
			cfg: &withKey,
			validate: func(t *testing.T, r *domain.Report) {
				assert.Equal(t, []string{"name"}, r.DuplicateKeys.Key)
				assert.Empty(t, r.DuplicateKeys.Groups)
			},
		},
		{
			name:    "ragged rows",
			columns: []string{"id", "name"},
			rows:    [][]domain.Value{{domain.Int(1)}},
			wantErr: apperrors.ErrTypeValidation,
		},
		{
			name:    "duplicate column names",
			columns: []string{"id", "id"},
			wantErr: apperrors.ErrTypeValidation,
		},
		{
			name:    "default key missing from table",
			columns: []string{"name"},
			rows:    [][]domain.Value{{domain.Text("a")}},
			wantErr: apperrors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, defaults)

			report, err := svc.InspectTable(context.Background(), tt.columns, tt.rows, tt.cfg)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, report)
		})
	}
}

func TestInspectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,age\n1,30\n2,\n2,41\n"), 0o644))

	logger, logs := testutil.NewTestLogger(t)
	svc := NewInspectionService(quality.NewInspector(logger), quality.DefaultConfig(), ingest.DefaultOptions(), logger)

	cfg := quality.DefaultConfig()
	cfg.KeyColumns = []string{"id"}
	report, err := svc.InspectFile(context.Background(), path, cfg)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Summary.Rows)
	assert.Equal(t, 1, report.Summary.MissingCells)
	require.Len(t, report.DuplicateKeys.Groups, 1)
	assert.Equal(t, []int{1, 2}, report.DuplicateKeys.Groups[0].Rows)
	assert.True(t, logs.ContainsMessage("file_loaded"))

	_, err = svc.InspectFile(context.Background(), filepath.Join(dir, "absent.csv"), cfg)
	require.Error(t, err)
	assert.True(t, logs.ContainsMessage("file_load_failed"))
}

func TestHealthCheck(t *testing.T) {
	svc := NewHealthService("dqinspect")
	svc.startTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return svc.startTime.Add(90 * time.Second) }

	status := svc.HealthCheck(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "dqinspect", status.Service)
	assert.Equal(t, "1m30s", status.Uptime)
	assert.NotEmpty(t, status.Runtime["go_version"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "unavailable", svc.HealthCheck(ctx).Status)
}
