package quality

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/ingest"
	"dqcli/internal/shared/testutil"
	"dqcli/pkg/contracts/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func customerConfig() Config {
	cfg := DefaultConfig()
	cfg.KeyColumns = []string{"customer_id"}
	cfg.ExpectedColumns = testutil.CustomerExpectedColumns
	cfg.Rules = []ColumnRuleSpec{AgeRules("age", 120, 150), EmailRules("email")}
	return cfg
}

type recordingRecorder struct {
	mu          sync.Mutex
	scans       []domain.ScanName
	inspections int
	lastErr     error
}

func (r *recordingRecorder) RecordScan(_ context.Context, scan domain.ScanName, _ time.Duration, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans = append(r.scans, scan)
}

func (r *recordingRecorder) RecordInspection(_ context.Context, _ time.Duration, _ *domain.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inspections++
	r.lastErr = err
}

func TestInspector_CustomerTable(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	inspector := NewInspector(logger)

	report, err := inspector.Inspect(context.Background(), testutil.CustomerTable(), customerConfig())
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 10, s.Rows)
	assert.Equal(t, 7, s.Columns)
	assert.Equal(t, 15, s.MissingCells)
	assert.Equal(t, 0, s.DuplicateRows)
	assert.Equal(t, len(report.Issues), s.TotalIssues)

	assert.Equal(t, 4, s.IssuesByScan[domain.ScanMissing])
	assert.Equal(t, 1, s.IssuesByScan[domain.ScanTypes])
	assert.Equal(t, 0, s.IssuesByScan[domain.ScanDuplicateRows])
	assert.Equal(t, 2, s.IssuesByScan[domain.ScanDuplicateKeys])
	assert.Equal(t, 1, s.IssuesByScan[domain.ScanFormat])
	assert.Equal(t, 2, s.IssuesByScan[domain.ScanColumns])
	assert.Equal(t, 0, s.IssuesByScan[domain.ScanOutliers])
	assert.Equal(t, 4, s.IssuesByScan[domain.ScanRules])
	assert.Equal(t, 7, s.IssuesByScan[domain.ScanStructure])

	require.Len(t, report.DuplicateKeys.Groups, 1)
	assert.Equal(t, []int{4, 9}, report.DuplicateKeys.Groups[0].Rows)
	assert.Equal(t, []string{"region"}, report.Columns.Empty)
	require.Len(t, report.Columns.Constant, 1)
	assert.Equal(t, domain.Text("active"), report.Columns.Constant[0].Value)
	assert.True(t, report.Structure.OrderMismatch)
	assert.Equal(t, 9, report.DuplicateKeys.UniqueKeys)
	assert.Equal(t, 10, report.DuplicateKeys.TotalRows)
	require.Len(t, report.Columns.Diversity, 7)

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "inspection_complete")
	assert.True(t, logs.ContainsAttr("component", "inspector"))
}

func TestInspector_IssuesFollowScanOrder(t *testing.T) {
	report, err := NewInspector(nil).Inspect(context.Background(), testutil.CustomerTable(), customerConfig())
	require.NoError(t, err)

	rank := make(map[domain.ScanName]int, len(domain.ScanOrder))
	for i, s := range domain.ScanOrder {
		rank[s] = i
	}
	for i := 1; i < len(report.Issues); i++ {
		assert.LessOrEqual(t, rank[report.Issues[i-1].Scan], rank[report.Issues[i].Scan])
	}
}

func TestInspector_Idempotent(t *testing.T) {
	inspector := NewInspector(nil)
	table := testutil.CustomerTable()
	cfg := customerConfig()

	first, err := inspector.Inspect(context.Background(), table, cfg)
	require.NoError(t, err)
	second, err := inspector.Inspect(context.Background(), table, cfg)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestInspector_ParallelMatchesSequential(t *testing.T) {
	inspector := NewInspector(nil)
	table := testutil.CustomerTable()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"defaults", DefaultConfig()},
		{"customer", customerConfig()},
		{"modified z-score", func() Config {
			c := customerConfig()
			c.OutlierMethod = MethodModifiedZScore
			return c
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqCfg, parCfg := tt.cfg, tt.cfg
			parCfg.Parallel = true

			seq, err := inspector.Inspect(context.Background(), table, seqCfg)
			require.NoError(t, err)
			par, err := inspector.Inspect(context.Background(), table, parCfg)
			require.NoError(t, err)

			if diff := cmp.Diff(seq, par); diff != "" {
				t.Errorf("parallel report differs from sequential (-seq +par):\n%s", diff)
			}
		})
	}
}

func TestInspector_DoesNotMutateTable(t *testing.T) {
	table := testutil.CustomerTable()
	before, err := json.Marshal(table)
	require.NoError(t, err)

	cfg := customerConfig()
	cfg.Parallel = true
	_, err = NewInspector(nil).Inspect(context.Background(), table, cfg)
	require.NoError(t, err)

	after, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestInspector_ConfigErrorRunsNoScan(t *testing.T) {
	rec := &recordingRecorder{}
	inspector := NewInspector(nil, WithRecorder(rec))

	cfg := DefaultConfig()
	cfg.KeyColumns = []string{"id"}
	report, err := inspector.Inspect(context.Background(), testutil.CustomerTable(), cfg)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	assert.Empty(t, rec.scans)
	assert.Equal(t, 1, rec.inspections)
	assert.Equal(t, err, rec.lastErr)
}

func TestInspector_RecordsEveryScan(t *testing.T) {
	rec := &recordingRecorder{}
	inspector := NewInspector(nil, WithRecorder(rec))

	_, err := inspector.Inspect(context.Background(), testutil.CustomerTable(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, domain.ScanOrder, rec.scans)
	assert.Equal(t, 1, rec.inspections)
	assert.NoError(t, rec.lastErr)
}

func TestInspector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, parallel := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Parallel = parallel

		report, err := NewInspector(nil).Inspect(ctx, testutil.CustomerTable(), cfg)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, report)
	}
}

func TestInspector_NilTable(t *testing.T) {
	_, err := NewInspector(nil).Inspect(context.Background(), nil, DefaultConfig())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestInspector_EmptyTable(t *testing.T) {
	table := domain.MustTable([]string{"a", "b"}, nil)

	report, err := NewInspector(nil).Inspect(context.Background(), table, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Rows)
	assert.Equal(t, []string{"a", "b"}, report.Columns.Empty)
	assert.Empty(t, report.Outliers.Columns)
	assert.Equal(t, 2, report.Summary.IssuesByKind[domain.IssueEmptyColumn])
}

func TestInspector_SignedZeroFromCSV(t *testing.T) {
	table, err := ingest.ReadCSV(strings.NewReader("amount\n0.0\n-0.0\n"), ingest.DefaultOptions())
	require.NoError(t, err)

	report, err := NewInspector(nil).Inspect(context.Background(), table, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{1}, report.DuplicateRows.Rows)
	require.Len(t, report.Columns.Constant, 1)
	assert.Equal(t, "amount", report.Columns.Constant[0].Column)
	assert.Equal(t, []domain.ColumnDistinct{{Column: "amount", Distinct: 1, Rows: 2}}, report.Columns.Diversity)
}
