package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/ingest"
	"dqcli/internal/quality"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dqinspect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		setupFile   func(t *testing.T) string // returns temp file path
		wantErr     bool
		errContains []string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
				assert.True(t, cfg.Server.RateLimit.Enabled)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "dqinspect", cfg.Telemetry.ServiceName)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)

				assert.Equal(t, ingest.DefaultMissingTokens, cfg.Ingest.MissingTokens)
				assert.Equal(t, quality.DefaultConfig(), cfg.Inspection)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func(t *testing.T) {
				t.Setenv("DQ_SERVER_PORT", "9090")
				t.Setenv("DQ_SERVER_READ_TIMEOUT", "45s")
				t.Setenv("DQ_LOGGING_LEVEL", "debug")
				t.Setenv("DQ_INSPECTION_KEY_COLUMNS", "customer_id,order_id")
				t.Setenv("DQ_INSPECTION_ZSCORE_THRESHOLD", "2.5")
				t.Setenv("DQ_INSPECTION_EXPECTED_TYPES", "age:numeric,email:text")
				t.Setenv("DQ_INGEST_DELIMITER", ";")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{"customer_id", "order_id"}, cfg.Inspection.KeyColumns)
				assert.Equal(t, 2.5, cfg.Inspection.ZScoreThreshold)
				assert.Equal(t, map[string]string{"age": "numeric", "email": "text"}, cfg.Inspection.ExpectedTypes)
				assert.Equal(t, ';', cfg.Ingest.Options().Delimiter)
			},
		},
		{
			name: "file overrides defaults and keeps absent keys",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, `
server:
  port: 7070
inspection:
  key_columns: [customer_id]
  expected_columns: [customer_id, age]
  outlier_method: modified_zscore
  rules:
    - column: age
      rules:
        - op: lt
          value: 0
          label: impossible
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, []string{"customer_id"}, cfg.Inspection.KeyColumns)
				assert.Equal(t, quality.MethodModifiedZScore, cfg.Inspection.OutlierMethod)
				assert.Equal(t, quality.DefaultZScoreThreshold, cfg.Inspection.ZScoreThreshold)
				require.Len(t, cfg.Inspection.Rules, 1)
				assert.Equal(t, "age", cfg.Inspection.Rules[0].Column)
			},
		},
		{
			name: "environment wins over file",
			setupEnv: func(t *testing.T) {
				t.Setenv("DQ_SERVER_PORT", "9191")
			},
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "server:\n  port: 7070\nlogging:\n  level: warn\n")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name: "invalid port",
			setupEnv: func(t *testing.T) {
				t.Setenv("DQ_SERVER_PORT", "70000")
			},
			wantErr:     true,
			errContains: []string{"server.port"},
		},
		{
			name: "every invalid field is reported",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, `
logging:
  level: loud
telemetry:
  trace_exporter: jaeger
inspection:
  outlier_method: iqr
`)
			},
			wantErr:     true,
			errContains: []string{"logging.level", "telemetry.trace_exporter", "inspection.outlier_method"},
		},
		{
			name: "unknown file key",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "server:\n  prot: 8080\n")
			},
			wantErr:     true,
			errContains: []string{"failed to parse config file"},
		},
		{
			name: "malformed env value",
			setupEnv: func(t *testing.T) {
				t.Setenv("DQ_SERVER_PORT", "eighty")
			},
			wantErr:     true,
			errContains: []string{"failed to load config from env"},
		},
		{
			name: "missing file",
			setupFile: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.yaml")
			},
			wantErr:     true,
			errContains: []string{"failed to read config file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}
			path := ""
			if tt.setupFile != nil {
				path = tt.setupFile(t)
			}

			cfg, err := Load(path)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				for _, want := range tt.errContains {
					assert.Contains(t, err.Error(), want)
				}
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_FileOutputNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.file_path")
}

func TestIngestConfig_Options(t *testing.T) {
	tests := []struct {
		name string
		cfg  IngestConfig
		want ingest.Options
	}{
		{
			name: "empty keeps reader defaults",
			cfg:  IngestConfig{},
			want: ingest.Options{},
		},
		{
			name: "tab delimited with custom tokens",
			cfg: IngestConfig{
				Delimiter:     "\t",
				Sheet:         "Data",
				MissingTokens: []string{"-"},
				TextColumns:   []string{"zip"},
			},
			want: ingest.Options{
				Delimiter:     '\t',
				Sheet:         "Data",
				MissingTokens: []string{"-"},
				TextColumns:   []string{"zip"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Options())
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "dqinspect.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"customer_id"}, cfg.Inspection.KeyColumns)
	assert.Equal(t, quality.MethodZScore, cfg.Inspection.OutlierMethod)
	require.Len(t, cfg.Inspection.Rules, 2)
	assert.Len(t, cfg.Inspection.Rules[0].Rules, 3)
	assert.Equal(t, quality.EmailPattern, cfg.Inspection.Rules[1].Rules[0].Pattern)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}
