package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, SourceSheets, cfg.Source.Kind)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "America/Sao_Paulo", cfg.Report.Timezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NCDASH_SERVER_PORT", "9090")
	t.Setenv("NCDASH_SOURCE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("NCDASH_CACHE_TTL", "90s")

	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sheet-123", cfg.Source.SpreadsheetID)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `
server:
  port: 7070
source:
  kind: workbook
  workbook_path: /data/nc.xlsx
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, SourceWorkbook, cfg.Source.Kind)
	assert.Equal(t, "/data/nc.xlsx", cfg.Source.WorkbookPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "sheets source needs spreadsheet id",
			mutate:  func(c *Config) {},
			wantErr: "spreadsheet_id",
		},
		{
			name: "workbook source needs path",
			mutate: func(c *Config) {
				c.Source.Kind = SourceWorkbook
			},
			wantErr: "workbook_path",
		},
		{
			name: "unknown source kind",
			mutate: func(c *Config) {
				c.Source.Kind = "ftp"
			},
			wantErr: "unknown source kind",
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.Source.SpreadsheetID = "x"
				c.Server.Port = -1
			},
			wantErr: "invalid server port",
		},
		{
			name: "non-positive ttl",
			mutate: func(c *Config) {
				c.Source.SpreadsheetID = "x"
				c.Cache.TTL = 0
			},
			wantErr: "cache ttl",
		},
		{
			name: "valid sheets config",
			mutate: func(c *Config) {
				c.Source.SpreadsheetID = "x"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdirTemp moves the test into an empty directory so stray config
// files in the working tree cannot leak into Load.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}
