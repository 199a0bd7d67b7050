package initcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/printer"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, SplitList(" a@example.com, ,b@example.com,"))
	assert.Nil(t, SplitList(""))
}

func TestWizard_Defaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "jobcheck", "config.yaml")

	var out bytes.Buffer
	ctx := printer.NewContext(context.Background(), printer.New(&out, &out))

	w := NewWizard(WizardOptions{
		ConfigPath: configPath,
		DataDir:    t.TempDir(),
		Yes:        true,
		Recipients: []string{"workshop@garage.example.com"},
	})
	require.NoError(t, w.Run(ctx))

	cfg, err := config.Load(configPath, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"workshop@garage.example.com"}, cfg.Dispatch.Recipients)
	assert.Equal(t, []string{CatalogFile}, cfg.Catalog.Sources)
	assert.FileExists(t, filepath.Join(dir, "jobcheck", CatalogFile))
	assert.Contains(t, out.String(), "Created config")
}

func TestWizard_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("tui:\n  theme: tokyo-night\n"), 0o644))

	ctx := printer.NewContext(context.Background(), printer.New(&bytes.Buffer{}, &bytes.Buffer{}))

	err := NewWizard(WizardOptions{ConfigPath: configPath, DataDir: dir, Yes: true}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, NewWizard(WizardOptions{ConfigPath: configPath, DataDir: dir, Yes: true, Force: true}).Run(ctx))
	backups, err := filepath.Glob(configPath + ".*.bak")
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestWriteCatalog_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	catalogPath := filepath.Join(dir, CatalogFile)
	require.NoError(t, os.WriteFile(catalogPath, []byte("jobTypes:\n  A: [a]\n"), 0o644))

	path, written, err := WriteCatalog(configPath)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, catalogPath, path)

	data, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, "jobTypes:\n  A: [a]\n", string(data))
}

func TestBackup_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	backup, err := Backup(path, time.Now())
	require.NoError(t, err)
	assert.Empty(t, backup, "missing file needs no backup")

	require.NoError(t, os.WriteFile(path, []byte("tui: {theme: nord}\n"), 0o600))

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var last string
	for i := range 5 {
		last, err = Backup(path, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	matches, err := filepath.Glob(path + ".*.bak")
	require.NoError(t, err)
	assert.Len(t, matches, keepBackups)
	assert.Equal(t, path+".20240301-090400.bak", last)

	info, err := os.Stat(last)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
