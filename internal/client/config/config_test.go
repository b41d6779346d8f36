package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.AccountServiceURL)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.TaskServiceURL)
	assert.Equal(t, BackendRemote, cfg.StorageBackend)
	assert.Equal(t, "todokeeper.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestParseEnv_OverridesDefaults(t *testing.T) {
	t.Setenv("TODOKEEPER_ACCOUNT_URL", "https://auth.example.com")
	t.Setenv("TODOKEEPER_BACKEND", BackendLocal)
	t.Setenv("TODOKEEPER_REQUEST_TIMEOUT", "30s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "https://auth.example.com", cfg.AccountServiceURL)
	assert.Equal(t, BackendLocal, cfg.StorageBackend)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	// untouched fields keep their defaults
	assert.Equal(t, "todokeeper.db", cfg.DatabasePath)
}

func TestParseJson_PartialFileOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"task_service_url": "https://tasks.example.com",
		"request_timeout": "5s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"todokeeper", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://tasks.example.com", cfg.TaskServiceURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.AccountServiceURL)
	assert.Equal(t, BackendRemote, cfg.StorageBackend)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"todokeeper", "-b", BackendLocal, "-d", "/tmp/tk.db", "-unknown", "x"}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, BackendLocal, cfg.StorageBackend)
	assert.Equal(t, "/tmp/tk.db", cfg.DatabasePath)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.AccountServiceURL)
}

func TestLoadConfig_EnvBeatsJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage_backend": "remote"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"todokeeper", "-c", path}
	defer func() { os.Args = oldArgs }()

	t.Setenv("TODOKEEPER_BACKEND", BackendLocal)

	cfg := LoadConfig()
	assert.Equal(t, BackendLocal, cfg.StorageBackend)
}
