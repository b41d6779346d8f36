package config

import "time"

// Backend names accepted in StorageBackend.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Config holds runtime settings for the TodoKeeper client.
//
// Fields:
//   - AccountServiceURL: base URL of the account service.
//   - TaskServiceURL: base URL of the task service (remote backend only).
//   - StorageBackend: "remote" or "local"; selects the task store.
//   - DatabasePath: path of the local SQLite database (session cache and,
//     for the local backend, task storage).
//   - RequestTimeout: per-request timeout for the HTTP adapters.
type Config struct {
	AccountServiceURL string        `env:"TODOKEEPER_ACCOUNT_URL"`
	TaskServiceURL    string        `env:"TODOKEEPER_TASKS_URL"`
	StorageBackend    string        `env:"TODOKEEPER_BACKEND"`
	DatabasePath      string        `env:"TODOKEEPER_DB_PATH"`
	RequestTimeout    time.Duration `env:"TODOKEEPER_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AccountServiceURL = "http://127.0.0.1:8080"
	c.TaskServiceURL = "http://127.0.0.1:8080"
	c.StorageBackend = BackendRemote
	c.DatabasePath = "todokeeper.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file was given), environment variables, and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
