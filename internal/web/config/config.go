package config

// Config holds runtime settings for the local web client.
//
// Fields:
//   - ListenAddr: host:port the local UI listens on.
//   - BackendBaseURL: base URL of the classification API, including the /api prefix.
//   - StateDBPath: path to the sqlite file holding session and theme state.
type Config struct {
	ListenAddr     string
	BackendBaseURL string
	StateDBPath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:8080"
	c.BackendBaseURL = "http://127.0.0.1:8000/api"
	c.StateDBPath = "wormdetector.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
