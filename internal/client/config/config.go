package config

import "time"

// Config holds runtime settings for the editor.
//
// Fields:
//   - ServerEndpointAddr: host:port of the page server's gRPC endpoint.
//   - LocalDSN: SQLite DSN of the crash-recovery store.
//   - RequestTimeout: upper bound for each remote call.
//   - PageID: server page to open at start-up; empty resumes the local copy.
type Config struct {
	ServerEndpointAddr string
	LocalDSN           string
	RequestTimeout     time.Duration
	PageID             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.LocalDSN = "editor.db"
	c.RequestTimeout = 10 * time.Second
	c.PageID = ""
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
