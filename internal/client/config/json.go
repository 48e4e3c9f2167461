package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pagebuilder/internal/flagx"
	"github.com/dmitrijs2005/pagebuilder/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout
// may be a string like "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	LocalDSN           string          `json:"local_dsn"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	PageID             string          `json:"page_id"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Absent keys keep their current values; read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.LocalDSN != "" {
		cfg.LocalDSN = jc.LocalDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageID != "" {
		cfg.PageID = jc.PageID
	}
}
