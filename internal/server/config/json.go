package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pagebuilder/internal/flagx"
)

// JsonConfig is the JSON file form of Config.
type JsonConfig struct {
	HTTPAddr       string `json:"http_addr"`
	GRPCAddr       string `json:"grpc_addr"`
	Storage        string `json:"storage"`
	DataDir        string `json:"data_dir"`
	DatabaseDSN    string `json:"database_dsn"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
}

// parseJson overlays the JSON file named by -c or -config onto config.
// Keys that are absent or empty leave the current value alone. A file that
// cannot be read or decoded panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.GRPCAddr, c.GRPCAddr)
	set(&config.Storage, c.Storage)
	set(&config.DataDir, c.DataDir)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
