package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8081", "-g", "127.0.0.1:9090", "-s", "postgres", "-f", "/srv/pages",
				"-d", "db", "-b", "sites", "-r", "eu-west-1", "-e", "http://endpoint", "-u", "user", "-p", "password",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:8081",
				GRPCAddr:       "127.0.0.1:9090",
				Storage:        "postgres",
				DataDir:        "/srv/pages",
				DatabaseDSN:    "db",
				S3Bucket:       "sites",
				S3Region:       "eu-west-1",
				S3BaseEndpoint: "http://endpoint",
				S3RootUser:     "user",
				S3RootPassword: "password",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-x", "1", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"},
		},
		{
			name:        "flag without value",
			args:        []string{"cmd", "-a"},
			expectPanic: true,
		},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
