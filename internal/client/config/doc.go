// Package config loads runtime configuration for the editor.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the page server gRPC endpoint
//	-l string   local SQLite DSN for the crash-recovery copy
//	-t int      request timeout (seconds)
//	-i string   server page id to open at start-up
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "local_dsn": "editor.db",
//	  "request_timeout": "10s",
//	  "page_id": ""
//	}
package config
