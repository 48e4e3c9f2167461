package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/pagebuilder/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-s string   storage backend: file or postgres
//	-f string   data directory for the file backend
//	-d string   PostgreSQL DSN
//	-b string   S3 bucket for published sites
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-u string   S3 root user
//	-p string   S3 root password
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-s", "-f", "-d", "-b", "-r", "-e", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.Storage, "s", config.Storage, "storage backend (file|postgres)")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory for file storage")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for published sites")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
