// Package config loads runtime configuration for the GophCollect CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags:
//
//	-a string   address:port of the record store gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite cache
//	-l string   log level (debug, info, warn, error)
//
// JSON keys mirror the flags; intervals use timex.Duration, so "3s" and
// integer nanoseconds are both accepted:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "collect.db",
//	  "log_level": "info"
//	}
package config
