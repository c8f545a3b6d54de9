// Package cli implements the logship command line.
//
//	logship pipe [--file path]         ship JSON log lines from stdin or a file
//	logship serve [--addr host:port]   run the HTTP ingest server
//	logship send [--level l] message   send one test event
//
// Every command reads --config (YAML or JSON) with LOGSHIP_ environment overrides.
package cli
