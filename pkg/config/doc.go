// Package config provides file configuration for the floatlog overlay server.
//
// Configuration files may be YAML (.yaml, .yml) or JSON (.json); the format
// is detected from the file extension. Documents are validated against an
// embedded JSON Schema before strict decoding, so unknown keys and wrongly
// typed values fail with a pointed error instead of being silently dropped.
//
// A minimal config:
//
//	server:
//	  host: 127.0.0.1
//	  port: 4690
//	store:
//	  max_entries: 1000
//	log:
//	  level: debug
//
// Every section and field is optional; Load fills gaps from Default().
package config
