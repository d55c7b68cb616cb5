// Package cli implements the floatlog command-line interface: running
// the overlay server in the foreground, listing and tailing captured
// log entries, and generating configuration files.
package cli
