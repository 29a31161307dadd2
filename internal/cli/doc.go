// Package cli implements the command-line interface for lovetrack.
//
// The cli package provides the Cobra-based CLI: a status view of how long the
// relationship has lasted, a watch mode that refreshes it on a timer, settings, event
// and trip management, backups (plain or passphrase-sealed), import with a dry-run diff,
// and iCalendar export. Output is styled text or JSON. It coordinates the config, kv,
// storage and tracker packages.
package cli
