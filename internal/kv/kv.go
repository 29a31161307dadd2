// Package kv provides the string-valued key-value slots that hold lovetrack's saved data.
//
// Four backends implement Store: plain JSON files in a data directory (the default),
// a bbolt database, a SQLite database and an in-memory map used by tests.
package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a synchronous string-valued key-value store.
type Store interface {
	// Get returns the value stored under key. The bool is false when the key was never set.
	Get(key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(key, value string) error
	// Close releases any resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Backends lists the backends selectable from configuration.
var Backends = []Backend{BackendFile, BackendBolt, BackendSQLite}

// BackendNames lists Backends for help and error text, e.g. "file, bolt, sqlite".
func BackendNames() string {
	names := make([]string, len(Backends))
	for i, b := range Backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

// ParseBackend converts a config value into a Backend.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendBolt, BackendSQLite, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend: %s (must be one of %s)", s, BackendNames())
	}
}

// Open opens the store for backend, keeping its files under dataDir.
func Open(backend Backend, dataDir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dataDir)
	case BackendBolt:
		return NewBoltStore(dataDir)
	case BackendSQLite:
		return NewSQLiteStore(dataDir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// prepareDir expands a leading ~/ and creates the directory if it doesn't exist.
func prepareDir(dataDir string) (string, error) {
	if dataDir == "" {
		return "", fmt.Errorf("data directory is required")
	}

	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	return dataDir, nil
}
