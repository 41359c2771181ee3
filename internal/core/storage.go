package core

import (
	"fmt"
	"os"

	"wavecore/internal/infra/persistence/memory"
	"wavecore/internal/infra/persistence/sqlite"
	"wavecore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory StorageDriver = "memory" // authoritative in-memory store (default)
	StorageSQLite StorageDriver = "sqlite" // sqlite snapshotting, :memory: unless given a path
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to memory when unset.
//
//	WAVECORE_STORAGE_DRIVER: memory|sqlite (default memory)
//	WAVECORE_SQLITE_PATH: sqlite location (default :memory:)
func OpenPersistentStore(engine *RulesEngine) (domain.PersistentStore, error) {
	driver := os.Getenv("WAVECORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageMemory)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("WAVECORE_SQLITE_PATH"), engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
