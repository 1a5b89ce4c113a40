package storage

import "fmt"

const (
	STORAGE_TYPE_LEVEL_DB  = "level"
	STORAGE_TYPE_BADGER_DB = "badger"
	STORAGE_TYPE_MEMORY_DB = "memory"
)

// Storage is the key-value backend behind the round journal.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Has([]byte) bool
	Delete([]byte) error
	BatchPut([][2][]byte) error
	GetAllKeys() ([][]byte, error)
	Open() error
	Close() error
	GetBackupPath() string
}

// LoadStorage opens the backend named by dbType, defaulting to leveldb for
// unknown names and to memory when no path is configured.
func LoadStorage(dbType string, dbPath string) (Storage, error) {
	if dbType == STORAGE_TYPE_MEMORY_DB || dbPath == "" {
		return NewMemoryDb(), nil
	}
	if dbType == STORAGE_TYPE_BADGER_DB {
		return NewBadgerV4DB(dbPath)
	}
	db, err := NewLevelDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open %s storage at %s: %w", dbType, dbPath, err)
	}
	return db, nil
}
