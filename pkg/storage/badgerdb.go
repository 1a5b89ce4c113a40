package storage

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	cp "github.com/otiai10/copy"

	"github.com/meta-node-blockchain/benor-node/pkg/logger"
)

// BadgerV4DB is the badger-backed journal store.
type BadgerV4DB struct {
	db     *badger.DB
	path   string
	closed bool
	mu     sync.Mutex
}

// NewBadgerV4DB opens (or creates) a badger instance at path.
func NewBadgerV4DB(path string) (*BadgerV4DB, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid path: path is empty")
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return &BadgerV4DB{db: db, path: path}, nil
}

func (bdb *BadgerV4DB) Get(key []byte) ([]byte, error) {
	var value []byte
	err := bdb.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("[BadgerDB] get %x: %w", key, err)
	}
	return value, nil
}

func (bdb *BadgerV4DB) Put(key, value []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (bdb *BadgerV4DB) Has(key []byte) bool {
	err := bdb.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	return err == nil
}

func (bdb *BadgerV4DB) Delete(key []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (bdb *BadgerV4DB) BatchPut(kvs [][2][]byte) error {
	wb := bdb.db.NewWriteBatch()
	defer wb.Cancel()
	for i := range kvs {
		if err := wb.Set(kvs[i][0], kvs[i][1]); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (bdb *BadgerV4DB) GetAllKeys() ([][]byte, error) {
	var keys [][]byte
	err := bdb.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (bdb *BadgerV4DB) Open() error {
	bdb.mu.Lock()
	defer bdb.mu.Unlock()
	if !bdb.closed {
		return nil
	}
	db, err := badger.Open(badger.DefaultOptions(bdb.path).WithLogger(nil))
	if err != nil {
		return err
	}
	bdb.db = db
	bdb.closed = false
	return nil
}

func (bdb *BadgerV4DB) Close() error {
	bdb.mu.Lock()
	defer bdb.mu.Unlock()
	if bdb.closed {
		return nil
	}
	bdb.closed = true
	return bdb.db.Close()
}

// GetBackupPath copies the database directory aside and returns the copy's
// path, so a run's journal can be preserved before the next run truncates it.
func (bdb *BadgerV4DB) GetBackupPath() string {
	bdb.mu.Lock()
	defer bdb.mu.Unlock()
	backupPath := bdb.path + "_backup"
	if err := cp.Copy(bdb.path, backupPath); err != nil {
		logger.Error("failed to copy badger db for backup: %v", err)
		return ""
	}
	return backupPath
}
