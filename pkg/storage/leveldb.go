package storage

import (
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is the goleveldb-backed journal store.
type LevelDB struct {
	db     *leveldb.DB
	path   string
	closed bool
	mu     sync.Mutex
}

// NewLevelDB opens (or creates) a leveldb instance at path.
func NewLevelDB(path string) (*LevelDB, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid path: path is empty")
	}
	options := &opt.Options{
		BlockCacheCapacity: 8 * opt.MiB,
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return &LevelDB{db: db, path: path}, nil
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := ldb.db.Get(key, nil)
	if err != nil {
		return nil, fmt.Errorf("[LevelDB] get %x: %w", key, err)
	}
	return value, nil
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LevelDB) Has(key []byte) bool {
	ok, err := ldb.db.Has(key, nil)
	return err == nil && ok
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

func (ldb *LevelDB) BatchPut(kvs [][2][]byte) error {
	batch := new(leveldb.Batch)
	for i := range kvs {
		batch.Put(kvs[i][0], kvs[i][1])
	}
	return ldb.db.Write(batch, nil)
}

func (ldb *LevelDB) GetAllKeys() ([][]byte, error) {
	var keys [][]byte
	iter := ldb.db.NewIterator(&util.Range{}, nil)
	defer iter.Release()
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		keys = append(keys, key)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (ldb *LevelDB) Open() error {
	ldb.mu.Lock()
	defer ldb.mu.Unlock()
	if !ldb.closed {
		return nil
	}
	db, err := leveldb.OpenFile(ldb.path, nil)
	if err != nil {
		return err
	}
	ldb.db = db
	ldb.closed = false
	return nil
}

func (ldb *LevelDB) Close() error {
	ldb.mu.Lock()
	defer ldb.mu.Unlock()
	if ldb.closed {
		return nil
	}
	ldb.closed = true
	return ldb.db.Close()
}

func (ldb *LevelDB) GetBackupPath() string {
	return ldb.path
}
