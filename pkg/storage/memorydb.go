package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MemoryDB is the default journal backend: a map guarded by a RWMutex.
// Simulations and tests run on it; real deployments point the config at a
// leveldb or badger path instead.
type MemoryDB struct {
	db map[string][]byte
	sync.RWMutex
}

func NewMemoryDb() *MemoryDB {
	return &MemoryDB{
		db: make(map[string][]byte),
	}
}

func (kv *MemoryDB) Get(key []byte) ([]byte, error) {
	kv.RLock()
	defer kv.RUnlock()
	if v, ok := kv.db[string(key)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("[MemKV] key not found: %s", hexutil.Encode(key))
}

func (kv *MemoryDB) Put(key, value []byte) error {
	kv.Lock()
	defer kv.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	kv.db[string(key)] = cp
	return nil
}

func (kv *MemoryDB) Has(key []byte) bool {
	kv.RLock()
	defer kv.RUnlock()
	_, ok := kv.db[string(key)]
	return ok
}

func (kv *MemoryDB) Delete(key []byte) error {
	kv.Lock()
	defer kv.Unlock()
	if _, ok := kv.db[string(key)]; !ok {
		return fmt.Errorf("[MemKV] key not found: %s", hexutil.Encode(key))
	}
	delete(kv.db, string(key))
	return nil
}

func (kv *MemoryDB) BatchPut(kvs [][2][]byte) error {
	for i := range kvs {
		kv.Put(kvs[i][0], kvs[i][1])
	}
	return nil
}

// GetAllKeys returns every key in lexicographic order, which for journal
// keys is round order.
func (kv *MemoryDB) GetAllKeys() ([][]byte, error) {
	kv.RLock()
	keys := make([]string, 0, len(kv.db))
	for key := range kv.db {
		keys = append(keys, key)
	}
	kv.RUnlock()
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, key := range keys {
		out[i] = []byte(key)
	}
	return out, nil
}

func (kv *MemoryDB) Open() error {
	return nil
}

func (kv *MemoryDB) Close() error {
	return nil
}

func (kv *MemoryDB) GetBackupPath() string {
	return ""
}

func (kv *MemoryDB) Size() int {
	kv.RLock()
	defer kv.RUnlock()
	return len(kv.db)
}

// GetSnapShot returns a deep copy of the current contents.
func (kv *MemoryDB) GetSnapShot() *MemoryDB {
	kv.RLock()
	defer kv.RUnlock()
	snap := NewMemoryDb()
	for key, value := range kv.db {
		cp := make([]byte, len(value))
		copy(cp, value)
		snap.db[key] = cp
	}
	return snap
}
