package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDBPutGetDelete(t *testing.T) {
	db := NewMemoryDb()

	require.Nil(t, db.Put([]byte("a"), []byte("1")))
	assert.True(t, db.Has([]byte("a")))

	got, err := db.Get([]byte("a"))
	require.Nil(t, err)
	assert.Equal(t, []byte("1"), got)

	require.Nil(t, db.Delete([]byte("a")))
	assert.False(t, db.Has([]byte("a")))

	_, err = db.Get([]byte("a"))
	assert.NotNil(t, err)
	assert.NotNil(t, db.Delete([]byte("a")))
}

func TestMemoryDBCopiesValues(t *testing.T) {
	db := NewMemoryDb()
	value := []byte("mutable")
	require.Nil(t, db.Put([]byte("k"), value))

	value[0] = 'X'

	got, err := db.Get([]byte("k"))
	require.Nil(t, err)
	assert.Equal(t, []byte("mutable"), got)
}

func TestMemoryDBGetAllKeysSorted(t *testing.T) {
	db := NewMemoryDb()
	for _, key := range []string{"c", "a", "b"} {
		require.Nil(t, db.Put([]byte(key), []byte("v")))
	}

	keys, err := db.GetAllKeys()
	require.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, keys)
}

func TestMemoryDBBatchPut(t *testing.T) {
	db := NewMemoryDb()
	require.Nil(t, db.BatchPut([][2][]byte{
		{[]byte("x"), []byte("1")},
		{[]byte("y"), []byte("2")},
	}))
	assert.Equal(t, 2, db.Size())
}

func TestMemoryDBSnapshotIsIndependent(t *testing.T) {
	db := NewMemoryDb()
	require.Nil(t, db.Put([]byte("k"), []byte("v")))

	snap := db.GetSnapShot()
	require.Nil(t, db.Put([]byte("k2"), []byte("v2")))

	assert.Equal(t, 1, snap.Size())
	assert.Equal(t, 2, db.Size())
}
