package keystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestPutGet(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Put("alice", "02c6047f9441ed"))
	key, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "02c6047f9441ed", key)

	// Put replaces.
	require.NoError(t, store.Put("alice", "03defc0f282629"))
	key, err = store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "03defc0f282629", key)
}

func TestGetMissing(t *testing.T) {
	store, _ := openTestStore(t)
	_, err := store.Get("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Put("bob", "deadbeef"))
	require.NoError(t, store.Delete("bob"))
	_, err := store.Get("bob")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete("bob"), ErrNotFound)
}

func TestPutValidatesNames(t *testing.T) {
	store, _ := openTestStore(t)

	bad := []string{"", "$alice", "a-b", "a b", "pk(x)"}
	for _, name := range bad {
		assert.ErrorIs(t, store.Put(name, "k"), ErrBadName, "name %q", name)
	}

	good := []string{"alice", "cold_storage", "key2", "ali$ce"}
	for _, name := range good {
		assert.NoError(t, store.Put(name, "k"), "name %q", name)
	}
}

func TestListSorted(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Put("carol", "c"))
	require.NoError(t, store.Put("alice", "a"))
	require.NoError(t, store.Put("bob", "b"))

	entries, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "alice", Key: "a"},
		{Name: "bob", Key: "b"},
		{Name: "carol", Key: "c"},
	}, entries)
}

func TestAll(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Put("alice", "a"))
	require.NoError(t, store.Put("bob", "b"))

	keys, err := store.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "a", "bob": "b"}, keys)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("alice", "a"))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	key, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "a", key)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "keys.db", filepath.Base(path))
	assert.Equal(t, ".minsc", filepath.Base(filepath.Dir(path)))
}
