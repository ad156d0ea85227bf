package localstore

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.Set("token", []byte("abc123")))
	assert.Equal(t, "abc123", store.GetString("token"))

	data, ok := store.Get("token")
	assert.True(t, ok)
	assert.Equal(t, []byte("abc123"), data)
}

func TestStoreMissingSlot(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))

	var out []string
	assert.False(t, store.GetJSON("nope", &out))
}

func TestStoreCorruptJSONDegradesToEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set("cart", []byte("{not json")))

	var out []map[string]any
	assert.False(t, store.GetJSON("cart", &out))
	assert.Empty(t, out)
}

func TestStoreCorruptJSONLogsTypedError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})
	store, err := New(t.TempDir(), logg)
	require.NoError(t, err)
	require.NoError(t, store.Set("cart", []byte("{not json")))

	var out []map[string]any
	assert.False(t, store.GetJSON("cart", &out))
	assert.Contains(t, buf.String(), string(pkgerrors.CodeStoreCorrupt))
}

func TestStoreJSONRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	in := []string{"a", "b"}
	require.NoError(t, store.SetJSON("list", in))

	var out []string
	require.True(t, store.GetJSON("list", &out))
	assert.Equal(t, in, out)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set("token", []byte("x")))
	require.NoError(t, store.Delete("token"))
	require.NoError(t, store.Delete("token"))

	_, ok := store.Get("token")
	assert.False(t, ok)
}

func TestStoreLastWriteWins(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set("cart", []byte("first")))
	require.NoError(t, store.Set("cart", []byte("second")))
	assert.Equal(t, "second", store.GetString("cart"))
}

func TestNewRequiresDir(t *testing.T) {
	t.Parallel()

	_, err := New("  ", nil)
	require.Error(t, err)
}
