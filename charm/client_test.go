// ABOUTME: Tests for the charm KV client wrapper
// ABOUTME: Runs against the badger-backed test client

package charm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSetGetDelete(t *testing.T) {
	c := NewTestClient(t)

	require.NoError(t, c.Set([]byte("clarity/a"), []byte("one")))
	value, err := c.Get([]byte("clarity/a"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(value))

	require.NoError(t, c.Delete([]byte("clarity/a")))
	value, err = c.Get([]byte("clarity/a"))
	require.NoError(t, err, "missing keys are not an error")
	assert.Nil(t, value)
}

func TestClientDeleteMissingKey(t *testing.T) {
	c := NewTestClient(t)
	assert.NoError(t, c.Delete([]byte("nope")))
}

func TestClientKeysAndReset(t *testing.T) {
	c := NewTestClient(t)
	require.NoError(t, c.Set([]byte("k1"), []byte("v")))
	require.NoError(t, c.Set([]byte("k2"), []byte("v")))

	keys, err := c.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, c.Reset())
	keys, err = c.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestClientSyncIsNoOpInTests(t *testing.T) {
	c := NewTestClient(t)
	assert.NoError(t, c.Sync())
	assert.False(t, c.Config().AutoSync)
}

func TestClientCloseIsIdempotent(t *testing.T) {
	c := NewTestClient(t)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
