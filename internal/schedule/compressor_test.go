package schedule

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompression_SnapshotRoundtrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := []byte(`{"version":1,"users":[{"username":"carol","password":"pw","email":"c@example.com","timezone":"Europe/Paris"}]}`)
	packed, err := c.Compress(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, packed)

	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, original, unpacked)
}

func TestZstdCompression_Empty(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)

	packed, err := c.Compress(nil)
	require.NoError(t, err)
	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Empty(t, unpacked)
}

func TestZstdCompression_ManyUsersShrink(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)

	original := bytes.Repeat([]byte(`{"username":"u","timezone":"America/New_York"},`), 20_000)
	packed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(original)/4)
}

func TestZstdCompression_RejectsGarbage(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)

	_, err = c.Decompress([]byte("plain text, not a zstd frame"))
	assert.Error(t, err)
}
