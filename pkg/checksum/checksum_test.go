package checksum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	digest := Sum([]byte("hello"))
	assert.Len(t, digest, 64)

	// Deterministic.
	assert.Equal(t, digest, Sum([]byte("hello")))
	assert.NotEqual(t, digest, Sum([]byte("goodbye")))
}

func TestSumReader(t *testing.T) {
	data := []byte("some payload data")

	digest, err := SumReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, Sum(data), digest)
}
