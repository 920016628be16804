package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack8RoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []uint8{0, 1, 74, 77, 127, 128, 200, 255} {
		packed := Pack8(n)
		unpacked, read, err := Unpack8(packed)
		require.NoError(t, err)
		assert.Equal(t, n, unpacked)
		assert.Equal(t, len(packed), read)
	}
}

func TestUnpackErrors(t *testing.T) {
	t.Parallel()

	_, _, err := Unpack8(nil)
	assert.Error(t, err)
	_, _, err = Unpack8([]byte{200})
	assert.Error(t, err)
	_, _, err = Unpack8([]byte{200, 0x02})
	assert.Error(t, err)
	_, _, err = Unpack16(Pack64(70000))
	assert.Error(t, err)
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	data := PrependLength([]byte("hello"))
	data = append(data, []byte("rest")...)

	block, n, err := GetNextBlock(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), block)
	assert.Equal(t, []byte("rest"), data[n:])

	_, _, err = GetNextBlock(Pack64(10))
	assert.Error(t, err)
}
