package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Check value from RFC 3720, appendix B.4.
	assert.Equal(t, uint32(0xE3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestTrailer(t *testing.T) {
	data := AppendTrailer([]byte("SKF1 header and payload"))
	assert.Len(t, data, len("SKF1 header and payload")+TrailerSize)

	body, ok := SplitTrailer(data)
	assert.True(t, ok)
	assert.Equal(t, "SKF1 header and payload", string(body))

	data[2] ^= 0x01
	_, ok = SplitTrailer(data)
	assert.False(t, ok)

	_, ok = SplitTrailer([]byte{1, 2})
	assert.False(t, ok)
}
