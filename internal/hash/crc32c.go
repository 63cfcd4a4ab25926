package hash

import (
	"encoding/binary"
	"hash/crc32"
)

// TrailerSize is the length of the checksum appended by AppendTrailer.
const TrailerSize = 4

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// AppendTrailer appends the little-endian CRC32C of buf to buf.
// Snapshots end with this trailer.
func AppendTrailer(buf []byte) []byte {
	return binary.LittleEndian.AppendUint32(buf, CRC32C(buf))
}

// SplitTrailer returns data without its trailer and whether the trailer
// matches the checksum of the rest.
func SplitTrailer(data []byte) ([]byte, bool) {
	if len(data) < TrailerSize {
		return nil, false
	}
	body, sum := data[:len(data)-TrailerSize], data[len(data)-TrailerSize:]
	return body, CRC32C(body) == binary.LittleEndian.Uint32(sum)
}
