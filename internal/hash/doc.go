// Package hash provides the CRC32-Castagnoli checksum that guards snapshot
// files and S3 uploads.
//
//	buf = hash.AppendTrailer(buf)
//
//	body, ok := hash.SplitTrailer(data)
//	if !ok {
//		// corrupt
//	}
//
// The standard library selects SSE4.2 or ARM CRC instructions when the CPU
// has them.
package hash
