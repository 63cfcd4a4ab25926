// Package snapshot encodes reduced structure factors into a self-describing
// binary format and stores them in a blobstore.
//
// # Format
//
//	magic "SKF1" | version u8 | compression u8 | codec name length u8 | codec name
//	uncompressed size u32 | stored size u32 | payload | crc32c u32
//
// Integers are little endian. A stored size of 0 means the payload is kept
// uncompressed. The checksum covers every preceding byte. The payload is the
// codec encoding of Result, with a non-finite MinValidK written as null.
package snapshot
