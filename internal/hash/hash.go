package hash

import "github.com/cespare/xxhash/v2"

// String computes the xxHash64 of the given string.
func String(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of the given byte slice.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Bucket maps a string onto one of n buckets. n must be positive.
func Bucket(data string, n int) int {
	return int(xxhash.Sum64String(data) % uint64(n)) //nolint:gosec
}

// Checksum32 returns the low 32 bits of the xxHash64 of data.
func Checksum32(data []byte) uint32 {
	return uint32(xxhash.Sum64(data)) //nolint:gosec
}
