// Package frame wraps a finished flatbin buffer in a small self-describing envelope.
//
// A frame is a fixed 16-byte little-endian header followed by the body:
//
//	offset  size  field
//	0       2     magic, "FB"
//	2       1     version
//	3       1     compression type (format.CompressionType)
//	4       4     raw length: size of the flatbin buffer before compression
//	8       4     body length: size of the bytes following the header
//	12      4     checksum: low 32 bits of the xxHash64 of the raw buffer
//
// The body is the flatbin buffer compressed with the codec named in the header. Decode
// verifies the lengths and the checksum, so a truncated or corrupted frame is rejected
// before a reader ever interprets the buffer.
package frame
