package compress

// ZstdCompressor compresses buffers with Zstandard.
//
// The implementation is selected at build time: klauspost/compress (pure Go) by default,
// valyala/gozstd when built with cgo and the gozstd tag. Both produce standard Zstd
// frames, so either side can decode the other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
