package compress

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; each carries a hash table worth reusing.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4MaxDecompressedSize bounds the adaptive decompression buffer.
const lz4MaxDecompressedSize = 128 * 1024 * 1024

// LZ4Compressor compresses buffers as raw LZ4 blocks.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data as a single LZ4 block.
//
// Incompressible input yields an empty block from the lz4 library; in that case the
// data is stored as an uncompressed-literal block so that Decompress stays symmetric.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, errors.Wrap(err, "lz4 compression failed")
	}
	if n == 0 {
		return literalLZ4Block(data), nil
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block whose original size is unknown.
//
// The destination starts at 4x the compressed size and doubles on
// ErrInvalidSourceShortBuffer, up to a 128MiB limit.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	for bufSize <= lz4MaxDecompressedSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < lz4MaxDecompressedSize {
				bufSize *= 2
				continue
			}

			return nil, errors.Wrap(err, "lz4 decompression failed")
		}

		return buf[:n], nil
	}

	return nil, errors.Wrap(lz4.ErrInvalidSourceShortBuffer, "lz4 decompression exceeded size limit")
}

// literalLZ4Block encodes data as one LZ4 sequence made only of literals.
func literalLZ4Block(data []byte) []byte {
	n := len(data)
	out := make([]byte, 0, n+n/255+2)

	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		rem := n - 15
		for rem >= 255 {
			out = append(out, 255)
			rem -= 255
		}
		out = append(out, byte(rem))
	}

	return append(out, data...)
}
