// Package compress provides the codecs used to shrink finished flatbin buffers for
// storage or transport.
//
// Compression happens after a write pass completes and never touches the zero-copy
// layout itself: a reader decompresses the frame body once and then reads the flat
// buffer in place.
//
// Supported algorithms:
//   - None: the buffer is stored as-is
//   - Zstd: best ratio; pure Go (klauspost/compress) by default, cgo (valyala/gozstd)
//     when built with the gozstd tag
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// All built-in codecs are safe for concurrent use; encoder and decoder state is pooled
// internally.
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	body, err := codec.Compress(finished)
package compress
