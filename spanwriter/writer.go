// Package spanwriter defines the byte writer capability used by the flatbin write engine.
//
// A SpanWriter stores primitive scalars and byte runs into a caller-owned byte region
// at absolute offsets. It never allocates and never moves a cursor: space is claimed
// beforehand through serialize.Context, and the writer only fills it in.
//
// The flatbin wire format is little-endian. LittleEndianWriter is the raw implementation
// used by default; other implementations (instrumented or bounds-checking writers, for
// example) can be substituted as long as they keep that byte order.
//
// Offsets passed to a SpanWriter must lie inside the region; out-of-range offsets panic
// exactly like slice indexing.
package spanwriter

import (
	"math"

	"github.com/arloliu/flatbin/endian"
)

// Canonical boolean bytes.
const (
	True  byte = 1
	False byte = 0
)

// SpanWriter writes primitive values into buf at absolute offsets.
type SpanWriter interface {
	WriteUint8(buf []byte, value uint8, offset int)
	WriteInt8(buf []byte, value int8, offset int)
	WriteUint16(buf []byte, value uint16, offset int)
	WriteInt16(buf []byte, value int16, offset int)
	WriteUint32(buf []byte, value uint32, offset int)
	WriteInt32(buf []byte, value int32, offset int)
	WriteUint64(buf []byte, value uint64, offset int)
	WriteInt64(buf []byte, value int64, offset int)
	WriteFloat32(buf []byte, value float32, offset int)
	WriteFloat64(buf []byte, value float64, offset int)

	// WriteBytes copies data to buf starting at offset and returns the number of bytes copied.
	WriteBytes(buf []byte, data []byte, offset int) int
	// PutString copies the UTF-8 bytes of value to buf starting at offset and returns
	// the number of bytes copied.
	PutString(buf []byte, value string, offset int) int
}

// LittleEndianWriter is the raw little-endian SpanWriter.
//
// It is a small value type; copying it is cheap and it is safe for concurrent use on
// disjoint buffers.
type LittleEndianWriter struct {
	engine endian.EndianEngine
}

var _ SpanWriter = LittleEndianWriter{}

// NewLittleEndianWriter creates a writer backed by the little-endian engine.
func NewLittleEndianWriter() LittleEndianWriter {
	return LittleEndianWriter{engine: endian.GetLittleEndianEngine()}
}

// WriteUint8 stores value at offset.
func (w LittleEndianWriter) WriteUint8(buf []byte, value uint8, offset int) {
	buf[offset] = value
}

// WriteInt8 stores value at offset as its two's complement byte.
func (w LittleEndianWriter) WriteInt8(buf []byte, value int8, offset int) {
	buf[offset] = byte(value)
}

// WriteUint16 stores value little-endian at offset.
func (w LittleEndianWriter) WriteUint16(buf []byte, value uint16, offset int) {
	w.engine.PutUint16(buf[offset:], value)
}

// WriteInt16 stores value little-endian at offset.
func (w LittleEndianWriter) WriteInt16(buf []byte, value int16, offset int) {
	w.engine.PutUint16(buf[offset:], uint16(value)) //nolint:gosec
}

// WriteUint32 stores value little-endian at offset.
func (w LittleEndianWriter) WriteUint32(buf []byte, value uint32, offset int) {
	w.engine.PutUint32(buf[offset:], value)
}

// WriteInt32 stores value little-endian at offset.
func (w LittleEndianWriter) WriteInt32(buf []byte, value int32, offset int) {
	w.engine.PutUint32(buf[offset:], uint32(value)) //nolint:gosec
}

// WriteUint64 stores value little-endian at offset.
func (w LittleEndianWriter) WriteUint64(buf []byte, value uint64, offset int) {
	w.engine.PutUint64(buf[offset:], value)
}

// WriteInt64 stores value little-endian at offset.
func (w LittleEndianWriter) WriteInt64(buf []byte, value int64, offset int) {
	w.engine.PutUint64(buf[offset:], uint64(value)) //nolint:gosec
}

// WriteFloat32 stores the IEEE 754 bits of value little-endian at offset.
func (w LittleEndianWriter) WriteFloat32(buf []byte, value float32, offset int) {
	w.engine.PutUint32(buf[offset:], math.Float32bits(value))
}

// WriteFloat64 stores the IEEE 754 bits of value little-endian at offset.
func (w LittleEndianWriter) WriteFloat64(buf []byte, value float64, offset int) {
	w.engine.PutUint64(buf[offset:], math.Float64bits(value))
}

// WriteBytes copies data to buf at offset and returns len(data).
// Panics if the region is shorter than offset+len(data).
func (w LittleEndianWriter) WriteBytes(buf []byte, data []byte, offset int) int {
	return copy(buf[offset:offset+len(data)], data)
}

// PutString copies the bytes of value to buf at offset and returns len(value).
// Panics if the region is shorter than offset+len(value).
func (w LittleEndianWriter) PutString(buf []byte, value string, offset int) int {
	return copy(buf[offset:offset+len(value)], value)
}
