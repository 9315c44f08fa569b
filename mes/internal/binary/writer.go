package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Writer provides buffered writing utilities for script encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteCString writes data followed by a zero terminator.
func (w *Writer) WriteCString(data []byte) {
	w.buf.Write(data)
	w.buf.WriteByte(0)
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// PatchU32BE overwrites 4 already-written bytes at offset with a big-endian uint32.
func (w *Writer) PatchU32BE(offset int, v uint32) error {
	b := w.buf.Bytes()
	if offset < 0 || offset+4 > len(b) {
		return fmt.Errorf("patch at %d outside %d written bytes", offset, len(b))
	}
	binary.BigEndian.PutUint32(b[offset:offset+4], v)
	return nil
}
