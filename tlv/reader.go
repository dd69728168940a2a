package tlv

import (
	"io"
)

// Reader reads from an in-memory DER encoding and keeps track of the absolute
// offset of its read position. The zero value is an empty reader at offset 0.
//
// A Reader carries a mutable cursor and must not be shared between concurrent
// decodes.
type Reader struct {
	b    []byte
	i    int // read position in b
	base int // absolute offset of b[0]
}

// NewReader returns a Reader reading from b. The first byte of b is located at
// the absolute offset base.
func NewReader(b []byte, base int) *Reader {
	return &Reader{b: b, base: base}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.b) - r.i
}

// Offset returns the absolute offset of the next unread byte.
func (r *Reader) Offset() int {
	return r.base + r.i
}

// ReadByte implements [io.ByteReader].
func (r *Reader) ReadByte() (byte, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	b := r.b[r.i]
	r.i++
	return b, nil
}

// Read implements [io.Reader].
func (r *Reader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

// Next returns a slice of the next n unread bytes and advances the reader. The
// slice shares memory with the input. If fewer than n bytes remain, Next
// returns [io.ErrUnexpectedEOF] and does not advance.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.b[r.i : r.i+n : r.i+n]
	r.i += n
	return b, nil
}

// Since returns the bytes read since the absolute offset start. start must not
// be before the beginning of the input of r.
func (r *Reader) Since(start int) []byte {
	return r.b[start-r.base : r.i : r.i]
}
