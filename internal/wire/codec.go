// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

var (
	errNegativePacked = errors.New("packed integers must not be negative")
	errPackedOverflow = errors.New("packed integer overflows int32")
	errUTFTooLong     = errors.New("string too long for a 2-byte length prefix")
	errInvalidUTF     = errors.New("string is not valid UTF-8")
)

// AppendPackedInt appends the packed form of v: 7 bits per byte, least
// significant group first, high bit set on every byte but the last.
func AppendPackedInt(b []byte, v int) []byte {
	return binary.AppendUvarint(b, uint64(v))
}

// ReadPackedInt reads a packed integer written by AppendPackedInt.
func ReadPackedInt(r io.ByteReader) (int, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, errPackedOverflow
	}
	return int(v), nil
}

// Writer encodes message fields. The first failure is kept and every later
// write is skipped; check Err once at the end.
type Writer struct {
	w       io.Writer
	err     error
	scratch [binary.MaxVarintLen64]byte
}

// NewWriter returns a Writer encoding onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

// WriteHeader writes a message type.
func (w *Writer) WriteHeader(h Header) { w.WriteUint8(byte(h)) }

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v byte) {
	w.scratch[0] = v
	w.write(w.scratch[:1])
}

// WriteBool writes 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteUint16 writes v big-endian.
func (w *Writer) WriteUint16(v uint16) {
	binary.BigEndian.PutUint16(w.scratch[:2], v)
	w.write(w.scratch[:2])
}

// WriteInt32 writes v big-endian.
func (w *Writer) WriteInt32(v int32) {
	binary.BigEndian.PutUint32(w.scratch[:4], uint32(v))
	w.write(w.scratch[:4])
}

// WritePackedInt writes v as a packed integer.
func (w *Writer) WritePackedInt(v int) {
	if w.err != nil {
		return
	}
	if v < 0 {
		w.err = errNegativePacked
		return
	}
	if v > math.MaxInt32 {
		w.err = errPackedOverflow
		return
	}
	w.write(AppendPackedInt(w.scratch[:0], v))
}

// WriteLenBytes writes the length of b as a packed integer followed by b.
func (w *Writer) WriteLenBytes(b []byte) {
	w.WritePackedInt(len(b))
	w.write(b)
}

// WriteUTF writes s as a 2-byte big-endian length followed by its UTF-8
// bytes.
func (w *Writer) WriteUTF(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		w.err = errUTFTooLong
		return
	}
	if !utf8.ValidString(s) {
		w.err = errInvalidUTF
		return
	}
	w.WriteUint16(uint16(len(s)))
	w.write([]byte(s))
}

// WriteRaw writes b unchanged.
func (w *Writer) WriteRaw(b []byte) { w.write(b) }

type byteReader interface {
	io.Reader
	io.ByteReader
}

// sizedReader is implemented by inputs that know how many bytes are left,
// like *bytes.Reader.
type sizedReader interface {
	Len() int
}

// Reader decodes message fields. Like Writer, it keeps the first error.
type Reader struct {
	r       byteReader
	err     error
	scratch [4]byte
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// Err returns the first error encountered. A clean end of input in the
// middle of a field is reported as io.ErrUnexpectedEOF.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fill(b []byte) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return false
	}
	return true
}

// ReadHeader reads a message type.
func (r *Reader) ReadHeader() Header { return Header(r.ReadUint8()) }

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() byte {
	if !r.fill(r.scratch[:1]) {
		return 0
	}
	return r.scratch[0]
}

// ReadBool reads a byte and reports whether it is non-zero.
func (r *Reader) ReadBool() bool { return r.ReadUint8() != 0 }

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() uint16 {
	if !r.fill(r.scratch[:2]) {
		return 0
	}
	return binary.BigEndian.Uint16(r.scratch[:2])
}

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() int32 {
	if !r.fill(r.scratch[:4]) {
		return 0
	}
	return int32(binary.BigEndian.Uint32(r.scratch[:4]))
}

// ReadPackedInt reads a packed integer.
func (r *Reader) ReadPackedInt() int {
	if r.err != nil {
		return 0
	}
	v, err := ReadPackedInt(r.r)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return 0
	}
	return v
}

// remaining reports how many bytes are left in the input, or -1 when the
// input does not know.
func (r *Reader) remaining() int {
	if sr, ok := r.r.(sizedReader); ok {
		return sr.Len()
	}
	return -1
}

// ReadCount reads a packed element count. Every element takes at least one
// byte, so a count larger than the input left fails the Reader.
func (r *Reader) ReadCount() int {
	n := r.ReadPackedInt()
	if r.err != nil {
		return 0
	}
	if left := r.remaining(); left >= 0 && n > left {
		r.err = fmt.Errorf("count of %d exceeds the %d bytes left", n, left)
		return 0
	}
	return n
}

// ReadLenBytes reads a packed length followed by that many bytes. Memory
// grows with the bytes actually read, never with the length alone.
func (r *Reader) ReadLenBytes() []byte {
	n := r.ReadPackedInt()
	if r.err != nil {
		return nil
	}
	left := r.remaining()
	if left >= 0 {
		if n > left {
			r.err = fmt.Errorf("length of %d exceeds the %d bytes left", n, left)
			return nil
		}
		b := make([]byte, n)
		if !r.fill(b) {
			return nil
		}
		return b
	}

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r.r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return nil
	}
	if buf.Len() == 0 {
		return []byte{}
	}
	return buf.Bytes()
}

// ReadUTF reads a string written by WriteUTF.
func (r *Reader) ReadUTF() string {
	n := r.ReadUint16()
	if r.err != nil {
		return ""
	}
	if left := r.remaining(); left >= 0 && int(n) > left {
		r.err = fmt.Errorf("string of %d bytes exceeds the %d bytes left", n, left)
		return ""
	}
	b := make([]byte, n)
	if !r.fill(b) {
		return ""
	}
	if !utf8.Valid(b) {
		r.err = errInvalidUTF
		return ""
	}
	return string(b)
}

// ReadRest reads everything left in the input.
func (r *Reader) ReadRest() []byte {
	if r.err != nil {
		return nil
	}
	b, err := io.ReadAll(r.r)
	if err != nil {
		r.err = err
		return nil
	}
	return b
}

// Failf records a decoding error unless one is already set.
func (r *Reader) Failf(format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}
