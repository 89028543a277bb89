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
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedIntEncoding(t *testing.T) {
	tests := []struct {
		give int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{math.MaxInt32, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
	}

	for _, tt := range tests {
		got := AppendPackedInt(nil, tt.give)
		assert.Equal(t, tt.want, got, "encoding %d", tt.give)

		v, err := ReadPackedInt(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, tt.give, v)
	}
}

func TestReadPackedIntOverflow(t *testing.T) {
	_, err := ReadPackedInt(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}))
	assert.Equal(t, errPackedOverflow, err)
}

func TestWritePackedIntRejectsNegative(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WritePackedInt(-1)
	w.WriteUint8(1)
	assert.Equal(t, errNegativePacked, w.Err())
	assert.Zero(t, buf.Len())
}

func TestTransactionIDRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 16, 127, 128, 129, 1000, 70000}
	for _, size := range sizes {
		id := make([]byte, size)
		for i := range id {
			id[i] = byte(i * 7)
		}

		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.WriteLenBytes(id)
		require.NoError(t, w.Err())

		r := NewReader(&buf)
		got := r.ReadLenBytes()
		require.NoError(t, r.Err())
		assert.Equal(t, id, got, "size %d", size)
		assert.Zero(t, buf.Len(), "size %d left bytes behind", size)
	}
}

func TestMessageFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteHeader(HeaderTxCommit)
	w.WriteUint16(0xBEEF)
	w.WriteLenBytes([]byte("xid"))
	w.WriteBool(true)
	w.WriteUTF("node-ü")
	w.WriteInt32(-7)
	w.WriteRaw([]byte("tail"))
	require.NoError(t, w.Err())

	assert.Equal(t, []byte{0x0F, 0xBE, 0xEF, 0x03, 'x', 'i', 'd', 0x01}, buf.Bytes()[:8])

	r := NewReader(bytes.NewReader(buf.Bytes()))
	assert.Equal(t, HeaderTxCommit, r.ReadHeader())
	assert.Equal(t, uint16(0xBEEF), r.ReadUint16())
	assert.Equal(t, []byte("xid"), r.ReadLenBytes())
	assert.True(t, r.ReadBool())
	assert.Equal(t, "node-ü", r.ReadUTF())
	assert.Equal(t, int32(-7), r.ReadInt32())
	assert.Equal(t, []byte("tail"), r.ReadRest())
	assert.NoError(t, r.Err())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x0F, 0x00}))
	r.ReadHeader()
	r.ReadUint16()
	assert.Equal(t, io.ErrUnexpectedEOF, r.Err())

	// later reads are no-ops
	assert.Nil(t, r.ReadLenBytes())
	assert.Equal(t, io.ErrUnexpectedEOF, r.Err())
}

func TestReaderFromPlainReader(t *testing.T) {
	r := NewReader(strings.NewReader("\x00\x02hi"))
	assert.Equal(t, "hi", r.ReadUTF())
	require.NoError(t, r.Err())
}

func TestReaderRejectsLengthsBeyondInput(t *testing.T) {
	huge := AppendPackedInt(nil, math.MaxInt32)

	t.Run("count", func(t *testing.T) {
		r := NewReader(bytes.NewReader(append(huge, 0x01, 0x02)))
		assert.Equal(t, 0, r.ReadCount())
		assert.EqualError(t, r.Err(), "count of 2147483647 exceeds the 2 bytes left")
	})

	t.Run("count fits", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{0x02, 0x01, 0x02}))
		assert.Equal(t, 2, r.ReadCount())
		require.NoError(t, r.Err())
	})

	t.Run("bytes", func(t *testing.T) {
		r := NewReader(bytes.NewReader(append(huge, 'x')))
		assert.Nil(t, r.ReadLenBytes())
		assert.EqualError(t, r.Err(), "length of 2147483647 exceeds the 1 bytes left")
	})

	t.Run("string", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{0xFF, 0xFF, 'h', 'i'}))
		assert.Equal(t, "", r.ReadUTF())
		assert.EqualError(t, r.Err(), "string of 65535 bytes exceeds the 2 bytes left")
	})

	t.Run("unsized input", func(t *testing.T) {
		// io.MultiReader hides the length of its input.
		r := NewReader(io.MultiReader(bytes.NewReader(append(huge, "abc"...))))
		assert.Nil(t, r.ReadLenBytes())
		assert.Equal(t, io.ErrUnexpectedEOF, r.Err())
	})

	t.Run("unsized input fits", func(t *testing.T) {
		r := NewReader(io.MultiReader(bytes.NewReader([]byte{0x03, 'a', 'b', 'c', 0x00})))
		assert.Equal(t, []byte("abc"), r.ReadLenBytes())
		assert.Equal(t, []byte{}, r.ReadLenBytes())
		require.NoError(t, r.Err())
	})
}

func TestWriteUTFTooLong(t *testing.T) {
	w := NewWriter(io.Discard)
	w.WriteUTF(strings.Repeat("a", math.MaxUint16+1))
	assert.Equal(t, errUTFTooLong, w.Err())
}

func TestHeaders(t *testing.T) {
	assert.Equal(t, "tx-recover", HeaderTxRecover.String())
	assert.Equal(t, "header(0x7F)", Header(0x7F).String())
	assert.Equal(t, byte(2), HeaderTxRecover.MinVersion())
	assert.Equal(t, byte(1), HeaderTxCommit.MinVersion())
	assert.False(t, HeaderModuleAvailable.Correlated())
	assert.True(t, HeaderTxResponse.Correlated())

	// fixed by the protocol
	assert.Equal(t, Header(0x0F), HeaderTxCommit)
	assert.Equal(t, Header(0x10), HeaderTxRollback)
	assert.Equal(t, Header(0x11), HeaderTxPrepare)
	assert.Equal(t, Header(0x12), HeaderTxForget)
	assert.Equal(t, Header(0x13), HeaderTxBeforeCompletion)
	assert.Equal(t, Header(0x19), HeaderTxRecover)
	assert.Equal(t, Header(0x1B), HeaderCompressed)
}
