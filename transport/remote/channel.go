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

package remote

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/beanrpc/beanerrors"
)

// MaxFrameSize is the largest message a channel accepts.
const MaxFrameSize = 16 << 20

var errWriterReleased = errors.New("message writer already released")

// Channel is a bidirectional, message-oriented connection to one server.
type Channel interface {
	// Name identifies the channel in errors and logs.
	Name() string

	// NewMessage acquires the output side of the channel. Only one message
	// is written at a time; the writer must be released with Close, which
	// sends the message, or Cancel, which discards it.
	NewMessage(ctx context.Context) (MessageWriter, error)

	// Receive blocks until the next complete message arrives.
	Receive() ([]byte, error)

	// Close closes the channel and unblocks Receive.
	Close() error
}

// MessageWriter buffers one outgoing message.
type MessageWriter interface {
	io.Writer

	// Close sends the message and releases the channel.
	Close() error

	// Cancel discards the message and releases the channel. It is a no-op
	// after Close.
	Cancel()
}

// framedChannel carries messages over a net.Conn, each prefixed with its
// length as a 4-byte big-endian integer.
type framedChannel struct {
	name string
	conn net.Conn
	r    *bufio.Reader

	sem       chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// NewChannel returns a Channel over conn.
func NewChannel(name string, conn net.Conn) Channel {
	return &framedChannel{
		name:   name,
		conn:   conn,
		r:      bufio.NewReader(conn),
		sem:    make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *framedChannel) Name() string { return c.name }

func (c *framedChannel) NewMessage(ctx context.Context) (MessageWriter, error) {
	select {
	case c.sem <- struct{}{}:
	case <-c.closed:
		return nil, beanerrors.ChannelNotReady(c.name, "new message")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case <-c.closed:
		<-c.sem
		return nil, beanerrors.ChannelNotReady(c.name, "new message")
	default:
	}
	return &frameWriter{c: c}, nil
}

func (c *framedChannel) release() { <-c.sem }

func (c *framedChannel) Receive() ([]byte, error) {
	var size [4]byte
	if _, err := io.ReadFull(c.r, size[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(size[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds the %d byte limit", n, MaxFrameSize)
	}
	frame := make([]byte, n)
	if _, err := io.ReadFull(c.r, frame); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return frame, nil
}

func (c *framedChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

type frameWriter struct {
	c    *framedChannel
	buf  bytes.Buffer
	done bool
}

func (w *frameWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, errWriterReleased
	}
	if w.buf.Len()+len(p) > MaxFrameSize {
		return 0, fmt.Errorf("message exceeds the %d byte limit", MaxFrameSize)
	}
	return w.buf.Write(p)
}

func (w *frameWriter) Close() error {
	if w.done {
		return errWriterReleased
	}
	w.done = true
	defer w.c.release()

	frame := make([]byte, 4+w.buf.Len())
	binary.BigEndian.PutUint32(frame, uint32(w.buf.Len()))
	copy(frame[4:], w.buf.Bytes())
	_, err := w.c.conn.Write(frame)
	return err
}

func (w *frameWriter) Cancel() {
	if w.done {
		return
	}
	w.done = true
	w.c.release()
}
