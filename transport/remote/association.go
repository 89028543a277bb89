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
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/atomic"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/internal/wire"
	"go.uber.org/zap"
)

type state int32

const (
	stateOpening state = iota
	stateHandshaking
	stateReady
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateOpening:
		return "opening"
	case stateHandshaking:
		return "handshaking"
	case stateReady:
		return "ready"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// maxOutstanding is the number of distinct invocation IDs.
const maxOutstanding = 1 << 16

// compression selects how send encodes a message.
type compression struct {
	enabled bool
	level   int
}

var uncompressed = compression{}

// responseHandler consumes the response to one outstanding request. Exactly
// one of handle or fail is called, on the association's read goroutine or
// on the goroutine closing it.
type responseHandler interface {
	handle(h wire.Header, r *wire.Reader)
	fail(err error)
}

// association is the protocol state of one channel: the negotiated
// version, the outstanding requests by invocation ID and the modules the
// server reported.
type association struct {
	ch      Channel
	dest    string
	logger  *zap.Logger
	metrics *metrics

	state atomic.Int32

	mu          sync.Mutex
	version     byte
	node        string
	nextID      uint16
	pending     map[uint16]responseHandler
	modules     map[transport.ModuleID]struct{}
	firstReport chan struct{}
	reported    bool
	onClose     func(cause error)

	closed    chan struct{}
	closeOnce sync.Once
}

func newAssociation(ch Channel, dest string, logger *zap.Logger, m *metrics) *association {
	return &association{
		ch:          ch,
		dest:        dest,
		logger:      logger.With(zap.String("channel", ch.Name())),
		metrics:     m,
		pending:     make(map[uint16]responseHandler),
		modules:     make(map[transport.ModuleID]struct{}),
		firstReport: make(chan struct{}),
		closed:      make(chan struct{}),
	}
}

func (a *association) setState(s state) { a.state.Store(int32(s)) }

func (a *association) getState() state { return state(a.state.Load()) }

func (a *association) ready(version byte, node string) {
	a.mu.Lock()
	a.version = version
	a.node = node
	a.mu.Unlock()
	a.setState(stateReady)
	a.logger.Debug("protocol version negotiated",
		zap.Uint8("version", version), zap.String("node", node))
}

func (a *association) Version() byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version
}

func (a *association) NodeName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.node
}

// supports reports whether the negotiated version understands h.
func (a *association) supports(h wire.Header) bool {
	return a.Version() >= h.MinVersion()
}

// setOnClose sets the function run once the association closes. cause is
// nil when the association was closed on purpose.
func (a *association) setOnClose(fn func(cause error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onClose = fn
}

func (a *association) start() {
	go a.readLoop()
}

// awaitModules waits up to wait for the first module availability report.
func (a *association) awaitModules(ctx context.Context, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-a.firstReport:
		return true
	case <-timer.C:
	case <-ctx.Done():
	case <-a.closed:
	}
	return false
}

func (a *association) serves(m transport.ModuleID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.modules[m]
	return ok
}

func (a *association) notReady(context string) error {
	return beanerrors.ChannelNotReady(a.ch.Name(), context)
}

// register reserves an invocation ID for h. IDs wrap around and skip the
// ones still outstanding.
func (a *association) register(h responseHandler) (uint16, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.getState() != stateReady {
		return 0, a.notReady("new invocation")
	}
	if len(a.pending) >= maxOutstanding {
		return 0, beanerrors.Newf(beanerrors.CodeChannelNotReady,
			"all %d invocation IDs of channel %s are in use", maxOutstanding, a.ch.Name())
	}
	for {
		id := a.nextID
		a.nextID++
		if _, busy := a.pending[id]; !busy {
			a.pending[id] = h
			return id, nil
		}
	}
}

// take removes and returns the handler waiting on id.
func (a *association) take(id uint16) responseHandler {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, ok := a.pending[id]
	if !ok {
		return nil
	}
	delete(a.pending, id)
	return h
}

func (a *association) outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// send writes one message. With compression enabled the message is
// preceded by the compressed marker and zlib-compressed. The
// channel's writer is always released; a failed write discards the partial
// message.
func (a *association) send(ctx context.Context, h wire.Header, id uint16, c compression, body func(*wire.Writer)) (err error) {
	mw, err := a.ch.NewMessage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			mw.Cancel()
			a.metrics.sendFailures.Inc(1)
			return
		}
		err = mw.Close()
		if err == nil {
			a.metrics.sent.Inc(1)
		}
	}()

	var (
		out io.Writer = mw
		zw  *zlib.Writer
	)
	if c.enabled {
		if _, err := mw.Write([]byte{byte(wire.HeaderCompressed)}); err != nil {
			return err
		}
		zw, err = zlib.NewWriterLevel(mw, c.level)
		if err != nil {
			return err
		}
		out = zw
		a.metrics.compressed.Inc(1)
	}

	w := wire.NewWriter(out)
	w.WriteHeader(h)
	w.WriteUint16(id)
	if body != nil {
		body(w)
	}
	if err := w.Err(); err != nil {
		return err
	}
	if zw != nil {
		return zw.Close()
	}
	return nil
}

func (a *association) readLoop() {
	for {
		frame, err := a.ch.Receive()
		if err != nil {
			a.close(err)
			return
		}
		a.dispatch(frame)
	}
}

func (a *association) dispatch(frame []byte) {
	if len(frame) == 0 {
		a.logger.Warn("discarding empty message")
		return
	}

	if wire.Header(frame[0]) == wire.HeaderCompressed {
		inflated, err := inflate(frame[1:])
		if err != nil {
			a.logger.Warn("discarding undecodable compressed message", zap.Error(err))
			return
		}
		frame = inflated
	}

	r := wire.NewReader(bytes.NewReader(frame))
	h := r.ReadHeader()
	if r.Err() != nil {
		a.logger.Warn("discarding message without header", zap.Error(r.Err()))
		return
	}

	switch h {
	case wire.HeaderModuleAvailable:
		a.updateModules(r, true)
		return
	case wire.HeaderModuleUnavailable:
		a.updateModules(r, false)
		return
	}
	if !h.Correlated() {
		a.logger.Warn("discarding unexpected message", zap.Stringer("header", h))
		return
	}

	id := r.ReadUint16()
	if r.Err() != nil {
		a.logger.Warn("discarding message without invocation ID", zap.Stringer("header", h))
		return
	}
	handler := a.take(id)
	if handler == nil {
		a.metrics.discarded.Inc(1)
		a.logger.Warn("discarding response for unknown invocation",
			zap.Uint16("id", id), zap.Stringer("header", h))
		return
	}
	handler.handle(h, r)
}

// inflate decompresses the body of a compressed message. The result is held
// to the same limit as a frame.
func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, MaxFrameSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxFrameSize {
		return nil, fmt.Errorf("compressed message inflates beyond the %d byte limit", MaxFrameSize)
	}
	return out, nil
}

func (a *association) updateModules(r *wire.Reader, available bool) {
	modules, err := readModules(r)
	if err != nil {
		a.logger.Warn("discarding malformed module report", zap.Error(err))
		return
	}

	a.mu.Lock()
	for _, m := range modules {
		if available {
			a.modules[m] = struct{}{}
		} else {
			delete(a.modules, m)
		}
	}
	first := available && !a.reported
	if first {
		a.reported = true
	}
	a.mu.Unlock()

	if first {
		close(a.firstReport)
	}
	a.logger.Debug("module report received",
		zap.Bool("available", available), zap.Int("modules", len(modules)))
}

// close moves the association to its terminal state and resolves every
// outstanding request with a connection lost failure. cause is nil when the
// close was requested.
func (a *association) close(cause error) {
	a.closeOnce.Do(func() {
		a.setState(stateClosed)
		close(a.closed)

		a.mu.Lock()
		pending := a.pending
		a.pending = make(map[uint16]responseHandler)
		onClose := a.onClose
		a.mu.Unlock()

		if err := a.ch.Close(); err != nil {
			a.logger.Debug("failed to close channel", zap.Error(err))
		}
		if cause != nil {
			a.metrics.connectionsLost.Inc(1)
			a.logger.Info("channel closed", zap.Error(cause), zap.Int("pending", len(pending)))
		}

		lost := beanerrors.ConnectionLost(a.ch.Name(), cause)
		for _, h := range pending {
			h.fail(lost)
		}
		if onClose != nil {
			onClose(cause)
		}
	})
}

// Done is closed once the association is closed.
func (a *association) Done() <-chan struct{} { return a.closed }
