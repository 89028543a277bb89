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
	"net"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/api/transport/transporttest"
	"go.uber.org/beanrpc/encoding/raw"
	"go.uber.org/beanrpc/internal/wire"
	"go.uber.org/zap"
)

const testWait = time.Second

var (
	testModule = transport.ModuleID{App: "shop", Module: "cart"}
	testID     = transport.Identifier{App: "shop", Module: "cart", Bean: "CartBean"}
	testDest   = &url.URL{Scheme: Scheme, Host: "beans:4447"}
)

// fakeServer is the server end of a piped connection.
type fakeServer struct {
	ch Channel
	in chan []byte
}

func newFakeServer(conn net.Conn) *fakeServer {
	s := &fakeServer{
		ch: NewChannel("client", conn),
		in: make(chan []byte, 64),
	}
	go func() {
		defer close(s.in)
		for {
			frame, err := s.ch.Receive()
			if err != nil {
				return
			}
			s.in <- frame
		}
	}()
	return s
}

func (s *fakeServer) Close() { _ = s.ch.Close() }

func (s *fakeServer) write(fn func(w *wire.Writer)) error {
	mw, err := s.ch.NewMessage(context.Background())
	if err != nil {
		return err
	}
	w := wire.NewWriter(mw)
	fn(w)
	if err := w.Err(); err != nil {
		mw.Cancel()
		return err
	}
	return mw.Close()
}

func (s *fakeServer) greet(version byte, node string, strategies ...string) error {
	return s.write(func(w *wire.Writer) {
		w.WriteUint8(version)
		w.WritePackedInt(len(strategies))
		for _, st := range strategies {
			w.WriteUTF(st)
		}
		w.WriteUTF(node)
	})
}

func (s *fakeServer) reportModules(available bool, modules ...transport.ModuleID) error {
	h := wire.HeaderModuleAvailable
	if !available {
		h = wire.HeaderModuleUnavailable
	}
	return s.write(func(w *wire.Writer) {
		w.WriteHeader(h)
		w.WritePackedInt(len(modules))
		for _, m := range modules {
			w.WriteUTF(m.App)
			w.WriteUTF(m.Module)
			w.WriteUTF(m.Distinct)
		}
	})
}

func (s *fakeServer) reply(h wire.Header, id uint16, body func(w *wire.Writer)) error {
	return s.write(func(w *wire.Writer) {
		w.WriteHeader(h)
		w.WriteUint16(id)
		if body != nil {
			body(w)
		}
	})
}

func (s *fakeServer) replyCompressed(h wire.Header, id uint16, body func(w *wire.Writer)) error {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	w := wire.NewWriter(zw)
	w.WriteHeader(h)
	w.WriteUint16(id)
	body(w)
	if err := w.Err(); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return s.write(func(w *wire.Writer) {
		w.WriteHeader(wire.HeaderCompressed)
		w.WriteRaw(buf.Bytes())
	})
}

func (s *fakeServer) nextFrame() ([]byte, bool) {
	select {
	case frame, ok := <-s.in:
		return frame, ok
	case <-time.After(testWait):
		return nil, false
	}
}

// message is one request the client sent.
type message struct {
	header     wire.Header
	id         uint16
	body       *wire.Reader
	compressed bool
}

func (s *fakeServer) next(t *testing.T) message {
	t.Helper()
	frame, ok := s.nextFrame()
	require.True(t, ok, "no message from client")
	require.NotEmpty(t, frame)

	var (
		src        = bytes.NewReader(frame)
		compressed bool
	)
	if wire.Header(frame[0]) == wire.HeaderCompressed {
		zr, err := zlib.NewReader(bytes.NewReader(frame[1:]))
		require.NoError(t, err)
		var out bytes.Buffer
		_, err = out.ReadFrom(zr)
		require.NoError(t, err)
		src = bytes.NewReader(out.Bytes())
		compressed = true
	}
	r := wire.NewReader(src)
	m := message{header: r.ReadHeader(), id: r.ReadUint16(), body: r, compressed: compressed}
	require.NoError(t, r.Err())
	return m
}

// serve is the script of a well-behaved server: greet, read the client's
// answer and report modules.
func serve(version byte, node string, modules ...transport.ModuleID) func(*fakeServer) {
	return func(s *fakeServer) {
		if s.greet(version, node, raw.Name) != nil {
			return
		}
		if _, ok := s.nextFrame(); !ok {
			return
		}
		_ = s.reportModules(true, modules...)
	}
}

// pipeDialer connects to fake servers over in-memory pipes. Each dial runs
// script against the new server.
type pipeDialer struct {
	mu      sync.Mutex
	script  func(*fakeServer)
	servers []*fakeServer
	dials   int
	fail    error
}

func (d *pipeDialer) setScript(fn func(*fakeServer)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = fn
}

func (d *pipeDialer) setFailure(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *pipeDialer) dialed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *pipeDialer) Dial(ctx context.Context, dest *url.URL, sec Security) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.fail != nil {
		return nil, d.fail
	}
	client, server := net.Pipe()
	s := newFakeServer(server)
	d.servers = append(d.servers, s)
	if d.script != nil {
		go d.script(s)
	}
	return client, nil
}

func (d *pipeDialer) server(t *testing.T, i int) *fakeServer {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.True(t, len(d.servers) > i, "server %d was never dialed", i)
	return d.servers[i]
}

func (d *pipeDialer) closeAll() {
	d.mu.Lock()
	servers := d.servers
	d.mu.Unlock()
	for _, s := range servers {
		s.Close()
	}
}

// fakeReceiverContext is a minimal transport.ReceiverContext.
type fakeReceiverContext struct {
	timeout time.Duration
	static  []*url.URL

	mu            sync.Mutex
	receivers     map[string]transport.Receiver
	reconnectors  []transport.Reconnector
	registrations int
	closers       []func()
	closed        bool
}

var _ transport.ReceiverContext = (*fakeReceiverContext)(nil)

func newFakeReceiverContext() *fakeReceiverContext {
	return &fakeReceiverContext{receivers: make(map[string]transport.Receiver)}
}

func (rc *fakeReceiverContext) RegisterReceiver(r transport.Receiver) {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		_ = r.Close()
		return
	}
	rc.receivers[r.Destination().String()] = r
	rc.mu.Unlock()
}

func (rc *fakeReceiverContext) UnregisterReceiver(r transport.Receiver) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.receivers[r.Destination().String()] == r {
		delete(rc.receivers, r.Destination().String())
	}
}

func (rc *fakeReceiverContext) LiveReceiver(dest *url.URL) transport.Receiver {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.receivers[dest.String()]
}

func (rc *fakeReceiverContext) RegisterReconnector(r transport.Reconnector) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.registrations++
	rc.reconnectors = append(rc.reconnectors, r)
}

func (rc *fakeReceiverContext) UnregisterReconnector(r transport.Reconnector) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for i, x := range rc.reconnectors {
		if x == r {
			rc.reconnectors = append(rc.reconnectors[:i], rc.reconnectors[i+1:]...)
			return
		}
	}
}

func (rc *fakeReceiverContext) OnClose(fn func()) {
	rc.mu.Lock()
	if !rc.closed {
		rc.closers = append(rc.closers, fn)
		rc.mu.Unlock()
		return
	}
	rc.mu.Unlock()
	fn()
}

func (rc *fakeReceiverContext) StaticConnections() []*url.URL    { return rc.static }
func (rc *fakeReceiverContext) InvocationTimeout() time.Duration { return rc.timeout }
func (rc *fakeReceiverContext) Marshaller() transport.Marshaller { return raw.Marshaller{} }
func (rc *fakeReceiverContext) Logger() *zap.Logger              { return zap.NewNop() }

func (rc *fakeReceiverContext) pendingReconnectors() []transport.Reconnector {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return append([]transport.Reconnector(nil), rc.reconnectors...)
}

func (rc *fakeReceiverContext) registered() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.registrations
}

func (rc *fakeReceiverContext) close() {
	rc.mu.Lock()
	rc.closed = true
	closers := rc.closers
	receivers := rc.receivers
	rc.closers = nil
	rc.receivers = make(map[string]transport.Receiver)
	rc.mu.Unlock()

	for _, fn := range closers {
		fn()
	}
	for _, r := range receivers {
		_ = r.Close()
	}
}

// setup returns a transport dialing through a pipeDialer. Everything is
// torn down when the test ends.
func setup(t *testing.T, opts ...TransportOption) (*Transport, *fakeReceiverContext, *pipeDialer) {
	d := &pipeDialer{}
	rc := newFakeReceiverContext()
	opts = append([]TransportOption{
		WithDialer(d),
		DisableBackgroundReconnect(),
		ModuleWait(testWait),
	}, opts...)
	t.Cleanup(func() {
		rc.close()
		d.closeAll()
	})
	return NewTransport(opts...), rc, d
}

// connect dials testDest against a server speaking version.
func connect(t *testing.T, version byte, opts ...TransportOption) (*receiver, *fakeServer, *fakeReceiverContext) {
	t.Helper()
	tr, rc, d := setup(t, opts...)
	d.setScript(serve(version, "node-1", testModule))

	r, err := tr.Receiver(context.Background(), rc, testDest)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r.(*receiver), d.server(t, 0), rc
}

func newCall(method string, a transport.Attachments) (*transport.Call, *transporttest.ResultRecorder) {
	rec := transporttest.NewResultRecorder()
	return &transport.Call{
		Request: &transport.Request{
			Locator:     transport.NewLocator(testID, "Cart"),
			Method:      transport.MethodLocator{Name: method, ParameterTypes: []string{"string"}},
			Payload:     []byte("args"),
			Attachments: a,
		},
		Sink: rec,
	}, rec
}
