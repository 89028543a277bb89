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
	"context"
	"net/url"
	"sync"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/internal/future"
	"go.uber.org/beanrpc/internal/wire"
	"go.uber.org/zap"
)

// receiver dispatches invocations over one association.
type receiver struct {
	t      *Transport
	rc     transport.ReceiverContext
	dest   *url.URL
	assoc  *association
	logger *zap.Logger

	mu    sync.Mutex
	calls map[*transport.Call]uint16
}

var _ transport.Receiver = (*receiver)(nil)

func newReceiver(t *Transport, rc transport.ReceiverContext, dest *url.URL, a *association) *receiver {
	return &receiver{
		t:      t,
		rc:     rc,
		dest:   dest,
		assoc:  a,
		logger: t.opts.logger.With(zap.String("destination", dest.String())),
		calls:  make(map[*transport.Call]uint16),
	}
}

func (r *receiver) NodeName() string { return r.assoc.NodeName() }

func (r *receiver) Destination() *url.URL { return r.dest }

func (r *receiver) Serves(id transport.Identifier) bool {
	return r.assoc.serves(id.ModuleID())
}

func (r *receiver) track(call *transport.Call, id uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[call] = id
}

func (r *receiver) untrack(call *transport.Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, call)
}

func (r *receiver) lookup(call *transport.Call) (uint16, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.calls[call]
	return id, ok
}

// compressionFor applies the compression hint for req. It returns how the
// request is to be written and the attachments to send with it.
func (r *receiver) compressionFor(req *transport.Request) (compression, transport.Attachments) {
	a := req.Attachments
	if !r.assoc.supports(wire.HeaderCompressed) || a.Bool(transport.HintsDisabled) {
		return uncompressed, a
	}
	hint, ok := a.CompressionHint(req.Method.Name)
	if !ok {
		return uncompressed, a
	}

	level := hint.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	if hint.CompressResponse {
		a = a.Clone()
		a[transport.CompressResponse] = true
		a[transport.ResponseCompressionLevel] = level
	}
	if !hint.CompressRequest {
		return uncompressed, a
	}
	return compression{enabled: true, level: level}, a
}

func (r *receiver) ProcessInvocation(ctx context.Context, call *transport.Call) error {
	c, attachments := r.compressionFor(call.Request)
	req := *call.Request
	req.Attachments = attachments

	id, err := r.assoc.register(&invocationHandler{r: r, call: call})
	if err != nil {
		return beanerrors.RequestSendFailed(r.NodeName(), err)
	}
	r.track(call, id)

	err = r.assoc.send(ctx, wire.HeaderInvocationRequest, id, c, func(w *wire.Writer) {
		writeInvocation(w, &req)
	})
	if err != nil {
		r.assoc.take(id)
		r.untrack(call)
		return beanerrors.RequestSendFailed(r.NodeName(), err)
	}
	return nil
}

// CancelInvocation sends an advisory cancellation for call. The server's
// answer, if any, arrives through the call's sink; it never confirms
// synchronously.
func (r *receiver) CancelInvocation(ctx context.Context, call *transport.Call) bool {
	id, ok := r.lookup(call)
	if !ok {
		return false
	}
	err := r.assoc.send(ctx, wire.HeaderInvocationCancel, id, uncompressed, func(w *wire.Writer) {
		w.WriteBool(true)
	})
	if err != nil {
		r.logger.Info("failed to send invocation cancellation",
			zap.Uint16("id", id), zap.Error(err))
	}
	return false
}

func (r *receiver) sessionOpenFailed(cause error) error {
	return beanerrors.Newf(beanerrors.CodeSessionOpenFailed,
		"failed to open session on %s", r.dest).WithNode(r.NodeName()).WithCause(cause)
}

func (r *receiver) OpenSession(ctx context.Context, loc transport.Locator) (transport.Locator, error) {
	f := future.New()
	id, err := r.assoc.register(&sessionHandler{r: r, loc: loc, f: f})
	if err != nil {
		return transport.Locator{}, r.sessionOpenFailed(err)
	}
	err = r.assoc.send(ctx, wire.HeaderSessionOpenRequest, id, uncompressed, func(w *wire.Writer) {
		writeTarget(w, loc)
	})
	if err != nil {
		r.assoc.take(id)
		return transport.Locator{}, r.sessionOpenFailed(err)
	}

	v, err := r.wait(ctx, f)
	if err != nil {
		r.assoc.take(id)
		if isRuntimeFailure(err) {
			return transport.Locator{}, r.sessionOpenFailed(err)
		}
		return transport.Locator{}, err
	}
	return v.(transport.Locator), nil
}

// wait blocks on f, bounded by the invocation timeout.
func (r *receiver) wait(ctx context.Context, f *future.Future) (interface{}, error) {
	if d := r.rc.InvocationTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return f.Wait(ctx)
}

// isRuntimeFailure reports whether err came from the transport rather than
// from the server's handling of the request.
func isRuntimeFailure(err error) bool {
	switch beanerrors.ErrorCode(err) {
	case beanerrors.CodeTimeout, beanerrors.CodeCancelled, beanerrors.CodeConnectionLost,
		beanerrors.CodeChannelNotReady, beanerrors.CodeInternal:
		return true
	default:
		return false
	}
}

func (r *receiver) Close() error {
	r.assoc.close(nil)
	return nil
}

// associationClosed runs once the association is closed. A connection lost
// rather than closed on purpose is redialed.
func (r *receiver) associationClosed(cause error) {
	r.t.untrackReconnected(r)
	r.rc.UnregisterReceiver(r)
	if cause != nil {
		r.t.scheduleReconnect(r.rc, r.dest)
	}
}

type invocationHandler struct {
	r    *receiver
	call *transport.Call
}

func (h *invocationHandler) handle(hdr wire.Header, rd *wire.Reader) {
	h.r.untrack(h.call)
	sink := h.call.Sink
	switch {
	case hdr == wire.HeaderInvocationResponse:
		res, err := readResult(rd)
		if err != nil {
			sink.ResultReady(nil, beanerrors.InternalErrorf("malformed invocation response: %v", err))
			return
		}
		sink.ResultReady(res, nil)
	case hdr == wire.HeaderApplicationException:
		sink.ResultReady(nil, h.r.rc.Marshaller().UnmarshalException(rd.ReadRest()))
	case hdr == wire.HeaderInvocationCancel:
		sink.RequestCancelled()
	case isFailureHeader(hdr):
		sink.ResultReady(nil, readFailure(hdr, rd, h.r.NodeName()))
	default:
		sink.ResultReady(nil, unexpected(hdr))
	}
}

func (h *invocationHandler) fail(err error) {
	h.r.untrack(h.call)
	h.call.Sink.ResultReady(nil, err)
}

type sessionHandler struct {
	r   *receiver
	loc transport.Locator
	f   *future.Future
}

func (h *sessionHandler) handle(hdr wire.Header, rd *wire.Reader) {
	switch {
	case hdr == wire.HeaderSessionOpenResponse:
		loc, err := readSessionOpened(rd, h.loc)
		if err != nil {
			h.f.Fail(beanerrors.InternalErrorf("malformed session open response: %v", err))
			return
		}
		h.f.Complete(loc)
	case hdr == wire.HeaderApplicationException:
		h.f.Fail(h.r.rc.Marshaller().UnmarshalException(rd.ReadRest()))
	case isFailureHeader(hdr):
		h.f.Fail(readFailure(hdr, rd, h.r.NodeName()))
	default:
		h.f.Fail(unexpected(hdr))
	}
}

func (h *sessionHandler) fail(err error) { h.f.Fail(err) }
