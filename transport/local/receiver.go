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

package local

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/zap"
)

type receiver struct {
	t      *Transport
	dest   *url.URL
	closed atomic.Bool
}

var _ transport.Receiver = (*receiver)(nil)

func newReceiver(t *Transport, dest *url.URL) *receiver {
	return &receiver{t: t, dest: dest}
}

func (r *receiver) NodeName() string { return r.t.node }

func (r *receiver) Destination() *url.URL { return r.dest }

func (r *receiver) Serves(id transport.Identifier) bool {
	_, ok := r.t.handler(id.ModuleID())
	return ok
}

func (r *receiver) notReady(context string) error {
	return beanerrors.RequestSendFailed(r.t.node, beanerrors.ChannelNotReady(r.dest.String(), context))
}

func (r *receiver) ProcessInvocation(ctx context.Context, call *transport.Call) error {
	if r.closed.Load() {
		return r.notReady("invocation")
	}
	req := call.Request
	h, ok := r.t.handler(req.Locator.Identifier().ModuleID())
	if !ok {
		call.Sink.ResultReady(nil, beanerrors.Newf(beanerrors.CodeNoSuchBean,
			"no such bean %v on node %s", req.Locator.Identifier(), r.t.node).WithNode(r.t.node))
		return nil
	}

	res, err := h.Handle(ctx, req)
	if err == nil && res == nil {
		res = &transport.Result{}
	}
	r.t.logger.Debug("local invocation completed",
		zap.Stringer("method", req.Method), zap.Error(err))
	call.Sink.ResultReady(res, err)
	return nil
}

// CancelInvocation never confirms; handlers run to completion.
func (r *receiver) CancelInvocation(context.Context, *transport.Call) bool { return false }

func (r *receiver) OpenSession(_ context.Context, loc transport.Locator) (transport.Locator, error) {
	if r.closed.Load() {
		return transport.Locator{}, beanerrors.Newf(beanerrors.CodeSessionOpenFailed,
			"receiver for %s is closed", r.dest).WithNode(r.t.node)
	}
	if !r.Serves(loc.Identifier()) {
		return transport.Locator{}, beanerrors.Newf(beanerrors.CodeNoSuchBean,
			"no such bean %v on node %s", loc.Identifier(), r.t.node).WithNode(r.t.node)
	}
	id := uuid.New()
	return loc.WithSession(id[:]).WithAffinity(transport.NodeAffinity(r.t.node)), nil
}

func (r *receiver) noTx() error {
	return &beanerrors.XAError{Code: beanerrors.XAERRMErr, Message: "local node " + r.t.node + " has no resource manager"}
}

func (r *receiver) Commit(ctx context.Context, tx transport.TransactionID, onePhase bool) error {
	if r.t.tx == nil {
		return r.noTx()
	}
	return beanerrors.ClassifyXA(r.t.tx.Commit(ctx, tx, onePhase))
}

func (r *receiver) Rollback(ctx context.Context, tx transport.TransactionID) error {
	if r.t.tx == nil {
		return r.noTx()
	}
	return beanerrors.ClassifyXA(r.t.tx.Rollback(ctx, tx))
}

func (r *receiver) Prepare(ctx context.Context, tx transport.TransactionID) (int32, error) {
	if r.t.tx == nil {
		return 0, r.noTx()
	}
	vote, err := r.t.tx.Prepare(ctx, tx)
	return vote, beanerrors.ClassifyXA(err)
}

func (r *receiver) Forget(ctx context.Context, tx transport.TransactionID) error {
	if r.t.tx == nil {
		return r.noTx()
	}
	return beanerrors.ClassifyXA(r.t.tx.Forget(ctx, tx))
}

func (r *receiver) BeforeCompletion(ctx context.Context, tx transport.TransactionID) error {
	if r.t.tx == nil {
		return r.noTx()
	}
	return beanerrors.ClassifyXA(r.t.tx.BeforeCompletion(ctx, tx))
}

func (r *receiver) Recover(ctx context.Context, parentNode string, flags int32) ([]transport.Xid, error) {
	if r.t.tx == nil {
		return nil, nil
	}
	xids, err := r.t.tx.Recover(ctx, parentNode, flags)
	return xids, beanerrors.ClassifyXA(err)
}

func (r *receiver) Close() error {
	r.closed.Store(true)
	return nil
}
