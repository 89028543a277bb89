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

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/internal/future"
	"go.uber.org/beanrpc/internal/wire"
	"go.uber.org/zap"
)

// Commit asks the server to commit tx.
func (r *receiver) Commit(ctx context.Context, tx transport.TransactionID, onePhase bool) error {
	_, err := r.txCall(ctx, wire.HeaderTxCommit, tx, func(w *wire.Writer) {
		w.WriteBool(onePhase)
	})
	return err
}

// Rollback asks the server to roll back tx.
func (r *receiver) Rollback(ctx context.Context, tx transport.TransactionID) error {
	_, err := r.txCall(ctx, wire.HeaderTxRollback, tx, nil)
	return err
}

// Prepare asks the server to prepare tx and returns its vote.
func (r *receiver) Prepare(ctx context.Context, tx transport.TransactionID) (int32, error) {
	v, err := r.txCall(ctx, wire.HeaderTxPrepare, tx, nil)
	if err != nil {
		return 0, err
	}
	vote, ok := v.(int32)
	if !ok {
		return 0, beanerrors.ClassifyXA(unexpected(wire.HeaderTxRecoverResponse))
	}
	return vote, nil
}

// Forget asks the server to forget a heuristically completed tx.
func (r *receiver) Forget(ctx context.Context, tx transport.TransactionID) error {
	_, err := r.txCall(ctx, wire.HeaderTxForget, tx, nil)
	return err
}

// BeforeCompletion runs the server's synchronizations for tx.
func (r *receiver) BeforeCompletion(ctx context.Context, tx transport.TransactionID) error {
	_, err := r.txCall(ctx, wire.HeaderTxBeforeCompletion, tx, nil)
	return err
}

// Recover asks the server for its in-doubt transaction branches. Servers
// speaking a protocol version without recovery report none, and nothing is
// sent to them.
func (r *receiver) Recover(ctx context.Context, parentNode string, flags int32) ([]transport.Xid, error) {
	if !r.assoc.supports(wire.HeaderTxRecover) {
		return nil, nil
	}
	v, err := r.request(ctx, wire.HeaderTxRecover, wire.HeaderTxRecoverResponse, func(w *wire.Writer) {
		w.WriteUTF(parentNode)
		w.WriteInt32(flags)
	})
	if err != nil {
		return nil, err
	}
	xids, ok := v.([]transport.Xid)
	if !ok {
		return nil, beanerrors.ClassifyXA(unexpected(wire.HeaderTxResponse))
	}
	return xids, nil
}

func (r *receiver) txCall(ctx context.Context, h wire.Header, tx transport.TransactionID, body func(*wire.Writer)) (interface{}, error) {
	return r.request(ctx, h, wire.HeaderTxResponse, func(w *wire.Writer) {
		w.WriteLenBytes(tx)
		if body != nil {
			body(w)
		}
	})
}

// request sends a transaction message and waits for a reply with header
// want. Failures are reported as *beanerrors.XAError.
func (r *receiver) request(ctx context.Context, h, want wire.Header, body func(*wire.Writer)) (interface{}, error) {
	f := future.New()
	id, err := r.assoc.register(&txHandler{want: want, f: f, logger: r.logger})
	if err != nil {
		return nil, beanerrors.ClassifyXA(err)
	}
	if err := r.assoc.send(ctx, h, id, uncompressed, body); err != nil {
		r.assoc.take(id)
		return nil, beanerrors.ClassifyXA(beanerrors.RequestSendFailed(r.NodeName(), err))
	}

	v, err := r.wait(ctx, f)
	if err != nil {
		r.assoc.take(id)
		return nil, beanerrors.ClassifyXA(err)
	}
	return v, nil
}

type txHandler struct {
	want   wire.Header
	f      *future.Future
	logger *zap.Logger
}

func (h *txHandler) handle(hdr wire.Header, rd *wire.Reader) {
	if hdr != h.want {
		h.logger.Warn("unexpected reply to transaction request",
			zap.Stringer("header", hdr), zap.Stringer("want", h.want))
		h.f.Fail(unexpected(hdr))
		return
	}
	switch hdr {
	case wire.HeaderTxResponse:
		v, err := readTxOutcome(rd)
		if err != nil {
			h.logger.Warn("malformed transaction response", zap.Error(err))
			h.f.Fail(err)
			return
		}
		h.f.Complete(v)
	case wire.HeaderTxRecoverResponse:
		xids, err := readXids(rd)
		if err != nil {
			h.logger.Warn("malformed recover response", zap.Error(err))
			h.f.Fail(err)
			return
		}
		h.f.Complete(xids)
	default:
		h.f.Fail(unexpected(hdr))
	}
}

func (h *txHandler) fail(err error) { h.f.Fail(err) }
