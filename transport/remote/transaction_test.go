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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/internal/wire"
)

func txOK(v int32) func(*wire.Writer) {
	return func(w *wire.Writer) {
		w.WriteBool(false)
		w.WriteInt32(v)
	}
}

func TestTransactionResponsesOutOfOrder(t *testing.T) {
	r, srv, _ := connect(t, 2)
	ctx := context.Background()

	type vote struct {
		v   int32
		err error
	}
	prepared := make(chan vote, 1)
	committed := make(chan error, 1)

	go func() {
		v, err := r.Prepare(ctx, transport.TransactionID("tx-1"))
		prepared <- vote{v, err}
	}()
	prepare := srv.next(t)

	go func() {
		committed <- r.Commit(ctx, transport.TransactionID("tx-2"), true)
	}()
	commit := srv.next(t)

	assert.Equal(t, wire.HeaderTxPrepare, prepare.header)
	assert.Equal(t, "tx-1", string(prepare.body.ReadLenBytes()))
	assert.Equal(t, wire.HeaderTxCommit, commit.header)
	assert.Equal(t, "tx-2", string(commit.body.ReadLenBytes()))
	assert.True(t, commit.body.ReadBool(), "one phase")
	assert.NotEqual(t, prepare.id, commit.id)

	require.NoError(t, srv.reply(wire.HeaderTxResponse, commit.id, txOK(0)))
	select {
	case err := <-committed:
		assert.NoError(t, err)
	case <-time.After(testWait):
		t.Fatal("commit did not complete")
	}

	require.NoError(t, srv.reply(wire.HeaderTxResponse, prepare.id, txOK(int32(beanerrors.XARDOnly))))
	select {
	case got := <-prepared:
		require.NoError(t, got.err)
		assert.Equal(t, int32(beanerrors.XARDOnly), got.v)
	case <-time.After(testWait):
		t.Fatal("prepare did not complete")
	}
}

func TestTransactionOperations(t *testing.T) {
	tests := []struct {
		desc   string
		header wire.Header
		call   func(*receiver) error
	}{
		{
			desc:   "rollback",
			header: wire.HeaderTxRollback,
			call: func(r *receiver) error {
				return r.Rollback(context.Background(), transport.TransactionID("tx"))
			},
		},
		{
			desc:   "forget",
			header: wire.HeaderTxForget,
			call: func(r *receiver) error {
				return r.Forget(context.Background(), transport.TransactionID("tx"))
			},
		},
		{
			desc:   "before completion",
			header: wire.HeaderTxBeforeCompletion,
			call: func(r *receiver) error {
				return r.BeforeCompletion(context.Background(), transport.TransactionID("tx"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r, srv, _ := connect(t, 2)

			done := make(chan error, 1)
			go func() { done <- tt.call(r) }()

			m := srv.next(t)
			assert.Equal(t, tt.header, m.header)
			assert.Equal(t, "tx", string(m.body.ReadLenBytes()))
			require.NoError(t, srv.reply(wire.HeaderTxResponse, m.id, txOK(0)))
			assert.NoError(t, <-done)
		})
	}
}

func TestTransactionFailureIsXAError(t *testing.T) {
	r, srv, _ := connect(t, 2)

	done := make(chan error, 1)
	go func() { done <- r.Rollback(context.Background(), transport.TransactionID("tx")) }()

	m := srv.next(t)
	require.NoError(t, srv.reply(wire.HeaderTxResponse, m.id, func(w *wire.Writer) {
		w.WriteBool(true)
		w.WriteInt32(int32(beanerrors.XAERNoTA))
		w.WriteUTF("unknown transaction")
	}))

	var xae *beanerrors.XAError
	require.True(t, errors.As(<-done, &xae))
	assert.Equal(t, beanerrors.XAERNoTA, xae.Code)
	assert.Equal(t, "unknown transaction", xae.Message)
}

func TestTransactionReplyOfWrongKind(t *testing.T) {
	tests := []struct {
		desc  string
		call  func(*receiver) error
		reply wire.Header
		body  func(*wire.Writer)
	}{
		{
			desc: "prepare answered with recover response",
			call: func(r *receiver) error {
				_, err := r.Prepare(context.Background(), transport.TransactionID("tx"))
				return err
			},
			reply: wire.HeaderTxRecoverResponse,
			body:  func(w *wire.Writer) { w.WritePackedInt(0) },
		},
		{
			desc: "recover answered with transaction response",
			call: func(r *receiver) error {
				_, err := r.Recover(context.Background(), "tm-1", 0)
				return err
			},
			reply: wire.HeaderTxResponse,
			body:  txOK(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r, srv, _ := connect(t, 2)

			done := make(chan error, 1)
			go func() { done <- tt.call(r) }()

			m := srv.next(t)
			require.NoError(t, srv.reply(tt.reply, m.id, tt.body))

			var xae *beanerrors.XAError
			require.True(t, errors.As(<-done, &xae))
			assert.Equal(t, beanerrors.XAERRMFail, xae.Code)
			assert.Equal(t, beanerrors.CodeInternal, beanerrors.ErrorCode(xae.Cause))
			assert.Equal(t, 0, r.assoc.outstanding())
		})
	}
}

func TestTransactionTimeoutIsRMFail(t *testing.T) {
	r, srv, rc := connect(t, 2)
	rc.timeout = 20 * time.Millisecond

	err := r.Forget(context.Background(), transport.TransactionID("tx"))
	srv.next(t)

	var xae *beanerrors.XAError
	require.True(t, errors.As(err, &xae))
	assert.Equal(t, beanerrors.XAERRMFail, xae.Code)
	assert.True(t, beanerrors.IsTimeout(xae.Cause))
	assert.Equal(t, 0, r.assoc.outstanding())
}

func TestTransactionOnClosedReceiver(t *testing.T) {
	r, _, _ := connect(t, 2)
	require.NoError(t, r.Close())

	_, err := r.Prepare(context.Background(), transport.TransactionID("tx"))
	var xae *beanerrors.XAError
	require.True(t, errors.As(err, &xae))
	assert.Equal(t, beanerrors.XAERRMFail, xae.Code)
	assert.True(t, beanerrors.IsChannelNotReady(xae.Cause))
}

func TestRecover(t *testing.T) {
	t.Run("version 2", func(t *testing.T) {
		r, srv, _ := connect(t, 2)

		type result struct {
			xids []transport.Xid
			err  error
		}
		done := make(chan result, 1)
		go func() {
			xids, err := r.Recover(context.Background(), "tm-1", 0x01000000)
			done <- result{xids, err}
		}()

		m := srv.next(t)
		assert.Equal(t, wire.HeaderTxRecover, m.header)
		assert.Equal(t, "tm-1", m.body.ReadUTF())
		assert.Equal(t, int32(0x01000000), m.body.ReadInt32())
		require.NoError(t, srv.reply(wire.HeaderTxRecoverResponse, m.id, func(w *wire.Writer) {
			w.WritePackedInt(2)
			for _, g := range []string{"g1", "g2"} {
				w.WriteInt32(0x4242)
				w.WriteLenBytes([]byte(g))
				w.WriteLenBytes([]byte("b"))
			}
		}))

		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, []transport.Xid{
			{FormatID: 0x4242, GlobalTransactionID: []byte("g1"), BranchQualifier: []byte("b")},
			{FormatID: 0x4242, GlobalTransactionID: []byte("g2"), BranchQualifier: []byte("b")},
		}, res.xids)
	})

	t.Run("version 1 sends nothing", func(t *testing.T) {
		r, srv, _ := connect(t, 1)

		xids, err := r.Recover(context.Background(), "tm-1", 0)
		require.NoError(t, err)
		assert.Empty(t, xids)

		select {
		case frame := <-srv.in:
			t.Fatalf("unexpected message %x", frame)
		case <-time.After(50 * time.Millisecond):
		}
	})
}
