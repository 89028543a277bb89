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

package observability

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _cartID = transport.Identifier{App: "shop", Module: "cart", Bean: "CartBean"}

func stubTime() func() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	_timeNow = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 10 * time.Millisecond)
	}
	return func() { _timeNow = time.Now }
}

func newInvocation(method string, payload []byte) *interceptor.InvocationContext {
	return interceptor.NewInvocationContext(
		transport.NewLocator(_cartID, "CartRemote"),
		transport.MethodLocator{Name: method},
		payload,
	)
}

func respond(payload string, err error) interceptor.OutboundFunc {
	return func(ctx context.Context, inv *interceptor.InvocationContext) (*transport.Result, error) {
		inv.Destination, _ = url.Parse("remote://beans:4447")
		if err != nil {
			return nil, err
		}
		return &transport.Result{Payload: []byte(payload)}, nil
	}
}

func TestInvokeSuccess(t *testing.T) {
	defer stubTime()()
	core, logs := observer.New(zapcore.DebugLevel)
	root := metrics.New()
	ic := New(zap.New(core), root.Scope())

	res, err := ic.Invoke(context.Background(), newInvocation("checkout", []byte("args")), respond("ok", nil))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(res.Payload))

	e := ic.edges[edgeKey{id: _cartID, view: "CartRemote", method: "checkout"}]
	require.NotNil(t, e)
	assert.EqualValues(t, 1, e.calls.Load())
	assert.EqualValues(t, 1, e.successes.Load())

	entries := logs.FilterMessage(_successfulInvocation).AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "CartBean", fields["bean"])
	assert.Equal(t, "checkout", fields["method"])
	assert.Equal(t, "remote://beans:4447", fields["destination"])
	assert.Equal(t, 10*time.Millisecond, fields["latency"])
}

func TestInvokeFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ic := New(zap.New(core), metrics.New().Scope())

	sendFailed := beanerrors.RequestSendFailed("node-a", errors.New("broken pipe"))
	for _, err := range []error{sendFailed, sendFailed, errors.New("out of stock")} {
		_, got := ic.Invoke(context.Background(), newInvocation("checkout", nil), respond("", err))
		assert.Equal(t, err, got)
	}

	e := ic.edges[edgeKey{id: _cartID, view: "CartRemote", method: "checkout"}]
	require.NotNil(t, e)
	assert.EqualValues(t, 3, e.calls.Load())
	assert.EqualValues(t, 0, e.successes.Load())
	assert.EqualValues(t, 2, e.failures.MustGet(_error, "request-send-failed").Load())
	assert.EqualValues(t, 1, e.failures.MustGet(_error, _appError).Load())

	entries := logs.FilterMessage(_failedInvocation).AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "request-send-failed", entries[0].ContextMap()["errorCode"])
	assert.Equal(t, _appError, entries[2].ContextMap()["errorCode"])
}

func TestEdgesAreReused(t *testing.T) {
	root := metrics.New()
	ic := New(nil, root.Scope())

	for i := 0; i < 3; i++ {
		_, err := ic.Invoke(context.Background(), newInvocation("checkout", nil), respond("", nil))
		require.NoError(t, err)
	}
	_, err := ic.Invoke(context.Background(), newInvocation("add", nil), respond("", nil))
	require.NoError(t, err)

	assert.Len(t, ic.edges, 2)

	var calls int64
	for _, c := range root.Snapshot().Counters {
		if c.Name == "calls" {
			calls += c.Value
		}
	}
	assert.EqualValues(t, 4, calls)
}

func TestOpenSession(t *testing.T) {
	ic := New(nil, nil)

	loc, err := ic.OpenSession(context.Background(), newInvocation("", nil), interceptor.SessionOutboundFunc(
		func(ctx context.Context, inv *interceptor.InvocationContext) (transport.Locator, error) {
			return inv.Locator.WithSession(transport.SessionID("s1")), nil
		}))
	require.NoError(t, err)
	assert.True(t, loc.Stateful())

	e := ic.edges[edgeKey{id: _cartID, view: "CartRemote", method: _session}]
	require.NotNil(t, e)
	assert.EqualValues(t, 1, e.successes.Load())
}
