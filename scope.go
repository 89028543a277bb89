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

package beanrpc

import (
	"context"
	"sync"

	"go.uber.org/beanrpc/api/transport"
)

type contextKey int

const (
	_clientContextKey contextKey = iota
	_transactionKey
)

var (
	_defaultMu sync.RWMutex
	_default   *ClientContext
)

// WithClientContext returns a context that carries cc. Code handed the
// returned context uses cc instead of the default ClientContext.
func WithClientContext(ctx context.Context, cc *ClientContext) context.Context {
	return context.WithValue(ctx, _clientContextKey, cc)
}

// FromContext returns the ClientContext carried by ctx, falling back to
// Default. It returns nil if neither is set.
func FromContext(ctx context.Context) *ClientContext {
	if cc, ok := ctx.Value(_clientContextKey).(*ClientContext); ok && cc != nil {
		return cc
	}
	return Default()
}

// SetDefault sets the process-wide ClientContext and returns the previous
// one. SetDefault(nil) clears it; closing the previous context is up to the
// caller.
func SetDefault(cc *ClientContext) *ClientContext {
	_defaultMu.Lock()
	defer _defaultMu.Unlock()
	prev := _default
	_default = cc
	return prev
}

// Default returns the process-wide ClientContext, or nil.
func Default() *ClientContext {
	_defaultMu.RLock()
	defer _defaultMu.RUnlock()
	return _default
}

// WithTransaction returns a context whose invocations take part in the
// transaction tx.
func WithTransaction(ctx context.Context, tx transport.TransactionID) context.Context {
	return context.WithValue(ctx, _transactionKey, tx)
}

// TransactionFromContext returns the transaction set with WithTransaction.
func TransactionFromContext(ctx context.Context) (transport.TransactionID, bool) {
	tx, ok := ctx.Value(_transactionKey).(transport.TransactionID)
	return tx, ok && len(tx) > 0
}
