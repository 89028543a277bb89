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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/transport"
)

func TestScopedClientContext(t *testing.T) {
	scoped, err := NewBuilder().Build()
	require.NoError(t, err)
	process, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Nil(t, FromContext(context.Background()))

	prev := SetDefault(process)
	defer SetDefault(prev)

	assert.True(t, FromContext(context.Background()) == process)
	ctx := WithClientContext(context.Background(), scoped)
	assert.True(t, FromContext(ctx) == scoped)

	assert.True(t, SetDefault(nil) == process)
	assert.Nil(t, Default())
	assert.True(t, FromContext(ctx) == scoped)
}

func TestTransactionFromContext(t *testing.T) {
	_, ok := TransactionFromContext(context.Background())
	assert.False(t, ok)

	_, ok = TransactionFromContext(WithTransaction(context.Background(), nil))
	assert.False(t, ok)

	tx, ok := TransactionFromContext(WithTransaction(context.Background(), transport.TransactionID("t")))
	assert.True(t, ok)
	assert.Equal(t, "t", string(tx))
}
