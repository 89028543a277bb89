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

package interceptor

import (
	"context"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/api/transport/transporttest"
)

func newContext() *InvocationContext {
	loc := transport.NewLocator(transport.Identifier{App: "a", Module: "m", Bean: "B"}, "V")
	return NewInvocationContext(loc, transport.MethodLocator{Name: "ping"}, []byte("args"))
}

func TestExcludeDestination(t *testing.T) {
	inv := newContext()
	u, err := url.Parse("remote://host:1")
	require.NoError(t, err)
	same, err := url.Parse("remote://host:1")
	require.NoError(t, err)

	assert.False(t, inv.IsExcluded(u))
	inv.ExcludeDestination(u)
	assert.True(t, inv.IsExcluded(same))
	assert.False(t, inv.IsExcluded(nil))
	inv.ExcludeDestination(nil)
}

func TestRequestSnapshot(t *testing.T) {
	inv := newContext()
	inv.Attachments[transport.HintsDisabled] = true

	req := inv.Request()
	assert.Equal(t, "ping", req.Method.Name)
	assert.Equal(t, []byte("args"), req.Payload)
	assert.True(t, req.Attachments.Bool(transport.HintsDisabled))
	assert.True(t, req.Locator.Equal(inv.Locator))
}

func TestCancelBeforeDispatch(t *testing.T) {
	inv := newContext()
	assert.False(t, inv.Cancel(context.Background()))
	assert.True(t, inv.Cancelled())
}

func TestCancelAfterDispatch(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	inv := newContext()
	receiver := transporttest.NewMockReceiver(mockCtrl)
	call := &transport.Call{Request: inv.Request()}
	inv.Dispatched(receiver, call)
	assert.Equal(t, receiver, inv.Receiver())

	receiver.EXPECT().CancelInvocation(gomock.Any(), call).Return(false)
	assert.False(t, inv.Cancel(context.Background()))
	assert.True(t, inv.Cancelled())
}
