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

package naming

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		give         string
		wantID       transport.Identifier
		wantView     string
		wantStateful bool
		wantErr      string
	}{
		{
			give:     "shop/cart/CartBean!Cart",
			wantID:   transport.Identifier{App: "shop", Module: "cart", Bean: "CartBean"},
			wantView: "Cart",
		},
		{
			give:     "bean:shop/cart/v2/CartBean!Cart",
			wantID:   transport.Identifier{App: "shop", Module: "cart", Distinct: "v2", Bean: "CartBean"},
			wantView: "Cart",
		},
		{
			give:         "/cart/CartBean!Cart?stateful",
			wantID:       transport.Identifier{Module: "cart", Bean: "CartBean"},
			wantView:     "Cart",
			wantStateful: true,
		},
		{
			give:         "shop/cart/CartBean!Cart?stateful=true",
			wantID:       transport.Identifier{App: "shop", Module: "cart", Bean: "CartBean"},
			wantView:     "Cart",
			wantStateful: true,
		},
		{
			give:     "shop/cart/CartBean!Cart?stateful=false&other=1",
			wantID:   transport.Identifier{App: "shop", Module: "cart", Bean: "CartBean"},
			wantView: "Cart",
		},
		{give: "shop/cart/CartBean", wantErr: "has no view type"},
		{give: "shop/cart/CartBean!", wantErr: "empty view type"},
		{give: "cart/CartBean!Cart", wantErr: "must have 3 or 4 segments"},
		{give: "a/b/c/d/e!V", wantErr: "must have 3 or 4 segments"},
		{give: "shop//CartBean!Cart", wantErr: "must name a module and a bean"},
		{give: "shop/cart/CartBean!Cart?stateful=maybe", wantErr: "invalid stateful value"},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			got, err := Parse(tt.give)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, beanerrors.CodeInvalidArgument, beanerrors.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.Locator.Identifier())
			assert.Equal(t, tt.wantView, got.Locator.ViewType())
			assert.Equal(t, tt.wantStateful, got.Stateful)
			assert.False(t, got.Locator.Stateful())
		})
	}
}

type sessionCreatorFunc func(context.Context, transport.Locator) (transport.Locator, error)

func (f sessionCreatorFunc) CreateSession(ctx context.Context, loc transport.Locator) (transport.Locator, error) {
	return f(ctx, loc)
}

func TestLookup(t *testing.T) {
	calls := 0
	sc := sessionCreatorFunc(func(ctx context.Context, loc transport.Locator) (transport.Locator, error) {
		calls++
		return loc.WithSession(transport.SessionID{1}), nil
	})

	loc, err := Lookup(context.Background(), sc, "shop/cart/CartBean!Cart")
	require.NoError(t, err)
	assert.False(t, loc.Stateful())
	assert.Equal(t, 0, calls)

	loc, err = Lookup(context.Background(), sc, "shop/cart/CartBean!Cart?stateful")
	require.NoError(t, err)
	assert.True(t, loc.Stateful())
	assert.Equal(t, 1, calls)
}

func TestLookupErrors(t *testing.T) {
	boom := errors.New("boom")
	sc := sessionCreatorFunc(func(context.Context, transport.Locator) (transport.Locator, error) {
		return transport.Locator{}, boom
	})

	_, err := Lookup(context.Background(), sc, "nope")
	assert.Error(t, err)

	_, err = Lookup(context.Background(), sc, "a/b/C!V?stateful")
	assert.Equal(t, boom, err)
}
