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

package transport

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorIsNeverMutated(t *testing.T) {
	id := Identifier{App: "shop", Module: "cart", Bean: "CartBean"}
	base := NewLocator(id, "Cart")

	pinned := base.WithAffinity(NodeAffinity("node-1"))
	assert.True(t, base.Affinity().IsNone())
	assert.Equal(t, NodeAffinity("node-1"), pinned.Affinity())

	session := SessionID{1, 2, 3}
	stateful := pinned.WithSession(session)
	session[0] = 9

	assert.False(t, pinned.Stateful())
	assert.True(t, stateful.Stateful())
	assert.Equal(t, SessionID{1, 2, 3}, stateful.SessionID())

	got := stateful.SessionID()
	got[1] = 9
	assert.Equal(t, SessionID{1, 2, 3}, stateful.SessionID())
}

func TestLocatorEqual(t *testing.T) {
	id := Identifier{App: "a", Module: "m", Bean: "B"}
	l := NewLocator(id, "V")

	assert.True(t, l.Equal(NewLocator(id, "V")))
	assert.False(t, l.Equal(NewLocator(id, "W")))
	assert.False(t, l.Equal(l.WithSession(nil)))
	assert.True(t, l.WithSession(SessionID{1}).Equal(l.WithSession(SessionID{1})))
	assert.False(t, l.WithSession(SessionID{1}).Equal(l.WithSession(SessionID{2})))
}

func TestLocatorString(t *testing.T) {
	id := Identifier{App: "a", Module: "m", Distinct: "d", Bean: "B"}
	l := NewLocator(id, "V").WithAffinity(ClusterAffinity("ejb")).WithSession(SessionID{0xAB})
	assert.Equal(t, "a/m/d/B!V affinity=cluster:ejb session=ab", l.String())

	noApp := Identifier{Module: "m", Bean: "B"}
	assert.Equal(t, "m/B", noApp.String())
}

func TestAffinityURL(t *testing.T) {
	u, err := url.Parse("remote://10.0.0.1:4447")
	require.NoError(t, err)

	a := URIAffinity(u)
	got, err := a.URL()
	require.NoError(t, err)
	assert.Equal(t, u.String(), got.String())

	_, err = NodeAffinity("n").URL()
	assert.Error(t, err)
	assert.Equal(t, "none", NoAffinity.String())
}

func TestCompressionHintPrecedence(t *testing.T) {
	class := CompressionHint{CompressRequest: true, Level: 1}
	method := CompressionHint{CompressResponse: true, Level: 9}

	tests := []struct {
		desc   string
		give   Attachments
		method string
		want   CompressionHint
		wantOK bool
	}{
		{desc: "none", give: Attachments{}, method: "m"},
		{
			desc:   "class only",
			give:   Attachments{ClassCompressionHint: class},
			method: "m",
			want:   class,
			wantOK: true,
		},
		{
			desc: "method overrides class",
			give: Attachments{
				ClassCompressionHint:   class,
				MethodCompressionHints: map[string]CompressionHint{"m": method},
			},
			method: "m",
			want:   method,
			wantOK: true,
		},
		{
			desc: "other method falls back to class",
			give: Attachments{
				ClassCompressionHint:   class,
				MethodCompressionHints: map[string]CompressionHint{"m": method},
			},
			method: "other",
			want:   class,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := tt.give.CompressionHint(tt.method)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttachmentAccessors(t *testing.T) {
	a := Attachments{
		HintsDisabled:            true,
		NamingProviderURI:        "remote://naming:4447",
		ResponseCompressionLevel: 5,
		TransactionIDAttachment:  TransactionID{7},
		WeakAffinityAttachment:   NodeAffinity("n"),
	}
	c := a.Clone()
	c[HintsDisabled] = false

	assert.True(t, a.Bool(HintsDisabled))
	assert.False(t, c.Bool(HintsDisabled))
	assert.Equal(t, "remote://naming:4447", a.String(NamingProviderURI))
	assert.Equal(t, 5, a.Int(ResponseCompressionLevel))
	assert.True(t, a.TransactionID().Equal(TransactionID{7}))
	assert.Equal(t, NodeAffinity("n"), a.WeakAffinity())

	var empty Attachments
	assert.False(t, empty.Bool(HintsDisabled))
	assert.Nil(t, empty.TransactionID())
}
