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
	"errors"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/api/transport/transporttest"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/discovery"
)

func establish(t *testing.T, cc *ClientContext, loc transport.Locator, prepare func(*interceptor.InvocationContext)) (*url.URL, error) {
	inv := interceptor.NewInvocationContext(loc, _add, nil)
	if prepare != nil {
		prepare(inv)
	}
	err := cc.establishDestination(context.Background(), inv)
	return inv.Destination, err
}

func TestDiscoveryURIAffinity(t *testing.T) {
	cc, err := NewBuilder().Build()
	require.NoError(t, err)

	dest := mustParse(t, "remote://pinned:8080")
	got, err := establish(t, cc, calcLocator().WithAffinity(transport.URIAffinity(dest)), nil)
	require.NoError(t, err)
	assert.Equal(t, dest.String(), got.String())

	_, err = establish(t, cc, calcLocator().WithAffinity(transport.URIAffinity(dest)),
		func(inv *interceptor.InvocationContext) { inv.ExcludeDestination(dest) })
	assert.True(t, beanerrors.IsNoDestination(err))
}

func TestDiscoveryKeepsExistingDestination(t *testing.T) {
	cc, err := NewBuilder().
		AddCluster(ClusterConfig{Name: "ejb", Members: []discovery.Entry{{URL: mustParse(t, "remote://b:1")}}}).
		ClusterNodeSelector(FirstAvailable).
		Build()
	require.NoError(t, err)

	preset := mustParse(t, "remote://a:1")
	got, err := establish(t, cc, calcLocator(), func(inv *interceptor.InvocationContext) {
		inv.Destination = preset
	})
	require.NoError(t, err)
	assert.Equal(t, preset, got)

	got, err = establish(t, cc, calcLocator().WithAffinity(transport.ClusterAffinity("ejb")),
		func(inv *interceptor.InvocationContext) {
			inv.Destination = preset
			inv.ExcludeDestination(preset)
		})
	require.NoError(t, err)
	assert.Equal(t, "remote://b:1", got.String())
}

func TestDiscoveryClusterAffinity(t *testing.T) {
	cc, err := NewBuilder().
		AddCluster(ClusterConfig{Name: "ejb", Members: []discovery.Entry{
			{URL: mustParse(t, "remote://a:1"), Node: "a"},
			{URL: mustParse(t, "remote://b:1"), Node: "b"},
		}}).
		AddCluster(ClusterConfig{Name: "other", Members: []discovery.Entry{
			{URL: mustParse(t, "remote://z:1"), Node: "z"},
		}}).
		ClusterNodeSelector(RoundRobin()).
		Build()
	require.NoError(t, err)

	loc := calcLocator().WithAffinity(transport.ClusterAffinity("ejb"))
	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		got, err := establish(t, cc, loc, nil)
		require.NoError(t, err)
		seen[got.Host] = true
	}
	assert.Equal(t, map[string]bool{"a:1": true, "b:1": true}, seen)

	_, err = establish(t, cc, calcLocator().WithAffinity(transport.ClusterAffinity("missing")), nil)
	assert.True(t, beanerrors.IsNoDestination(err))
}

func TestDiscoveryClusterHonoursMaxConnectedNodes(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	a := mustParse(t, "remote://a:1")
	live := transporttest.NewMockReceiver(mockCtrl)
	live.EXPECT().Destination().Return(a).AnyTimes()
	live.EXPECT().NodeName().Return("a").AnyTimes()

	cc, err := NewBuilder().
		AddCluster(ClusterConfig{Name: "ejb", Members: []discovery.Entry{
			{URL: mustParse(t, "remote://b:1")},
			{URL: a},
		}}).
		ClusterNodeSelector(FirstAvailable).
		MaxConnectedClusterNodes(1).
		Build()
	require.NoError(t, err)
	cc.RegisterReceiver(live)

	loc := calcLocator().WithAffinity(transport.ClusterAffinity("ejb"))
	for i := 0; i < 3; i++ {
		got, err := establish(t, cc, loc, func(inv *interceptor.InvocationContext) {})
		require.NoError(t, err)
		assert.Equal(t, a.String(), got.String())
	}

	_, err = establish(t, cc, loc, func(inv *interceptor.InvocationContext) { inv.ExcludeDestination(a) })
	assert.True(t, beanerrors.IsNoDestination(err))
}

func TestDiscoveryNodeAffinity(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	live := transporttest.NewMockReceiver(mockCtrl)
	live.EXPECT().Destination().Return(mustParse(t, "remote://live:1")).AnyTimes()
	live.EXPECT().NodeName().Return("node-live").AnyTimes()

	cc, err := NewBuilder().
		AddCluster(ClusterConfig{Name: "ejb", Members: []discovery.Entry{
			{URL: mustParse(t, "remote://known:1"), Node: "node-known"},
		}}).
		Build()
	require.NoError(t, err)
	cc.RegisterReceiver(live)

	got, err := establish(t, cc, calcLocator().WithAffinity(transport.NodeAffinity("node-live")), nil)
	require.NoError(t, err)
	assert.Equal(t, "remote://live:1", got.String())

	got, err = establish(t, cc, calcLocator().WithAffinity(transport.NodeAffinity("node-known")), nil)
	require.NoError(t, err)
	assert.Equal(t, "remote://known:1", got.String())
}

func TestDiscoveryWeakAffinityAndModules(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	serving := transporttest.NewMockReceiver(mockCtrl)
	serving.EXPECT().Destination().Return(mustParse(t, "remote://serving:1")).AnyTimes()
	serving.EXPECT().NodeName().Return("serving").AnyTimes()
	serving.EXPECT().Serves(_calcID).Return(true).AnyTimes()

	idle := transporttest.NewMockReceiver(mockCtrl)
	idle.EXPECT().Destination().Return(mustParse(t, "remote://idle:1")).AnyTimes()
	idle.EXPECT().NodeName().Return("idle").AnyTimes()
	idle.EXPECT().Serves(_calcID).Return(false).AnyTimes()

	cc, err := NewBuilder().
		AddCluster(ClusterConfig{Name: "ejb", Members: []discovery.Entry{
			{URL: mustParse(t, "remote://member:1"), Node: "member"},
		}}).
		Discovery(discovery.ProviderFunc(func(_ context.Context, f discovery.Filter) ([]*url.URL, error) {
			return nil, errors.New("directory down")
		})).
		Build()
	require.NoError(t, err)
	cc.RegisterReceiver(serving)
	cc.RegisterReceiver(idle)

	for i := 0; i < 10; i++ {
		got, err := establish(t, cc, calcLocator(), nil)
		require.NoError(t, err)
		assert.NotEqual(t, "remote://idle:1", got.String())
	}

	got, err := establish(t, cc, calcLocator(), func(inv *interceptor.InvocationContext) {
		inv.Attachments[transport.WeakAffinityAttachment] = transport.NodeAffinity("member")
	})
	require.NoError(t, err)
	assert.Equal(t, "remote://member:1", got.String())
}
