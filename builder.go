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
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/discovery"
	"go.uber.org/beanrpc/encoding/raw"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// DefaultMaxConnectedClusterNodes bounds how many nodes of one cluster
	// the client keeps connections to.
	DefaultMaxConnectedClusterNodes = 10
)

// ClusterConfig declares a cluster and its initially known members.
type ClusterConfig struct {
	Name    string
	Members []discovery.Entry
}

type viewMethod struct {
	view   string
	method string
}

// Builder accumulates the configuration of a ClientContext. A Builder is
// not safe for concurrent use. Build validates everything at once and
// reports every problem found.
type Builder struct {
	global          []interceptor.Info
	perView         map[string][]interceptor.Info
	perMethod       map[viewMethod][]interceptor.Info
	providers       []transport.TransportProvider
	static          []*url.URL
	clusters        []ClusterConfig
	clusterSelector NodeSelector
	deploySelector  NodeSelector
	discovery       discovery.Provider
	marshaller      transport.Marshaller
	viewAttachments map[string]transport.Attachments

	invocationTimeout time.Duration
	maxClusterNodes   int

	logger *zap.Logger
	scope  tally.Scope

	errs error
}

// NewBuilder returns a Builder with default settings.
func NewBuilder() *Builder {
	return &Builder{
		perView:         make(map[string][]interceptor.Info),
		perMethod:       make(map[viewMethod][]interceptor.Info),
		viewAttachments: make(map[string]transport.Attachments),
		maxClusterNodes: DefaultMaxConnectedClusterNodes,
	}
}

// NewBuilderFrom returns a Builder holding a copy of c's configuration.
// Changes to the Builder never affect c.
func NewBuilderFrom(c *ClientContext) *Builder {
	b := NewBuilder()
	b.global = c.global.Infos()
	for view, l := range c.perView {
		b.perView[view] = l.Infos()
	}
	for key, l := range c.perMethod {
		b.perMethod[key] = l.Infos()
	}
	for view, a := range c.viewAttachments {
		b.viewAttachments[view] = a.Clone()
	}
	b.providers = append(b.providers, c.providers...)
	b.static = append(b.static, c.static...)
	b.clusters = append(b.clusters, c.clusters...)
	b.clusterSelector = c.clusterSelector
	b.deploySelector = c.deploySelector
	b.discovery = c.userDiscovery
	b.marshaller = c.marshaller
	b.invocationTimeout = c.invocationTimeout
	b.maxClusterNodes = c.maxClusterNodes
	b.logger = c.logger
	b.scope = c.scope
	return b
}

// AddInterceptors adds interceptors applied to every invocation.
func (b *Builder) AddInterceptors(infos ...interceptor.Info) *Builder {
	b.global = append(b.global, infos...)
	return b
}

// AddViewInterceptors adds interceptors applied to invocations through the
// given view type.
func (b *Builder) AddViewInterceptors(viewType string, infos ...interceptor.Info) *Builder {
	b.perView[viewType] = append(b.perView[viewType], infos...)
	return b
}

// AddMethodInterceptors adds interceptors applied to one method of a view
// type.
func (b *Builder) AddMethodInterceptors(viewType, method string, infos ...interceptor.Info) *Builder {
	key := viewMethod{view: viewType, method: method}
	b.perMethod[key] = append(b.perMethod[key], infos...)
	return b
}

// AddTransportProvider registers providers. Receiver resolution asks
// providers in the order they were added.
func (b *Builder) AddTransportProvider(providers ...transport.TransportProvider) *Builder {
	for _, p := range providers {
		if p == nil {
			b.errs = multierr.Append(b.errs, errors.New("transport provider must not be nil"))
			continue
		}
		b.providers = append(b.providers, p)
	}
	return b
}

// StaticConnections adds destinations the transports connect to eagerly.
func (b *Builder) StaticConnections(dests ...*url.URL) *Builder {
	for _, d := range dests {
		if d == nil || d.Scheme == "" {
			b.errs = multierr.Append(b.errs, fmt.Errorf("static connection %v has no scheme", d))
			continue
		}
		b.static = append(b.static, d)
	}
	return b
}

// AddCluster declares a cluster. Members are used by discovery.
func (b *Builder) AddCluster(cfg ClusterConfig) *Builder {
	if cfg.Name == "" {
		b.errs = multierr.Append(b.errs, errors.New("cluster name must not be empty"))
		return b
	}
	b.clusters = append(b.clusters, cfg)
	return b
}

// ClusterNodeSelector sets how a node is picked among a cluster's members.
func (b *Builder) ClusterNodeSelector(s NodeSelector) *Builder {
	b.clusterSelector = s
	return b
}

// DeploymentNodeSelector sets how a node is picked among the nodes serving
// a module when there is no affinity.
func (b *Builder) DeploymentNodeSelector(s NodeSelector) *Builder {
	b.deploySelector = s
	return b
}

// Discovery sets an additional discovery provider. It is consulted after
// the configured clusters and static connections.
func (b *Builder) Discovery(p discovery.Provider) *Builder {
	b.discovery = p
	return b
}

// Marshaller sets the marshalling strategy. The default is raw.
func (b *Builder) Marshaller(m transport.Marshaller) *Builder {
	b.marshaller = m
	return b
}

// InvocationTimeout bounds how long synchronous operations wait for a
// response. Zero means no bound beyond the caller's context.
func (b *Builder) InvocationTimeout(d time.Duration) *Builder {
	if d < 0 {
		b.errs = multierr.Append(b.errs, fmt.Errorf("invocation timeout must not be negative, got %v", d))
		return b
	}
	b.invocationTimeout = d
	return b
}

// MaxConnectedClusterNodes bounds how many members of one cluster are
// connected at a time.
func (b *Builder) MaxConnectedClusterNodes(n int) *Builder {
	if n < 0 {
		b.errs = multierr.Append(b.errs, fmt.Errorf("max connected cluster nodes must not be negative, got %d", n))
		return b
	}
	b.maxClusterNodes = n
	return b
}

// CompressionHint declares a compression hint for a view type. An empty
// method declares the class-level hint.
func (b *Builder) CompressionHint(viewType, method string, hint transport.CompressionHint) *Builder {
	a := b.attachmentsFor(viewType)
	if method == "" {
		a[transport.ClassCompressionHint] = hint
		return b
	}
	hints, _ := a[transport.MethodCompressionHints].(map[string]transport.CompressionHint)
	copied := make(map[string]transport.CompressionHint, len(hints)+1)
	for k, v := range hints {
		copied[k] = v
	}
	copied[method] = hint
	a[transport.MethodCompressionHints] = copied
	return b
}

// DisableHints makes transports ignore compression hints for a view type.
func (b *Builder) DisableHints(viewType string) *Builder {
	b.attachmentsFor(viewType)[transport.HintsDisabled] = true
	return b
}

func (b *Builder) attachmentsFor(viewType string) transport.Attachments {
	a, ok := b.viewAttachments[viewType]
	if !ok {
		a = make(transport.Attachments)
		b.viewAttachments[viewType] = a
	}
	return a
}

// Logger sets the logger. The default discards everything.
func (b *Builder) Logger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// MetricsScope sets the tally scope metrics are reported to.
func (b *Builder) MetricsScope(s tally.Scope) *Builder {
	b.scope = s
	return b
}

// Build freezes the configuration into a ClientContext and notifies every
// transport provider that it is registered.
func (b *Builder) Build() (*ClientContext, error) {
	if b.errs != nil {
		return nil, b.errs
	}

	c := &ClientContext{
		global:            interceptor.NewList(b.global...),
		perView:           make(map[string]interceptor.List, len(b.perView)),
		perMethod:         make(map[viewMethod]interceptor.List, len(b.perMethod)),
		viewAttachments:   make(map[string]transport.Attachments, len(b.viewAttachments)),
		providers:         append([]transport.TransportProvider(nil), b.providers...),
		static:            append([]*url.URL(nil), b.static...),
		clusters:          append([]ClusterConfig(nil), b.clusters...),
		clusterSelector:   b.clusterSelector,
		deploySelector:    b.deploySelector,
		userDiscovery:     b.discovery,
		marshaller:        b.marshaller,
		invocationTimeout: b.invocationTimeout,
		maxClusterNodes:   b.maxClusterNodes,
		logger:            b.logger,
		scope:             b.scope,
	}
	for view, infos := range b.perView {
		c.perView[view] = interceptor.NewList(infos...)
	}
	for key, infos := range b.perMethod {
		c.perMethod[key] = interceptor.NewList(infos...)
	}
	for view, a := range b.viewAttachments {
		c.viewAttachments[view] = a.Clone()
	}
	if c.clusterSelector == nil {
		c.clusterSelector = RandomSelector()
	}
	if c.deploySelector == nil {
		c.deploySelector = RandomSelector()
	}
	if c.marshaller == nil {
		c.marshaller = raw.Marshaller{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.scope == nil {
		c.scope = tally.NoopScope
	}
	c.init()
	return c, nil
}
