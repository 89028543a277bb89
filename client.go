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
	"net/url"
	"sync"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/discovery"
	"go.uber.org/beanrpc/internal/interceptorchain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Priorities of the interceptors every ClientContext ends its chains with.
const (
	TransactionInterceptorPriority = 0x1000 + iota
	NamingInterceptorPriority
	DiscoveryInterceptorPriority
	DispatchInterceptorPriority
)

// ClientContext is the immutable configuration every invocation runs
// against, together with the registry of live receivers. Use a Builder to
// create one. A ClientContext is safe for concurrent use.
type ClientContext struct {
	global          interceptor.List
	perView         map[string]interceptor.List
	perMethod       map[viewMethod]interceptor.List
	viewAttachments map[string]transport.Attachments
	providers       []transport.TransportProvider
	static          []*url.URL
	clusters        []ClusterConfig
	clusterSelector NodeSelector
	deploySelector  NodeSelector
	userDiscovery   discovery.Provider
	marshaller      transport.Marshaller

	invocationTimeout time.Duration
	maxClusterNodes   int

	logger *zap.Logger
	scope  tally.Scope

	registered interceptor.List
	terminal   interceptor.List
	discovery  discovery.Provider

	// view type -> *viewChains
	chains sync.Map
	// transaction ID string -> *url.URL
	txDestinations sync.Map

	metrics  *clientMetrics
	registry *registry
}

type viewChains struct {
	class interceptor.List
	// method name -> interceptor.List
	methods sync.Map
}

func (c *ClientContext) init() {
	c.registered = interceptor.Registered()
	c.terminal = interceptor.NewList(
		interceptor.ForInstance(TransactionInterceptorPriority, &transactionInterceptor{c: c}),
		interceptor.ForInstance(NamingInterceptorPriority, &namingInterceptor{}),
		interceptor.ForInstance(DiscoveryInterceptorPriority, &discoveryInterceptor{c: c}),
		interceptor.ForInstance(DispatchInterceptorPriority, &dispatchInterceptor{c: c}),
	)
	c.discovery = c.buildDiscovery()
	c.metrics = newClientMetrics(c.scope)
	c.registry = newRegistry(c.logger, c.metrics)

	for _, p := range c.providers {
		p.NotifyRegistered(c)
	}
}

func (c *ClientContext) buildDiscovery() discovery.Provider {
	var entries []discovery.Entry
	for _, cluster := range c.clusters {
		for _, m := range cluster.Members {
			m.Cluster = cluster.Name
			entries = append(entries, m)
		}
	}
	for _, u := range c.static {
		entries = append(entries, discovery.Entry{URL: u})
	}
	providers := []discovery.Provider{discovery.NewStatic(entries...)}
	if c.userDiscovery != nil {
		providers = append(providers, c.userDiscovery)
	}
	return discovery.Multi(providers...)
}

// Interceptors returns the chain for a method of a view type: registered
// interceptors, then global, per-view, per-method and finally the built-in
// transaction, naming, discovery and dispatch interceptors. Results are
// memoized per view type for the lifetime of the ClientContext.
func (c *ClientContext) Interceptors(viewType, method string) interceptor.List {
	chains := c.viewChains(viewType)
	if method == "" {
		return interceptor.Combine(chains.class, c.terminal)
	}
	if l, ok := chains.methods.Load(method); ok {
		return l.(interceptor.List)
	}
	l := interceptor.Combine(chains.class, c.perMethod[viewMethod{view: viewType, method: method}], c.terminal)
	actual, _ := chains.methods.LoadOrStore(method, l)
	return actual.(interceptor.List)
}

func (c *ClientContext) viewChains(viewType string) *viewChains {
	if v, ok := c.chains.Load(viewType); ok {
		return v.(*viewChains)
	}
	vc := &viewChains{
		class: interceptor.Combine(c.registered, c.global, c.perView[viewType]),
	}
	actual, _ := c.chains.LoadOrStore(viewType, vc)
	return actual.(*viewChains)
}

// WithAddedInterceptors returns a copy of c with the given global
// interceptors appended. c itself is unchanged; without interceptors c is
// returned as is.
func (c *ClientContext) WithAddedInterceptors(infos ...interceptor.Info) (*ClientContext, error) {
	if len(infos) == 0 {
		return c, nil
	}
	return NewBuilderFrom(c).AddInterceptors(infos...).Build()
}

// WithAddedTransportProviders returns a copy of c with the given providers
// appended. c itself is unchanged; without providers c is returned as is.
func (c *ClientContext) WithAddedTransportProviders(providers ...transport.TransportProvider) (*ClientContext, error) {
	if len(providers) == 0 {
		return c, nil
	}
	return NewBuilderFrom(c).AddTransportProvider(providers...).Build()
}

// ResolveReceiver returns a receiver for dest. Providers are asked in
// registration order; the first that supports the scheme and yields a
// receiver wins. When none does and reconnect attempts are pending, they
// are run once and resolution is retried.
func (c *ClientContext) ResolveReceiver(ctx context.Context, dest *url.URL, loc transport.Locator) (transport.Receiver, error) {
	if dest == nil {
		return nil, beanerrors.NoDestination(loc)
	}

	r, errs := c.resolveOnce(ctx, dest)
	if r == nil && c.registry.runReconnectors(ctx) {
		var retryErrs error
		r, retryErrs = c.resolveOnce(ctx, dest)
		errs = multierr.Append(errs, retryErrs)
	}
	if r != nil {
		return r, nil
	}

	st := beanerrors.FromError(beanerrors.NoReceiver(dest.String()))
	if errs != nil {
		st = st.WithSuppressed(multierr.Errors(errs)...)
	}
	return nil, st
}

func (c *ClientContext) resolveOnce(ctx context.Context, dest *url.URL) (transport.Receiver, error) {
	var errs error
	for _, p := range c.providers {
		if !p.SupportsScheme(dest.Scheme) {
			continue
		}
		r, err := p.Receiver(ctx, c, dest)
		if err != nil {
			c.logger.Debug("transport provider failed to supply a receiver",
				zap.String("destination", dest.String()), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if r != nil {
			return r, nil
		}
	}
	return nil, errs
}

// CallOption customizes a single invocation.
type CallOption func(*interceptor.InvocationContext)

// WithAttachment sets an attachment on the invocation.
func WithAttachment(key transport.AttachmentKey, value interface{}) CallOption {
	return func(inv *interceptor.InvocationContext) {
		inv.Attachments[key] = value
	}
}

// WithDestination sends the invocation to dest, bypassing discovery.
func WithDestination(dest *url.URL) CallOption {
	return func(inv *interceptor.InvocationContext) {
		inv.Destination = dest
	}
}

func (c *ClientContext) newInvocation(loc transport.Locator, method transport.MethodLocator, payload []byte, opts []CallOption) *interceptor.InvocationContext {
	inv := interceptor.NewInvocationContext(loc, method, payload)
	for k, v := range c.viewAttachments[loc.ViewType()] {
		inv.Attachments[k] = v
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke calls method on the bean loc points at. args are marshalled with
// the configured Marshaller and the response is unmarshalled into result
// unless result is nil. Application failures reported by the server are
// returned unchanged.
func (c *ClientContext) Invoke(ctx context.Context, loc transport.Locator, method transport.MethodLocator, args []interface{}, result interface{}, opts ...CallOption) error {
	payload, err := c.marshaller.Marshal(args)
	if err != nil {
		return beanerrors.InvalidArgumentErrorf("failed to marshal arguments of %v: %v", method, err)
	}

	inv := c.newInvocation(loc, method, payload, opts)
	res, err := c.InvokeContext(ctx, inv)
	if err != nil {
		return err
	}
	if result == nil || res == nil {
		return nil
	}
	if err := c.marshaller.Unmarshal(res.Payload, result); err != nil {
		return beanerrors.InternalErrorf("failed to unmarshal result of %v: %v", method, err)
	}
	return nil
}

// InvokeContext runs a prepared invocation through its interceptor chain.
func (c *ClientContext) InvokeContext(ctx context.Context, inv *interceptor.InvocationContext) (*transport.Result, error) {
	chain := c.Interceptors(inv.Locator.ViewType(), inv.Method.Name).Interceptors()
	return interceptorchain.Invoke(ctx, chain, inv, chainEnd)
}

// CreateSession opens a stateful session for loc and returns the stateful
// Locator. A weak affinity suggested by the server replaces the affinity of
// loc.
func (c *ClientContext) CreateSession(ctx context.Context, loc transport.Locator) (transport.Locator, error) {
	inv := c.newInvocation(loc, transport.MethodLocator{}, nil, nil)
	chain := c.Interceptors(loc.ViewType(), "").Interceptors()
	return interceptorchain.OpenSession(ctx, chain, inv, sessionChainEnd)
}

var chainEnd = interceptor.OutboundFunc(func(ctx context.Context, inv *interceptor.InvocationContext) (*transport.Result, error) {
	return nil, beanerrors.InternalErrorf("invocation of %v was not dispatched", inv.Method)
})

var sessionChainEnd = interceptor.SessionOutboundFunc(func(ctx context.Context, inv *interceptor.InvocationContext) (transport.Locator, error) {
	return transport.Locator{}, beanerrors.InternalErrorf("session creation for %v was not dispatched", inv.Locator)
})

// Transaction returns the receiver that carries the two-phase commit
// operations of tx: the destination the transaction's first invocation was
// sent to.
func (c *ClientContext) Transaction(ctx context.Context, tx transport.TransactionID) (transport.TransactionReceiver, error) {
	v, ok := c.txDestinations.Load(string(tx))
	if !ok {
		return nil, &beanerrors.XAError{Code: beanerrors.XAERNoTA, Message: "transaction " + tx.String() + " has no enlisted destination"}
	}
	r, err := c.ResolveReceiver(ctx, v.(*url.URL), transport.Locator{})
	if err != nil {
		return nil, beanerrors.ClassifyXA(err)
	}
	return r, nil
}

// ForgetTransaction drops the destination pinned for tx.
func (c *ClientContext) ForgetTransaction(tx transport.TransactionID) {
	c.txDestinations.Delete(string(tx))
}

// Close closes every receiver and runs every close listener. It is safe to
// call more than once.
func (c *ClientContext) Close() error {
	return c.registry.close()
}

func (c *ClientContext) withInvocationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.invocationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.invocationTimeout)
}

// transport.ReceiverContext

var _ transport.ReceiverContext = (*ClientContext)(nil)

// RegisterReceiver implements transport.ReceiverContext.
func (c *ClientContext) RegisterReceiver(r transport.Receiver) { c.registry.register(r) }

// UnregisterReceiver implements transport.ReceiverContext.
func (c *ClientContext) UnregisterReceiver(r transport.Receiver) { c.registry.unregister(r) }

// LiveReceiver implements transport.ReceiverContext.
func (c *ClientContext) LiveReceiver(dest *url.URL) transport.Receiver { return c.registry.live(dest) }

// RegisterReconnector implements transport.ReceiverContext.
func (c *ClientContext) RegisterReconnector(r transport.Reconnector) {
	c.registry.registerReconnector(r)
}

// UnregisterReconnector implements transport.ReceiverContext.
func (c *ClientContext) UnregisterReconnector(r transport.Reconnector) {
	c.registry.unregisterReconnector(r)
}

// OnClose implements transport.ReceiverContext.
func (c *ClientContext) OnClose(fn func()) { c.registry.onClose(fn) }

// StaticConnections implements transport.ReceiverContext.
func (c *ClientContext) StaticConnections() []*url.URL {
	return append([]*url.URL(nil), c.static...)
}

// InvocationTimeout implements transport.ReceiverContext.
func (c *ClientContext) InvocationTimeout() time.Duration { return c.invocationTimeout }

// Marshaller implements transport.ReceiverContext.
func (c *ClientContext) Marshaller() transport.Marshaller { return c.marshaller }

// Logger implements transport.ReceiverContext.
func (c *ClientContext) Logger() *zap.Logger { return c.logger }

// Receivers returns the live receivers.
func (c *ClientContext) Receivers() []transport.Receiver { return c.registry.all() }
