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

	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/discovery"
	"go.uber.org/beanrpc/internal/future"
	"go.uber.org/zap"
)

// transactionInterceptor attaches the caller's transaction and pins every
// invocation of a transaction to the destination of its first invocation.
type transactionInterceptor struct {
	c *ClientContext
}

func (t *transactionInterceptor) prepare(ctx context.Context, inv *interceptor.InvocationContext) transport.TransactionID {
	tx, ok := TransactionFromContext(ctx)
	if !ok {
		tx = inv.Attachments.TransactionID()
	}
	if len(tx) == 0 {
		return nil
	}
	inv.Attachments[transport.TransactionIDAttachment] = tx
	if v, ok := t.c.txDestinations.Load(string(tx)); ok && inv.Destination == nil {
		inv.Destination = v.(*url.URL)
	}
	return tx
}

func (t *transactionInterceptor) pin(tx transport.TransactionID, inv *interceptor.InvocationContext) {
	if len(tx) == 0 || inv.Destination == nil || inv.Receiver() == nil {
		return
	}
	t.c.txDestinations.LoadOrStore(string(tx), inv.Destination)
}

func (t *transactionInterceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (*transport.Result, error) {
	tx := t.prepare(ctx, inv)
	res, err := next.Invoke(ctx, inv)
	t.pin(tx, inv)
	return res, err
}

func (t *transactionInterceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.SessionOutbound) (transport.Locator, error) {
	t.prepare(ctx, inv)
	return next.OpenSession(ctx, inv)
}

// namingInterceptor sends invocations without affinity to the naming
// provider the target was looked up through.
type namingInterceptor struct{}

func (namingInterceptor) apply(inv *interceptor.InvocationContext) error {
	raw := inv.Attachments.String(transport.NamingProviderURI)
	if raw == "" || inv.Destination != nil || !inv.Locator.Affinity().IsNone() {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return beanerrors.InvalidArgumentErrorf("invalid naming provider URI %q: %v", raw, err)
	}
	if !inv.IsExcluded(u) {
		inv.Destination = u
	}
	return nil
}

func (n *namingInterceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (*transport.Result, error) {
	if err := n.apply(inv); err != nil {
		return nil, err
	}
	return next.Invoke(ctx, inv)
}

func (n *namingInterceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.SessionOutbound) (transport.Locator, error) {
	if err := n.apply(inv); err != nil {
		return transport.Locator{}, err
	}
	return next.OpenSession(ctx, inv)
}

// discoveryInterceptor establishes the destination of an invocation.
type discoveryInterceptor struct {
	c *ClientContext
}

func (d *discoveryInterceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (*transport.Result, error) {
	if err := d.c.establishDestination(ctx, inv); err != nil {
		return nil, err
	}
	return next.Invoke(ctx, inv)
}

func (d *discoveryInterceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.SessionOutbound) (transport.Locator, error) {
	if err := d.c.establishDestination(ctx, inv); err != nil {
		return transport.Locator{}, err
	}
	return next.OpenSession(ctx, inv)
}

func (c *ClientContext) establishDestination(ctx context.Context, inv *interceptor.InvocationContext) error {
	if inv.Destination != nil && !inv.IsExcluded(inv.Destination) {
		return nil
	}
	inv.Destination = nil

	affinity := inv.Locator.Affinity()
	if affinity.IsNone() {
		affinity = inv.Attachments.WeakAffinity()
	}
	id := inv.Locator.Identifier()
	module := id.ModuleID()

	var (
		candidates []Candidate
		discErr    error
		selector   = c.deploySelector
	)
	switch affinity.Kind {
	case transport.AffinityURI:
		u, err := affinity.URL()
		if err != nil {
			return beanerrors.InvalidArgumentErrorf("invalid affinity %v: %v", affinity, err)
		}
		if inv.IsExcluded(u) {
			return beanerrors.NoDestination(inv.Locator)
		}
		inv.Destination = u
		return nil
	case transport.AffinityNode:
		node := affinity.Value
		candidates, discErr = c.candidates(ctx,
			discovery.Filter{Module: module, Node: node},
			func(r transport.Receiver) bool { return r.NodeName() == node })
	case transport.AffinityCluster:
		candidates, discErr = c.candidates(ctx, discovery.Filter{Module: module, Cluster: affinity.Value}, nil)
		candidates = limitConnected(candidates, c.maxClusterNodes)
		selector = c.clusterSelector
	default:
		candidates, discErr = c.candidates(ctx,
			discovery.Filter{Module: module},
			func(r transport.Receiver) bool { return r.Serves(id) })
	}

	filtered := candidates[:0]
	for _, cand := range candidates {
		if !inv.IsExcluded(cand.URL) {
			filtered = append(filtered, cand)
		}
	}
	if len(filtered) == 0 {
		return noDestination(inv.Locator, discErr)
	}

	i := selector.Select(id, filtered)
	if i < 0 || i >= len(filtered) {
		return noDestination(inv.Locator, discErr)
	}
	inv.Destination = filtered[i].URL
	c.logger.Debug("destination established",
		zap.Stringer("target", inv.Locator),
		zap.String("destination", inv.Destination.String()))
	return nil
}

func noDestination(loc transport.Locator, discErr error) error {
	st := beanerrors.FromError(beanerrors.NoDestination(loc))
	if discErr != nil {
		st = st.WithSuppressed(discErr)
	}
	return st
}

// candidates merges live receivers accepted by live with the destinations
// discovery returns for f. Live receivers come first.
func (c *ClientContext) candidates(ctx context.Context, f discovery.Filter, live func(transport.Receiver) bool) ([]Candidate, error) {
	var (
		out  []Candidate
		seen = make(map[string]struct{})
	)
	if live != nil {
		for _, r := range c.registry.all() {
			if !live(r) {
				continue
			}
			u := r.Destination()
			seen[u.String()] = struct{}{}
			out = append(out, Candidate{URL: u, Node: r.NodeName(), Connected: true})
		}
	}

	found, err := c.discovery.Discover(ctx, f)
	for _, u := range found {
		if _, ok := seen[u.String()]; ok {
			continue
		}
		seen[u.String()] = struct{}{}
		cand := Candidate{URL: u}
		if r := c.registry.live(u); r != nil {
			cand.Node = r.NodeName()
			cand.Connected = true
		}
		out = append(out, cand)
	}
	return out, err
}

// limitConnected keeps only connected candidates once max of them are
// connected. Zero means no limit.
func limitConnected(candidates []Candidate, max int) []Candidate {
	if max <= 0 {
		return candidates
	}
	var connected []Candidate
	for _, cand := range candidates {
		if cand.Connected {
			connected = append(connected, cand)
		}
	}
	if len(connected) >= max {
		return connected
	}
	return candidates
}

// dispatchInterceptor hands the invocation to the receiver for its
// destination and waits for the outcome.
type dispatchInterceptor struct {
	c *ClientContext
}

func (d *dispatchInterceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, _ interceptor.Outbound) (*transport.Result, error) {
	c := d.c
	r, err := c.ResolveReceiver(ctx, inv.Destination, inv.Locator)
	if err != nil {
		return nil, err
	}

	f := future.New()
	call := &transport.Call{Request: inv.Request(), Sink: futureSink{f: f}}
	inv.Dispatched(r, call)
	if err := r.ProcessInvocation(ctx, call); err != nil {
		c.metrics.sendFailures.Inc(1)
		if !beanerrors.IsRequestSendFailed(err) {
			err = beanerrors.RequestSendFailed(r.NodeName(), err)
		}
		return nil, err
	}
	c.metrics.dispatched.Inc(1)

	waitCtx, cancel := c.withInvocationTimeout(ctx)
	defer cancel()
	v, err := f.Wait(waitCtx)
	if err != nil {
		if f.State() == future.Pending {
			// Advisory; the result is discarded whatever the server does.
			inv.Cancel(context.Background())
		}
		if beanerrors.IsTimeout(err) {
			c.metrics.timeouts.Inc(1)
		}
		return nil, err
	}
	res, _ := v.(*transport.Result)
	if res == nil {
		res = &transport.Result{}
	}
	return res, nil
}

func (d *dispatchInterceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, _ interceptor.SessionOutbound) (transport.Locator, error) {
	c := d.c
	r, err := c.ResolveReceiver(ctx, inv.Destination, inv.Locator)
	if err != nil {
		return transport.Locator{}, err
	}
	inv.Dispatched(r, nil)

	waitCtx, cancel := c.withInvocationTimeout(ctx)
	defer cancel()
	loc, err := r.OpenSession(waitCtx, inv.Locator)
	if err != nil {
		return transport.Locator{}, err
	}
	c.metrics.sessions.Inc(1)
	return loc, nil
}

// futureSink completes a future with the outcome of a dispatched call.
type futureSink struct {
	f *future.Future
}

func (s futureSink) ResultReady(res *transport.Result, err error) {
	if err != nil {
		s.f.Fail(err)
		return
	}
	s.f.Complete(res)
}

func (s futureSink) RequestCancelled() { s.f.Cancel() }
