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

// Package discovery maps a target identity to candidate destinations.
package discovery

import (
	"context"
	"net"
	"net/url"

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/multierr"
)

// Filter narrows a discovery query. Zero fields match everything.
type Filter struct {
	// Module restricts results to destinations serving the module.
	Module transport.ModuleID
	// Node restricts results to the named node.
	Node string
	// Cluster restricts results to members of the named cluster.
	Cluster string
	// SourceNetwork restricts results to destinations whose address lies
	// in the network.
	SourceNetwork *net.IPNet
}

// Provider finds destinations for a Filter. It returns zero or more URIs and
// must be safe for concurrent use.
type Provider interface {
	Discover(ctx context.Context, f Filter) ([]*url.URL, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(context.Context, Filter) ([]*url.URL, error)

// Discover for ProviderFunc.
func (f ProviderFunc) Discover(ctx context.Context, filter Filter) ([]*url.URL, error) {
	return f(ctx, filter)
}

// Entry describes one known destination.
type Entry struct {
	URL     *url.URL
	Node    string
	Cluster string
	// Modules served by the destination. Empty means unknown, which
	// matches any module.
	Modules []transport.ModuleID
}

func (e Entry) matches(f Filter) bool {
	if f.Node != "" && e.Node != f.Node {
		return false
	}
	if f.Cluster != "" && e.Cluster != f.Cluster {
		return false
	}
	if f.Module != (transport.ModuleID{}) && len(e.Modules) > 0 {
		found := false
		for _, m := range e.Modules {
			if m == f.Module {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.SourceNetwork != nil {
		ip := net.ParseIP(e.URL.Hostname())
		if ip == nil || !f.SourceNetwork.Contains(ip) {
			return false
		}
	}
	return true
}

// Static is a Provider over a fixed set of entries.
type Static struct {
	entries []Entry
}

var _ Provider = (*Static)(nil)

// NewStatic returns a Static provider. Entries without a URL are ignored.
func NewStatic(entries ...Entry) *Static {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.URL != nil {
			kept = append(kept, e)
		}
	}
	return &Static{entries: kept}
}

// Discover returns the URLs of matching entries in declaration order.
func (s *Static) Discover(ctx context.Context, f Filter) ([]*url.URL, error) {
	var out []*url.URL
	for _, e := range s.entries {
		if e.matches(f) {
			out = append(out, e.URL)
		}
	}
	return out, nil
}

// Multi queries every provider and merges the results, dropping duplicate
// URIs. A provider failing does not hide the results of the others; the
// error is returned only when nothing was found.
func Multi(providers ...Provider) Provider {
	return ProviderFunc(func(ctx context.Context, f Filter) ([]*url.URL, error) {
		var (
			out  []*url.URL
			errs error
			seen = make(map[string]struct{})
		)
		for _, p := range providers {
			urls, err := p.Discover(ctx, f)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			for _, u := range urls {
				if _, ok := seen[u.String()]; ok {
					continue
				}
				seen[u.String()] = struct{}{}
				out = append(out, u)
			}
		}
		if len(out) == 0 {
			return nil, errs
		}
		return out, nil
	})
}
