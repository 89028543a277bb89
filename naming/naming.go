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

// Package naming parses bean lookup names into locators.
//
// A name has the form
//
//	[bean:]app/module[/distinct]/bean!view[?stateful[=true|false]]
//
// The app segment may be empty. A stateful name asks for a session to be
// created as part of the lookup.
package naming

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
)

const (
	_scheme        = "bean:"
	_statefulQuery = "stateful"
)

// Name is a parsed lookup name.
type Name struct {
	Locator  transport.Locator
	Stateful bool
}

// Parse parses a lookup name.
func Parse(name string) (Name, error) {
	s := strings.TrimPrefix(name, _scheme)

	var query string
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s, query = s[:i], s[i+1:]
	}

	bang := strings.LastIndexByte(s, '!')
	if bang < 0 {
		return Name{}, beanerrors.InvalidArgumentErrorf("name %q has no view type", name)
	}
	path, view := s[:bang], s[bang+1:]
	if view == "" {
		return Name{}, beanerrors.InvalidArgumentErrorf("name %q has an empty view type", name)
	}

	segs := strings.Split(path, "/")
	var id transport.Identifier
	switch len(segs) {
	case 3:
		id = transport.Identifier{App: segs[0], Module: segs[1], Bean: segs[2]}
	case 4:
		id = transport.Identifier{App: segs[0], Module: segs[1], Distinct: segs[2], Bean: segs[3]}
	default:
		return Name{}, beanerrors.InvalidArgumentErrorf("name %q must have 3 or 4 segments, found %d", name, len(segs))
	}
	if id.Module == "" || id.Bean == "" {
		return Name{}, beanerrors.InvalidArgumentErrorf("name %q must name a module and a bean", name)
	}

	stateful, err := parseStateful(query)
	if err != nil {
		return Name{}, beanerrors.InvalidArgumentErrorf("name %q: %v", name, err)
	}
	return Name{Locator: transport.NewLocator(id, view), Stateful: stateful}, nil
}

func parseStateful(query string) (bool, error) {
	if query == "" {
		return false, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return false, err
	}
	raw, ok := values[_statefulQuery]
	if !ok {
		return false, nil
	}
	if len(raw) == 0 || raw[0] == "" {
		return true, nil
	}
	v, err := strconv.ParseBool(raw[0])
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", _statefulQuery, raw[0])
	}
	return v, nil
}

// SessionCreator opens stateful sessions.
type SessionCreator interface {
	CreateSession(ctx context.Context, loc transport.Locator) (transport.Locator, error)
}

// Lookup parses name and, for stateful names, creates the session.
func Lookup(ctx context.Context, sc SessionCreator, name string) (transport.Locator, error) {
	n, err := Parse(name)
	if err != nil {
		return transport.Locator{}, err
	}
	if !n.Stateful {
		return n.Locator, nil
	}
	return sc.CreateSession(ctx, n.Locator)
}
