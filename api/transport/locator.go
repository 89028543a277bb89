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
	"bytes"
	"fmt"
	"net/url"
	"strings"
)

// ModuleID names a deployed module on a server. A server's module
// availability report is a list of ModuleIDs.
type ModuleID struct {
	App      string
	Module   string
	Distinct string
}

func (m ModuleID) String() string {
	parts := make([]string, 0, 3)
	if m.App != "" {
		parts = append(parts, m.App)
	}
	parts = append(parts, m.Module)
	if m.Distinct != "" {
		parts = append(parts, m.Distinct)
	}
	return strings.Join(parts, "/")
}

// Identifier names a bean inside a module.
type Identifier struct {
	App      string
	Module   string
	Distinct string
	Bean     string
}

// ModuleID returns the module the bean is deployed in.
func (i Identifier) ModuleID() ModuleID {
	return ModuleID{App: i.App, Module: i.Module, Distinct: i.Distinct}
}

func (i Identifier) String() string {
	return i.ModuleID().String() + "/" + i.Bean
}

// AffinityKind says what an Affinity pins an invocation to.
type AffinityKind int

const (
	// AffinityNone lets discovery pick any destination.
	AffinityNone AffinityKind = iota
	// AffinityNode pins to a named server node.
	AffinityNode
	// AffinityCluster pins to any node of a named cluster.
	AffinityCluster
	// AffinityURI pins to a destination URI.
	AffinityURI
)

func (k AffinityKind) String() string {
	switch k {
	case AffinityNone:
		return "none"
	case AffinityNode:
		return "node"
	case AffinityCluster:
		return "cluster"
	case AffinityURI:
		return "uri"
	default:
		return fmt.Sprintf("AffinityKind(%d)", int(k))
	}
}

// Affinity is a hint describing where an invocation or session is pinned.
// The zero value is no affinity.
type Affinity struct {
	Kind  AffinityKind
	Value string
}

// NoAffinity is the zero Affinity.
var NoAffinity = Affinity{}

// NodeAffinity pins to the named node.
func NodeAffinity(node string) Affinity {
	return Affinity{Kind: AffinityNode, Value: node}
}

// ClusterAffinity pins to the named cluster.
func ClusterAffinity(cluster string) Affinity {
	return Affinity{Kind: AffinityCluster, Value: cluster}
}

// URIAffinity pins to the given destination.
func URIAffinity(u *url.URL) Affinity {
	return Affinity{Kind: AffinityURI, Value: u.String()}
}

// IsNone reports whether a is the zero Affinity.
func (a Affinity) IsNone() bool { return a.Kind == AffinityNone }

// URL parses the value of a URI affinity.
func (a Affinity) URL() (*url.URL, error) {
	if a.Kind != AffinityURI {
		return nil, fmt.Errorf("%v affinity has no URI", a.Kind)
	}
	return url.Parse(a.Value)
}

func (a Affinity) String() string {
	if a.Kind == AffinityNone {
		return "none"
	}
	return a.Kind.String() + ":" + a.Value
}

// SessionID is the opaque token a server hands out for a stateful session.
type SessionID []byte

// Equal compares two session IDs bytewise.
func (s SessionID) Equal(o SessionID) bool { return bytes.Equal(s, o) }

// Locator is the immutable identity of an invocation target. Use the With
// methods to derive a new Locator; a Locator is never changed in place.
type Locator struct {
	id       Identifier
	viewType string
	affinity Affinity
	session  SessionID
}

// NewLocator returns a stateless Locator without affinity.
func NewLocator(id Identifier, viewType string) Locator {
	return Locator{id: id, viewType: viewType}
}

// Identifier returns the bean the Locator points at.
func (l Locator) Identifier() Identifier { return l.id }

// ViewType returns the interface the caller invokes the bean through.
func (l Locator) ViewType() string { return l.viewType }

// Affinity returns the Locator's affinity.
func (l Locator) Affinity() Affinity { return l.affinity }

// Stateful reports whether the Locator carries a session.
func (l Locator) Stateful() bool { return l.session != nil }

// SessionID returns a copy of the session token, or nil.
func (l Locator) SessionID() SessionID {
	if l.session == nil {
		return nil
	}
	return append(SessionID{}, l.session...)
}

// WithAffinity returns a copy of l with a different affinity.
func (l Locator) WithAffinity(a Affinity) Locator {
	l.affinity = a
	return l
}

// WithSession returns a stateful copy of l bound to the given session.
func (l Locator) WithSession(id SessionID) Locator {
	l.session = append(SessionID{}, id...)
	return l
}

// Equal reports whether two Locators point at the same target.
func (l Locator) Equal(o Locator) bool {
	return l.id == o.id &&
		l.viewType == o.viewType &&
		l.affinity == o.affinity &&
		(l.session == nil) == (o.session == nil) &&
		l.session.Equal(o.session)
}

func (l Locator) String() string {
	var b strings.Builder
	b.WriteString(l.id.String())
	b.WriteString("!")
	b.WriteString(l.viewType)
	if !l.affinity.IsNone() {
		b.WriteString(" affinity=")
		b.WriteString(l.affinity.String())
	}
	if l.session != nil {
		fmt.Fprintf(&b, " session=%x", []byte(l.session))
	}
	return b.String()
}

// MethodLocator names an invoked method by name and parameter types.
type MethodLocator struct {
	Name           string
	ParameterTypes []string
}

func (m MethodLocator) String() string {
	return m.Name + "(" + strings.Join(m.ParameterTypes, ",") + ")"
}
