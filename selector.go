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
	"math/rand"
	"net/url"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/beanrpc/api/transport"
)

// Candidate is a destination discovery offers for an invocation.
type Candidate struct {
	URL *url.URL
	// Node is the server node name, known only once connected.
	Node string
	// Connected reports whether a live receiver exists for URL.
	Connected bool
}

// NodeSelector picks the destination of an invocation among candidates.
// It returns the index of the chosen candidate, or -1 to pick none.
// Implementations must be safe for concurrent use.
type NodeSelector interface {
	Select(id transport.Identifier, candidates []Candidate) int
}

// NodeSelectorFunc adapts a function into a NodeSelector.
type NodeSelectorFunc func(transport.Identifier, []Candidate) int

// Select for NodeSelectorFunc.
func (f NodeSelectorFunc) Select(id transport.Identifier, candidates []Candidate) int {
	return f(id, candidates)
}

type randomSelector struct {
	mu     sync.Mutex
	random *rand.Rand
}

// RandomSelector picks a candidate uniformly at random, preferring
// connected candidates when there are any.
func RandomSelector() NodeSelector {
	return newRandomSelector(rand.NewSource(time.Now().UnixNano()))
}

func newRandomSelector(source rand.Source) *randomSelector {
	return &randomSelector{random: rand.New(source)}
}

func (s *randomSelector) Select(_ transport.Identifier, candidates []Candidate) int {
	connected := connectedIndexes(candidates)
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case len(connected) > 0:
		return connected[s.random.Intn(len(connected))]
	case len(candidates) > 0:
		return s.random.Intn(len(candidates))
	default:
		return -1
	}
}

// FirstAvailable picks the first connected candidate, or the first
// candidate if none is connected.
var FirstAvailable NodeSelector = NodeSelectorFunc(func(_ transport.Identifier, candidates []Candidate) int {
	if len(candidates) == 0 {
		return -1
	}
	if connected := connectedIndexes(candidates); len(connected) > 0 {
		return connected[0]
	}
	return 0
})

type roundRobinSelector struct {
	next atomic.Uint64
}

// RoundRobin cycles through the candidates in the order given.
func RoundRobin() NodeSelector {
	return &roundRobinSelector{}
}

func (s *roundRobinSelector) Select(_ transport.Identifier, candidates []Candidate) int {
	if len(candidates) == 0 {
		return -1
	}
	return int((s.next.Inc() - 1) % uint64(len(candidates)))
}

func connectedIndexes(candidates []Candidate) []int {
	var out []int
	for i, c := range candidates {
		if c.Connected {
			out = append(out, i)
		}
	}
	return out
}
