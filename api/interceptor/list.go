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

package interceptor

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

var _declared atomic.Uint64

// Info identifies one interceptor. Infos are ordered by priority, then by
// the order they were declared in, which is the order Info values were
// created.
type Info struct {
	key      interface{}
	name     string
	priority int
	seq      uint64
	ic       Interceptor
}

// ForType declares an interceptor identified by its implementing type: two
// Infos built from the same type are the same member of a List. newFn is
// called once.
func ForType(priority int, newFn func() Interceptor) Info {
	ic := newFn()
	t := reflect.TypeOf(ic)
	return Info{
		key:      t,
		name:     t.String(),
		priority: priority,
		seq:      _declared.Inc(),
		ic:       ic,
	}
}

// ForInstance declares an interceptor identified by the given instance.
// Instances of uncomparable types are only ever equal to themselves through
// the returned Info.
func ForInstance(priority int, ic Interceptor) Info {
	t := reflect.TypeOf(ic)
	var key interface{} = ic
	if t == nil || !t.Comparable() {
		key = new(byte)
	}
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return Info{
		key:      key,
		name:     name,
		priority: priority,
		seq:      _declared.Inc(),
		ic:       ic,
	}
}

// Interceptor returns the interceptor.
func (i Info) Interceptor() Interceptor { return i.ic }

// Name returns the name of the interceptor's type.
func (i Info) Name() string { return i.name }

// Priority returns the interceptor's priority. Lower runs first.
func (i Info) Priority() int { return i.priority }

// Same reports whether two Infos identify the same interceptor.
func (i Info) Same(o Info) bool { return i.key == o.key }

func (i Info) less(o Info) bool {
	if i.priority != o.priority {
		return i.priority < o.priority
	}
	return i.seq < o.seq
}

func (i Info) String() string {
	return fmt.Sprintf("%s(%d)", i.name, i.priority)
}

// List is an immutable, sorted, de-duplicated sequence of interceptors.
type List struct {
	infos []Info
}

// Empty is the List without members.
var Empty = List{}

// NewList sorts infos by the Info order and drops repeated members, keeping
// the first. Any ordering of the same infos yields an equal List.
func NewList(infos ...Info) List {
	if len(infos) == 0 {
		return Empty
	}
	sorted := append([]Info(nil), infos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].less(sorted[j])
	})
	return List{infos: dedupe(sorted)}
}

// Combine concatenates lists in order, dropping any member already seen.
// Combine(l, Empty) and Combine(Empty, l) equal l, and Combine is
// associative.
func Combine(lists ...List) List {
	var nonEmpty []List
	for _, l := range lists {
		if l.Len() > 0 {
			nonEmpty = append(nonEmpty, l)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return Empty
	case 1:
		return nonEmpty[0]
	}

	var all []Info
	for _, l := range nonEmpty {
		all = append(all, l.infos...)
	}
	return List{infos: dedupe(all)}
}

func dedupe(infos []Info) []Info {
	seen := make(map[interface{}]struct{}, len(infos))
	out := infos[:0:0]
	for _, info := range infos {
		if _, ok := seen[info.key]; ok {
			continue
		}
		seen[info.key] = struct{}{}
		out = append(out, info)
	}
	return out
}

// Len returns the number of members.
func (l List) Len() int { return len(l.infos) }

// Infos returns a copy of the members in order.
func (l List) Infos() []Info { return append([]Info(nil), l.infos...) }

// Interceptors returns the interceptors in order.
func (l List) Interceptors() []Interceptor {
	out := make([]Interceptor, len(l.infos))
	for i, info := range l.infos {
		out[i] = info.ic
	}
	return out
}

// Contains reports whether info is a member.
func (l List) Contains(info Info) bool {
	for _, i := range l.infos {
		if i.Same(info) {
			return true
		}
	}
	return false
}

// Equal reports whether both lists hold the same members in the same order.
func (l List) Equal(o List) bool {
	if len(l.infos) != len(o.infos) {
		return false
	}
	for i := range l.infos {
		if !l.infos[i].Same(o.infos[i]) {
			return false
		}
	}
	return true
}

func (l List) String() string {
	names := make([]string, len(l.infos))
	for i, info := range l.infos {
		names[i] = info.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

var _registry struct {
	sync.Mutex
	infos []Info
}

// Register adds interceptors every client context picks up when it is
// built. It is meant for package init functions of interceptor libraries.
func Register(infos ...Info) {
	_registry.Lock()
	defer _registry.Unlock()
	_registry.infos = append(_registry.infos, infos...)
}

// Registered returns the List of interceptors added with Register.
func Registered() List {
	_registry.Lock()
	defer _registry.Unlock()
	return NewList(_registry.infos...)
}
