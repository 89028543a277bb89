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

// Package interpolate expands ${NAME} and ${NAME:default} references in
// configuration strings.
package interpolate

import (
	"fmt"
	"io"
	"strings"
)

// segment is a run of literal text, or a variable reference when name is
// set. The text of a reference is its default.
type segment struct {
	text       string
	name       string
	hasDefault bool
}

// VariableResolver looks up a variable. ok is false when the variable is
// not set, which is different from being set to "".
type VariableResolver func(name string) (value string, ok bool)

// String is a parsed configuration value. Obtain one with Parse.
type String []segment

// Render resolves every variable in s. All variables that have neither a
// value nor a default are reported together in an *UnresolvedError.
func (s String) Render(resolve VariableResolver) (string, error) {
	var sb strings.Builder
	if err := s.RenderTo(&sb, resolve); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderTo renders s into w. Nothing is written if a variable cannot be
// resolved.
func (s String) RenderTo(w io.Writer, resolve VariableResolver) error {
	values := make([]string, len(s))
	var missing []string
	for i, seg := range s {
		v, ok := resolveSegment(seg, resolve)
		if !ok {
			missing = append(missing, seg.name)
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return &UnresolvedError{Names: missing}
	}

	for _, v := range values {
		if _, err := io.WriteString(w, v); err != nil {
			return err
		}
	}
	return nil
}

func resolveSegment(seg segment, resolve VariableResolver) (string, bool) {
	if seg.name == "" {
		return seg.text, true
	}
	if v, ok := resolve(seg.name); ok {
		return v, true
	}
	return seg.text, seg.hasDefault
}

// Expand parses and renders value, the configuration value found at key.
// Errors name the key.
func Expand(key, value string, resolve VariableResolver) (string, error) {
	s, err := Parse(value)
	if err != nil {
		return "", fmt.Errorf("cannot interpolate %q: %v", key, err)
	}
	out, err := s.Render(resolve)
	if err != nil {
		return "", fmt.Errorf("cannot interpolate %q: %v", key, err)
	}
	return out, nil
}

// UnresolvedError lists the variables that have neither a value nor a
// default, in order of appearance.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	refs := make([]string, len(e.Names))
	for i, n := range e.Names {
		refs[i] = "${" + n + "}"
	}
	return "no value or default for " + strings.Join(refs, ", ")
}
