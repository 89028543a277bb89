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

package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lit(s string) segment { return segment{text: s} }

func ref(name string) segment { return segment{name: name} }

func refOr(name, def string) segment {
	return segment{name: name, text: def, hasDefault: true}
}

func TestParseSuccess(t *testing.T) {
	tests := []struct {
		give string
		want String
	}{
		{
			give: "foo",
			want: String{lit("foo")},
		},
		{
			give: "",
			want: nil,
		},
		{
			give: "foo ${bar} baz",
			want: String{lit("foo "), ref("bar"), lit(" baz")},
		},
		{
			give: "foo $ {bar} baz",
			want: String{lit("foo $ {bar} baz")},
		},
		{
			give: "foo ${bar:}",
			want: String{lit("foo "), refOr("bar", "")},
		},
		{
			give: "${foo:bar}",
			want: String{refOr("foo", "bar")},
		},
		{
			give: `foo \${bar:42} baz`,
			want: String{lit("foo ${bar:42} baz")},
		},
		{
			give: "$foo${bar}",
			want: String{lit("$foo"), ref("bar")},
		},
		{
			give: "foo${b-a-r}",
			want: String{lit("foo"), ref("b-a-r")},
		},
		{
			give: "foo ${bar::baz} qux",
			want: String{lit("foo "), refOr("bar", ":baz"), lit(" qux")},
		},
		{
			give: "remote://${HOST:localhost}:${PORT:4447}",
			want: String{
				lit("remote://"),
				refOr("HOST", "localhost"),
				lit(":"),
				refOr("PORT", "4447"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			out, err := Parse(tt.give)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []string{
		"${foo",
		"${}",
		"${foo.}",
		"${foo-}",
		"${-foo}",
		"${foo--bar}",
		"${1foo}",
	}

	for _, tt := range tests {
		_, err := Parse(tt)
		assert.Error(t, err, tt)
	}
}
