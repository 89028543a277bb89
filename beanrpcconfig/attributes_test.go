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

package beanrpcconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesPop(t *testing.T) {
	attrs := Attributes{"name": "cart", "enabled": true, "count": 3}

	s, err := attrs.PopString("name")
	require.NoError(t, err)
	assert.Equal(t, "cart", s)

	b, err := attrs.PopBool("enabled")
	require.NoError(t, err)
	assert.True(t, b)

	s, err = attrs.PopString("missing")
	require.NoError(t, err)
	assert.Empty(t, s)

	assert.Equal(t, []string{"count"}, attrs.Keys())

	_, err = attrs.PopBool("count")
	assert.Error(t, err)
}

func TestKitDecodeInterpolates(t *testing.T) {
	c := New(InterpolationResolver(mapLookup(map[string]string{"WAIT": "250ms"})))

	var cfg struct {
		Wait  time.Duration `config:"wait,interpolate"`
		Plain string        `config:"plain"`
	}
	err := c.Kit().Decode(Attributes{"wait": "${WAIT}", "plain": "${WAIT}"}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait)
	assert.Equal(t, "${WAIT}", cfg.Plain)

	err = c.Kit().Decode(Attributes{"wait": "${MODULE_WAIT}"}, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot interpolate "wait": no value or default for ${MODULE_WAIT}`)
}

func TestKitDefaults(t *testing.T) {
	k := New().Kit()
	assert.NotNil(t, k.Logger())
	assert.NotNil(t, k.MetricsScope())
}

func TestBackoffStrategy(t *testing.T) {
	var cfg Backoff
	require.NoError(t, Attributes{"exponential": map[string]interface{}{
		"first": "10ms",
		"max":   "1s",
	}}.Decode(&cfg))

	s, err := cfg.Strategy()
	require.NoError(t, err)
	b := s.Backoff()
	assert.True(t, b.Duration(0) <= 10*time.Millisecond)
	assert.True(t, b.Duration(20) <= time.Second)
}
