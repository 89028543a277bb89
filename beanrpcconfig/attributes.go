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
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/uber-go/mapdecode"
	"go.uber.org/beanrpc/internal/interpolate"
)

const (
	_tagName           = "config"
	_interpolateOption = "interpolate"
)

// Attributes is the configuration of one transport or interceptor as it
// appeared in the configuration source.
type Attributes map[string]interface{}

// PopString removes the named attribute and decodes it as a string.
func (m Attributes) PopString(name string) (s string, err error) {
	_, err = m.Pop(name, &s)
	return
}

// PopBool removes the named attribute and decodes it as a bool.
func (m Attributes) PopBool(name string) (b bool, err error) {
	_, err = m.Pop(name, &b)
	return
}

// Pop removes the named attribute and decodes it into dst.
func (m Attributes) Pop(name string, dst interface{}) (ok bool, err error) {
	ok, err = m.Get(name, dst)
	if ok {
		delete(m, name)
	}
	return
}

// Get decodes the named attribute into dst. ok is false if the attribute is
// absent.
func (m Attributes) Get(name string, dst interface{}) (ok bool, err error) {
	v, ok := m[name]
	if !ok {
		return ok, nil
	}

	err = decodeInto(dst, v)
	if err != nil {
		err = fmt.Errorf("failed to read attribute %q: %v", name, v)
	}
	return true, err
}

// Keys returns the attribute names in sorted order.
func (m Attributes) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Decode decodes all attributes into dst.
func (m Attributes) Decode(dst interface{}, opts ...mapdecode.Option) error {
	return decodeInto(dst, map[string]interface{}(m), opts...)
}

func decodeInto(dst interface{}, src interface{}, opts ...mapdecode.Option) error {
	opts = append(opts, mapdecode.TagName(_tagName))
	return mapdecode.Decode(dst, src, opts...)
}

// interpolateWith expands variables in string values of fields tagged with
// the interpolate option.
func interpolateWith(resolver interpolate.VariableResolver) mapdecode.Option {
	return mapdecode.FieldHook(func(dest reflect.StructField, srcData reflect.Value) (reflect.Value, error) {
		tag := strings.Split(dest.Tag.Get(_tagName), ",")
		shouldInterpolate := false
		for _, option := range tag[1:] {
			if option == _interpolateOption {
				shouldInterpolate = true
				break
			}
		}
		if !shouldInterpolate {
			return srcData, nil
		}

		// Non-string values, such as an integer for an interpolated integer
		// field, are decoded as they are.
		v, ok := srcData.Interface().(string)
		if !ok {
			return srcData, nil
		}

		key := tag[0]
		if key == "" {
			key = dest.Name
		}
		newV, err := interpolate.Expand(key, v, resolver)
		if err != nil {
			return srcData, err
		}
		return reflect.ValueOf(newV), nil
	})
}
