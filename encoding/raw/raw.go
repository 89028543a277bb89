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

// Package raw passes invocation payloads through untouched.
//
// A raw invocation takes exactly one []byte argument and produces a []byte
// result. Application failures are reported with their payload as the
// message.
package raw

import (
	"fmt"

	"go.uber.org/beanrpc/api/transport"
)

// Name is the marshalling strategy name offered during the handshake.
const Name = "raw"

// Marshaller is the raw transport.Marshaller.
type Marshaller struct{}

var _ transport.Marshaller = Marshaller{}

// Name returns "raw".
func (Marshaller) Name() string { return Name }

// Marshal expects no arguments or a single []byte argument.
func (Marshaller) Marshal(args []interface{}) ([]byte, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		b, ok := args[0].([]byte)
		if !ok {
			return nil, fmt.Errorf("raw arguments must be []byte, got %T", args[0])
		}
		return b, nil
	default:
		return nil, fmt.Errorf("raw invocations take at most one argument, got %d", len(args))
	}
}

// Unmarshal copies payload into result, which must be a *[]byte.
func (Marshaller) Unmarshal(payload []byte, result interface{}) error {
	out, ok := result.(*[]byte)
	if !ok {
		return fmt.Errorf("raw results must be decoded into *[]byte, got %T", result)
	}
	*out = append((*out)[:0], payload...)
	return nil
}

// UnmarshalException returns an *ApplicationError holding payload.
func (Marshaller) UnmarshalException(payload []byte) error {
	return &ApplicationError{Payload: append([]byte(nil), payload...)}
}

// ApplicationError is an application failure reported by the server.
type ApplicationError struct {
	Payload []byte
}

func (e *ApplicationError) Error() string {
	return "application error: " + string(e.Payload)
}
