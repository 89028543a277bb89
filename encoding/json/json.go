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

// Package json marshals invocation arguments and results as JSON.
//
// Arguments are encoded as a JSON array. Application failures travel as an
// object with "type" and "message" fields.
package json

import (
	"encoding/json"
	"fmt"

	"go.uber.org/beanrpc/api/transport"
)

// Name is the marshalling strategy name offered during the handshake.
const Name = "json"

// Marshaller is the JSON transport.Marshaller.
type Marshaller struct{}

var _ transport.Marshaller = Marshaller{}

// Name returns "json".
func (Marshaller) Name() string { return Name }

// Marshal encodes args as a JSON array.
func (Marshaller) Marshal(args []interface{}) ([]byte, error) {
	if args == nil {
		args = []interface{}{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON arguments: %v", err)
	}
	return b, nil
}

// Unmarshal decodes payload into result. An empty payload leaves result
// untouched.
func (Marshaller) Unmarshal(payload []byte, result interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("failed to decode JSON result: %v", err)
	}
	return nil
}

// UnmarshalException decodes an *ApplicationError. Payloads that are not
// valid JSON are kept as the message.
func (Marshaller) UnmarshalException(payload []byte) error {
	var appErr ApplicationError
	if err := json.Unmarshal(payload, &appErr); err != nil {
		return &ApplicationError{Message: string(payload)}
	}
	return &appErr
}

// ApplicationError is an application failure reported by the server.
type ApplicationError struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

func (e *ApplicationError) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}
