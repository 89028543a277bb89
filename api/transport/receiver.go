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
	"context"
	"fmt"
	"net/url"
)

// TransactionID correlates the client and server branches of a distributed
// transaction. It is opaque and compared bytewise.
type TransactionID []byte

// Equal compares two transaction IDs bytewise.
func (t TransactionID) Equal(o TransactionID) bool { return bytes.Equal(t, o) }

func (t TransactionID) String() string { return fmt.Sprintf("%x", []byte(t)) }

// Xid is an XA transaction branch identifier returned by recovery.
type Xid struct {
	FormatID            int32
	GlobalTransactionID []byte
	BranchQualifier     []byte
}

// Request is what a Receiver sends for one invocation.
type Request struct {
	Locator     Locator
	Method      MethodLocator
	Payload     []byte
	Attachments Attachments
}

// Result is a successful invocation outcome.
type Result struct {
	Payload     []byte
	Attachments Attachments
}

// ResultSink receives the outcome of a dispatched invocation. Exactly one of
// ResultReady or RequestCancelled is called, at most once.
type ResultSink interface {
	// ResultReady delivers the response. err is either the application
	// failure decoded by the Marshaller or a runtime failure.
	ResultReady(res *Result, err error)
	// RequestCancelled reports that the server confirmed a cancellation.
	RequestCancelled()
}

// Call ties one Request to its ResultSink. Receivers use the *Call as the
// identity of the invocation, for example to cancel it later.
type Call struct {
	Request *Request
	Sink    ResultSink
}

// Receiver dispatches invocations to one destination.
type Receiver interface {
	// NodeName is the name of the server node behind the receiver.
	NodeName() string

	// Destination is the URI the receiver was created for.
	Destination() *url.URL

	// Serves reports whether the node hosts the module of id.
	Serves(id Identifier) bool

	// ProcessInvocation hands the call to the transport. The outcome is
	// later delivered to call.Sink. A returned error means the request was
	// not sent; it is a RequestSendFailed status naming the node.
	ProcessInvocation(ctx context.Context, call *Call) error

	// CancelInvocation asks the server to stop working on call. It never
	// waits for an answer and reports whether cancellation was confirmed
	// synchronously.
	CancelInvocation(ctx context.Context, call *Call) bool

	// OpenSession creates a stateful session for loc and returns a stateful
	// Locator. The returned Locator carries the affinity the server chose.
	OpenSession(ctx context.Context, loc Locator) (Locator, error)

	TransactionReceiver

	// Close releases the receiver's connection.
	Close() error
}

// TransactionReceiver carries two-phase commit operations to a resource
// manager. Failures are *beanerrors.XAError values.
type TransactionReceiver interface {
	Commit(ctx context.Context, tx TransactionID, onePhase bool) error
	Rollback(ctx context.Context, tx TransactionID) error
	Prepare(ctx context.Context, tx TransactionID) (int32, error)
	Forget(ctx context.Context, tx TransactionID) error
	BeforeCompletion(ctx context.Context, tx TransactionID) error
	Recover(ctx context.Context, parentNode string, flags int32) ([]Xid, error)
}

// Marshaller turns invocation arguments and results into the opaque
// payloads carried by protocol messages.
type Marshaller interface {
	// Name is the marshalling strategy offered during the handshake.
	Name() string
	// Marshal encodes invocation arguments.
	Marshal(args []interface{}) ([]byte, error)
	// Unmarshal decodes a result payload into result.
	Unmarshal(payload []byte, result interface{}) error
	// UnmarshalException decodes an application failure reported by the
	// server. The returned error is handed to the caller unchanged.
	UnmarshalException(payload []byte) error
}
