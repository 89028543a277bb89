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

// AttachmentKey names a value carried alongside an invocation.
type AttachmentKey string

// Well-known attachments.
const (
	// HintsDisabled, a bool, makes the transport ignore compression hints.
	HintsDisabled AttachmentKey = "hints-disabled"
	// ClassCompressionHint is the CompressionHint declared for the view type.
	ClassCompressionHint AttachmentKey = "class-compression-hint"
	// MethodCompressionHints is a map[string]CompressionHint keyed by method
	// name.
	MethodCompressionHints AttachmentKey = "method-compression-hints"
	// CompressResponse, a bool, asks the server to compress its response.
	CompressResponse AttachmentKey = "compress-response"
	// ResponseCompressionLevel, an int, is the level the server should use.
	ResponseCompressionLevel AttachmentKey = "response-compression-level"
	// TransactionIDAttachment is the TransactionID the invocation runs in.
	TransactionIDAttachment AttachmentKey = "transaction-id"
	// WeakAffinityAttachment is the Affinity a server suggested for later
	// invocations on the same session.
	WeakAffinityAttachment AttachmentKey = "weak-affinity"
	// NamingProviderURI, a string, is the URI the target was looked up
	// through.
	NamingProviderURI AttachmentKey = "naming-provider-uri"
)

// CompressionHint asks for compressed request or response bodies. Level
// follows zlib levels; zero means the default level.
type CompressionHint struct {
	CompressRequest  bool
	CompressResponse bool
	Level            int
}

// Attachments is the side-channel of an invocation. Interceptors use it to
// pass data to each other and to the transport.
type Attachments map[AttachmentKey]interface{}

// Clone returns a shallow copy of a.
func (a Attachments) Clone() Attachments {
	c := make(Attachments, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Bool returns a bool attachment, false if missing.
func (a Attachments) Bool(key AttachmentKey) bool {
	v, _ := a[key].(bool)
	return v
}

// String returns a string attachment, "" if missing.
func (a Attachments) String(key AttachmentKey) string {
	v, _ := a[key].(string)
	return v
}

// Int returns an int attachment, 0 if missing.
func (a Attachments) Int(key AttachmentKey) int {
	v, _ := a[key].(int)
	return v
}

// TransactionID returns the transaction attachment, nil if missing.
func (a Attachments) TransactionID() TransactionID {
	v, _ := a[TransactionIDAttachment].(TransactionID)
	return v
}

// WeakAffinity returns the weak affinity attachment.
func (a Attachments) WeakAffinity() Affinity {
	v, _ := a[WeakAffinityAttachment].(Affinity)
	return v
}

// CompressionHint resolves the hint that applies to the named method. A
// method-level hint wins over the class-level one.
func (a Attachments) CompressionHint(method string) (CompressionHint, bool) {
	if hints, ok := a[MethodCompressionHints].(map[string]CompressionHint); ok {
		if h, ok := hints[method]; ok {
			return h, true
		}
	}
	h, ok := a[ClassCompressionHint].(CompressionHint)
	return h, ok
}
