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

package remote

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/internal/wire"
)

// Attachments that only matter inside the client and never go on the wire.
var _localAttachments = map[transport.AttachmentKey]struct{}{
	transport.HintsDisabled:           {},
	transport.ClassCompressionHint:    {},
	transport.MethodCompressionHints:  {},
	transport.TransactionIDAttachment: {},
	transport.WeakAffinityAttachment:  {},
	transport.NamingProviderURI:       {},
}

func writeTarget(w *wire.Writer, loc transport.Locator) {
	id := loc.Identifier()
	w.WriteUTF(id.App)
	w.WriteUTF(id.Module)
	w.WriteUTF(id.Distinct)
	w.WriteUTF(id.Bean)
	w.WriteUTF(loc.ViewType())
}

func writeAttachments(w *wire.Writer, a transport.Attachments) {
	keys := make([]string, 0, len(a))
	values := make(map[string]string, len(a))
	for k, v := range a {
		if _, ok := _localAttachments[k]; ok {
			continue
		}
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case bool:
			s = strconv.FormatBool(v)
		case int:
			s = strconv.Itoa(v)
		default:
			continue
		}
		keys = append(keys, string(k))
		values[string(k)] = s
	}
	sort.Strings(keys)

	w.WritePackedInt(len(keys))
	for _, k := range keys {
		w.WriteUTF(k)
		w.WriteUTF(values[k])
	}
}

func readAttachments(r *wire.Reader) transport.Attachments {
	n := r.ReadCount()
	a := make(transport.Attachments)
	for i := 0; i < n && r.Err() == nil; i++ {
		k := r.ReadUTF()
		a[transport.AttachmentKey(k)] = r.ReadUTF()
	}
	return a
}

// writeInvocation writes the body of an invocation request.
func writeInvocation(w *wire.Writer, req *transport.Request) {
	writeTarget(w, req.Locator)
	w.WriteBool(req.Locator.Stateful())
	if req.Locator.Stateful() {
		w.WriteLenBytes(req.Locator.SessionID())
	}
	w.WriteUTF(req.Method.Name)
	w.WritePackedInt(len(req.Method.ParameterTypes))
	for _, p := range req.Method.ParameterTypes {
		w.WriteUTF(p)
	}
	w.WriteLenBytes(req.Attachments.TransactionID())
	writeAttachments(w, req.Attachments)
	w.WriteRaw(req.Payload)
}

// readResult reads the body of an invocation response.
func readResult(r *wire.Reader) (*transport.Result, error) {
	a := readAttachments(r)
	payload := r.ReadRest()
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &transport.Result{Payload: payload, Attachments: a}, nil
}

// readSessionOpened reads a session open response and derives the stateful
// Locator from loc. A weak affinity sent by the server replaces the
// affinity of loc.
func readSessionOpened(r *wire.Reader, loc transport.Locator) (transport.Locator, error) {
	session := r.ReadLenBytes()
	kind := transport.AffinityKind(r.ReadUint8())
	value := r.ReadUTF()
	if err := r.Err(); err != nil {
		return transport.Locator{}, err
	}
	out := loc.WithSession(session)
	if kind != transport.AffinityNone {
		out = out.WithAffinity(transport.Affinity{Kind: kind, Value: value})
	}
	return out, nil
}

// readTxOutcome reads a transaction response: a failure flag followed by
// either the XA code and message of the failure or the operation's result.
func readTxOutcome(r *wire.Reader) (int32, error) {
	failed := r.ReadBool()
	v := r.ReadInt32()
	if !failed {
		return v, r.Err()
	}
	msg := r.ReadUTF()
	if err := r.Err(); err != nil {
		return 0, err
	}
	return 0, &beanerrors.XAError{Code: beanerrors.XACode(v), Message: msg}
}

func readXids(r *wire.Reader) ([]transport.Xid, error) {
	n := r.ReadCount()
	var xids []transport.Xid
	for i := 0; i < n && r.Err() == nil; i++ {
		xids = append(xids, transport.Xid{
			FormatID:            r.ReadInt32(),
			GlobalTransactionID: r.ReadLenBytes(),
			BranchQualifier:     r.ReadLenBytes(),
		})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return xids, nil
}

func readModules(r *wire.Reader) ([]transport.ModuleID, error) {
	n := r.ReadCount()
	var modules []transport.ModuleID
	for i := 0; i < n && r.Err() == nil; i++ {
		modules = append(modules, transport.ModuleID{
			App:      r.ReadUTF(),
			Module:   r.ReadUTF(),
			Distinct: r.ReadUTF(),
		})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

// readFailure turns a no-such-bean, no-such-method or session-not-active
// message into a Status naming node.
func readFailure(h wire.Header, r *wire.Reader, node string) error {
	msg := r.ReadUTF()
	if r.Err() != nil || msg == "" {
		msg = h.String()
	}
	var code beanerrors.Code
	switch h {
	case wire.HeaderNoSuchBean:
		code = beanerrors.CodeNoSuchBean
	case wire.HeaderNoSuchMethod:
		code = beanerrors.CodeNoSuchMethod
	case wire.HeaderSessionNotActive:
		code = beanerrors.CodeSessionNotActive
	default:
		return unexpected(h)
	}
	return beanerrors.Newf(code, "%s", msg).WithNode(node)
}

func unexpected(h wire.Header) error {
	return beanerrors.InternalErrorf("unexpected %v message", h)
}

func isFailureHeader(h wire.Header) bool {
	switch h {
	case wire.HeaderNoSuchBean, wire.HeaderNoSuchMethod, wire.HeaderSessionNotActive:
		return true
	}
	return false
}

func protocolVersionError(v byte) error {
	return fmt.Errorf("server offered protocol version %d", v)
}
