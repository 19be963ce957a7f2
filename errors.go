// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies the failure modes of a configuration retrieval.
//
// The enumeration is closed: every error returned by this package carries
// exactly one of these kinds.
type ErrorKind int

const (
	// KindMissingParameter indicates a local validation failure before any
	// network activity (missing or invalid parameter).
	KindMissingParameter ErrorKind = iota

	// KindConnection indicates a session establishment failure (network
	// unreachable, authentication rejected). No retry is attempted.
	KindConnection

	// KindRPC indicates the device rejected the request at the protocol
	// level, including malformed filter subtrees.
	KindRPC

	// KindUnexpected covers any other runtime fault, such as a filesystem
	// error while writing the destination file.
	KindUnexpected
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindMissingParameter:
		return "missing parameter"
	case KindConnection:
		return "connection error"
	case KindRPC:
		return "rpc failure"
	case KindUnexpected:
		return "unexpected error"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// RPCErrorDetail carries one rpc-error element from a NETCONF reply
type RPCErrorDetail struct {
	// Severity is the rpc-error severity (error, warning)
	Severity string

	// Tag is the rpc-error tag (e.g. operation-failed)
	Tag string

	// Message is the human-readable error message
	Message string
}

// DeviceError represents a structured failure with operation context
type DeviceError struct {
	// Kind classifies the failure
	Kind ErrorKind

	// Op is the operation that failed
	Op string

	// Host identifies the target device (host:port) when known
	Host string

	// Message is a human-readable description
	Message string

	// Details contains rpc-error elements for KindRPC failures
	Details []RPCErrorDetail

	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	var b strings.Builder
	b.WriteString("junos: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind == KindUnexpected {
		b.WriteString("unexpected error, please report: ")
	}
	b.WriteString(e.Message)
	if e.Host != "" {
		fmt.Fprintf(&b, " (host %s)", e.Host)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Details) > 0 {
		b.WriteString(" [")
		for i, d := range e.Details {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "severity=%s tag=%s message=%q", d.Severity, d.Tag, d.Message)
		}
		b.WriteString("]")
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// KindOf returns the error kind of err, or (0, false) if err is not a
// *DeviceError produced by this package.
func KindOf(err error) (ErrorKind, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsMissingParameter reports whether err is a local validation failure
func IsMissingParameter(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindMissingParameter
}

// IsConnectionError reports whether err is a session establishment failure
func IsConnectionError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindConnection
}

// IsRPCError reports whether err is a protocol-level rejection
func IsRPCError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindRPC
}
