// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
package api

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the KGLLM client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeNotFound
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeConnection, Message: "KGLLM server is unreachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "not authenticated"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "resource not found"}
)

// typeOf extracts the ErrorType from an error chain.
func typeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// IsUnauthorized reports whether the error is an authentication
// failure. Callers react by sending the user through `kgllm login`.
func IsUnauthorized(err error) bool {
	return typeOf(err) == ErrTypeUnauthorized
}

// IsTimeout reports whether the error is a client-side timeout.
func IsTimeout(err error) bool {
	return typeOf(err) == ErrTypeTimeout
}

// IsUnreachable reports whether the server could not be reached at all.
func IsUnreachable(err error) bool {
	return typeOf(err) == ErrTypeConnection
}

// IsNotFound reports whether the server returned 404.
func IsNotFound(err error) bool {
	return typeOf(err) == ErrTypeNotFound
}
