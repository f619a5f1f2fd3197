// Package apierr holds the error types raised while talking to news and weather providers.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// NotConfiguredError means no provider in a chain has a usable API key.
type NotConfiguredError struct {
	What string // e.g. "news", "weather"
}

func (e *NotConfiguredError) Error() string {
	if e.What == "" {
		return "no provider configured"
	}
	return fmt.Sprintf("no %s provider configured: set an API key first", e.What)
}

// TransportError is a network or HTTP-level failure, or an explicit error reported by the provider.
type TransportError struct {
	Provider string
	Status   int    // HTTP status, 0 when the request never got a response
	Code     string // provider-specific error code, if any
	Message  string
	Err      error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("request failed")
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " (code %s)", e.Code)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError is a TransportError caused by a rejected API key.
type AuthError struct {
	TransportError
}

const authCauses = "possible causes: the API key is wrong, the key has not been activated yet, or the request quota has been exceeded"

func (e *AuthError) Error() string {
	return "authentication failed: " + e.TransportError.Error() + "; " + authCauses
}

// NewAuthError builds an AuthError for a provider.
func NewAuthError(provider string, status int, code, message string) *AuthError {
	return &AuthError{TransportError{Provider: provider, Status: status, Code: code, Message: message}}
}

// MalformedError means the provider returned a body that is not the expected JSON.
type MalformedError struct {
	Provider string
	Err      error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Provider, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// ProviderFailure records why one provider in a chain failed.
type ProviderFailure struct {
	Provider string
	Err      error
}

// AggregateError is raised when every provider in a fallback chain failed.
type AggregateError struct {
	Failures []ProviderFailure
}

func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("[%s] %v", f.Provider, f.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Err)
	}
	return out
}

// IsNotConfigured checks if an error is a NotConfiguredError.
func IsNotConfigured(err error) bool {
	var e *NotConfiguredError
	return errors.As(err, &e)
}

// IsAuth checks if an error is an AuthError.
func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsTransport checks if an error is a TransportError or an AuthError.
func IsTransport(err error) bool {
	var e *TransportError
	if errors.As(err, &e) {
		return true
	}
	return IsAuth(err)
}

// IsMalformed checks if an error is a MalformedError.
func IsMalformed(err error) bool {
	var e *MalformedError
	return errors.As(err, &e)
}

// IsAggregate checks if an error is an AggregateError.
func IsAggregate(err error) bool {
	var e *AggregateError
	return errors.As(err, &e)
}
