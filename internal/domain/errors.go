package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrConfig matches every configuration error via errors.Is.
var ErrConfig = errors.New("configuration error")

// ErrCancelled is returned when the user interrupts a run. It is never
// reported as a failure.
var ErrCancelled = errors.New("cancelled")

// FieldRef identifies a resolved setting and where it came from.
type FieldRef struct {
	Key    string
	Source Source
	Origin string
}

func (f FieldRef) String() string {
	if f.Origin == "" {
		return fmt.Sprintf("%s (%s)", f.Key, f.Source)
	}
	return fmt.Sprintf("%s (%s %s)", f.Key, f.Source, f.Origin)
}

// TypeError reports a value that could not be coerced to its setting kind.
type TypeError struct {
	Field FieldRef
	Kind  SettingKind
	Value interface{}
	Err   error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Err)
}

func (e *TypeError) Unwrap() error        { return e.Err }
func (e *TypeError) Is(target error) bool { return target == ErrConfig }

// ValidationError reports a rule violated by one or more resolved values.
type ValidationError struct {
	Fields  []FieldRef
	Message string
}

func (e *ValidationError) Error() string {
	refs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		refs = append(refs, f.String())
	}
	if len(refs) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(refs, ", "), e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrConfig }

// MissingRequiredError reports a required setting with no value.
type MissingRequiredError struct {
	Key      string
	Provider ProviderID
	Hint     string
}

func (e *MissingRequiredError) Error() string {
	msg := "missing required setting " + e.Key
	if e.Provider != "" {
		msg += " for provider " + string(e.Provider)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *MissingRequiredError) Is(target error) bool { return target == ErrConfig }

// ProviderErrorKind classifies provider failures.
type ProviderErrorKind int

const (
	AuthError ProviderErrorKind = iota + 1
	RateLimited
	ServerError
	NetworkError
	SchemaViolation
	RequestRejected
)

func (k ProviderErrorKind) String() string {
	switch k {
	case AuthError:
		return "authentication failed"
	case RateLimited:
		return "rate limited"
	case ServerError:
		return "server error"
	case NetworkError:
		return "network error"
	case SchemaViolation:
		return "malformed response"
	case RequestRejected:
		return "request rejected"
	default:
		return "provider error"
	}
}

// ProviderError is a classified failure from a backend.
type ProviderError struct {
	Kind       ProviderErrorKind
	Provider   ProviderID
	StatusCode int
	Message    string
	Hint       string
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	switch {
	case e.Message != "":
		fmt.Fprintf(&b, ": %s", e.Message)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, " (%s)", e.Hint)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case RateLimited, ServerError, NetworkError:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err wraps a transient ProviderError.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable()
}

// RetryExhaustedError wraps the last failure once the attempt cap is hit.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// AllFailedError is returned by the orchestrator when every parallel call
// failed.
type AllFailedError struct {
	Errors []error
}

func (e *AllFailedError) Error() string {
	return fmt.Sprintf("all %d requests failed: %v", len(e.Errors), e.Cause())
}

func (e *AllFailedError) Unwrap() []error { return e.Errors }

// Cause picks the error to surface: the first fatal failure, otherwise the
// first exhausted retry.
func (e *AllFailedError) Cause() error {
	var exhausted error
	for _, err := range e.Errors {
		var re *RetryExhaustedError
		if errors.As(err, &re) {
			if exhausted == nil {
				exhausted = err
			}
			continue
		}
		return err
	}
	return exhausted
}
