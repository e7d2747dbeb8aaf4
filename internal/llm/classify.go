package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Class tells the retry policy what to do with a failed call.
type Class int

const (
	// ClassFatal errors are returned immediately.
	ClassFatal Class = iota
	// ClassTransient errors are retried with backoff.
	ClassTransient
	// ClassRateLimit errors are retried with backoff as well.
	ClassRateLimit
)

func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassRateLimit:
		return "rate_limit"
	default:
		return "fatal"
	}
}

// Retryable reports whether the call may be attempted again.
func (c Class) Retryable() bool {
	return c == ClassTransient || c == ClassRateLimit
}

// StatusError is an HTTP-level failure reported by a backend that does not
// use googleapi errors.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Message)
}

// Classify maps a backend error to a retry class. Status codes win over
// message heuristics.
func Classify(err error) Class {
	if err == nil || errors.Is(err, context.Canceled) {
		return ClassFatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	if code, ok := statusCode(err); ok {
		return classifyStatus(code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTransient
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"resource exhausted", "resource_exhausted", "rate limit", "too many requests", "quota"} {
		if strings.Contains(msg, marker) {
			return ClassRateLimit
		}
	}
	for _, marker := range []string{"unavailable", "timeout", "timed out", "deadline exceeded", "connection reset", "connection refused", "temporary failure", "overloaded"} {
		if strings.Contains(msg, marker) {
			return ClassTransient
		}
	}
	return ClassFatal
}

func statusCode(err error) (int, bool) {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return sErr.Code, true
	}
	// apierror.APIError from the gapic clients
	var coded interface{ HTTPCode() int }
	if errors.As(err, &coded) && coded.HTTPCode() > 0 {
		return coded.HTTPCode(), true
	}
	return 0, false
}

func classifyStatus(code int) Class {
	switch {
	case code == http.StatusTooManyRequests:
		return ClassRateLimit
	case code == http.StatusRequestTimeout, code >= 500:
		return ClassTransient
	default:
		return ClassFatal
	}
}
