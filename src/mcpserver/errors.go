package mcpserver

import "fmt"

// The tool layer sorts every failure into one of four buckets: invalid
// input, rate limited (ratelimit.RateLimitError), upstream failure, or
// unsupported platform operation. Nothing is downgraded to an empty success
// response.

// InvalidInputError reports a malformed or out-of-range request field. It is
// always raised before any token is spent or any provider call is made.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamError wraps a provider failure with the operation that hit it.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream error: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// UnsupportedError reports a platform-gated operation invoked on a host that
// cannot run it.
type UnsupportedError struct {
	Op       string
	Platform string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported on %s", e.Op, e.Platform)
}
