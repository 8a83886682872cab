package backendapi

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies a terminal failure.
//
//   - CategoryAPI: the transport itself could not be issued.
//   - CategoryHTTP: the transport completed with a non-2xx/304 status.
//   - CategoryBusiness: the protocol succeeded but the normalized envelope
//     carries a non-zero business status.
type Category byte

const (
	CategoryAPI      Category = 'A'
	CategoryHTTP     Category = 'H'
	CategoryBusiness Category = 'B'
)

// defaultAPIStatus is used for category A failures whose transport error
// carries no message to derive a status from. It sits outside the HTTP status
// range so A-codes can never collide with H-codes.
const defaultAPIStatus = 600

// Sentinel errors for pipeline-level conditions.
var (
	// ErrDuplicateIntercepted is returned when a call was blocked because an
	// identical request was already in flight and the call opted into
	// duplicate interception. The blocked call never settles with a result;
	// it unblocks only through its context.
	ErrDuplicateIntercepted = errors.New("backendapi: duplicate request intercepted")

	// ErrNoTransport is returned when the client was built without a usable
	// transport.
	ErrNoTransport = errors.New("backendapi: no transport configured")
)

// RequestError is the single error type produced by the dispatch pipeline for
// every terminal failure, regardless of category.
type RequestError struct {
	Category  Category
	Status    int
	Message   string
	Method    string
	URL       string
	RequestID string
	Envelope  *Envelope
	Result    *TransportResult
	Cause     error
	Timestamp time.Time
	Duration  time.Duration
}

// Code renders the compact error code, e.g. "H404", "B1001", "A116".
func (e *RequestError) Code() string {
	return fmt.Sprintf("%c%d", e.Category, e.Status)
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code(), msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code(), msg)
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares categories for errors.Is.
func (e *RequestError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*RequestError); ok {
		return e.Category == targetErr.Category
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *RequestError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Code: %s\n", e.Code())
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Envelope != nil {
		info += fmt.Sprintf("Envelope Status: %d\n", e.Envelope.Status)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// classifyTransportError derives the category A status and human message from
// a transport error. Messages in the platform "request:fail <reason>" shape
// are stripped to the reason; the status is the char code of the first byte of
// the remaining message, or defaultAPIStatus when no message is available.
func classifyTransportError(err error) (status int, message string) {
	msg := err.Error()
	if i := strings.Index(msg, "fail "); i >= 0 {
		msg = msg[i+len("fail "):]
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return defaultAPIStatus, ""
	}
	return int(msg[0]), msg
}

// httpSuccess reports whether a protocol status terminates the call on the
// success path. 304 is included because cached-validation responses still
// carry a usable body upstream.
func httpSuccess(statusCode int) bool {
	return (statusCode >= 200 && statusCode < 300) || statusCode == 304
}
