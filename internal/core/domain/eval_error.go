package domain

import (
	"fmt"
	"strings"
)

// EvalError is a failure of user code, attributed to the operation and source
// position that raised it.
type EvalError struct {
	Operation string
	Line      int
	Column    int
	Message   string
	Cause     error
}

// Error implements error.
func (e *EvalError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d:%d: ", e.Line, e.Column)
	}
	if e.Operation != "" {
		b.WriteString(e.Operation)
		b.WriteString(": ")
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	b.WriteString(msg)
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error {
	return e.Cause
}

// Payload converts the error into its protocol form.
func (e *EvalError) Payload(session string) ErrorPayload {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	return ErrorPayload{
		Message:   msg,
		Operation: e.Operation,
		Line:      e.Line,
		Column:    e.Column,
		Session:   session,
	}
}

// Err converts a reported failure back into an EvalError.
func (p ErrorPayload) Err() *EvalError {
	return &EvalError{
		Operation: p.Operation,
		Line:      p.Line,
		Column:    p.Column,
		Message:   p.Message,
	}
}
