package integration

import (
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Error is the failure half of an envelope. Code is drawn from the
// fixed taxonomy in types; Message is always non-empty and safe to show
// to a caller.
type Error struct {
	Code    types.ErrCode  `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Stack   []string       `json:"stack,omitempty"`
}

// NewError builds an envelope error with the given code and message.
func NewError(code types.ErrCode, msg string) *Error {
	if msg == "" {
		msg = "integration operation failed"
	}
	return &Error{Code: code, Message: msg}
}

// WithDetail attaches a diagnostic detail and returns the error for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ErrorFrom converts any error into an envelope error. The code is
// taken from the goerr value chain when present, API_ERROR otherwise.
// When debug is true, goerr values and the stack trace are attached as
// diagnostics; production envelopes carry only code and message.
func ErrorFrom(err error, debug bool) *Error {
	e := NewError(types.CodeOf(err), err.Error())

	if !debug {
		return e
	}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		for k, v := range ge.Values() {
			e.WithDetail(k, v)
		}
		for _, frame := range ge.Stacks() {
			e.Stack = append(e.Stack, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Func))
		}
	}
	return e
}
