package integration

import (
	"time"

	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Meta carries call provenance on every envelope. Timestamp is the
// wall-clock time of envelope construction, not of the underlying
// operation.
type Meta struct {
	Timestamp   time.Time           `json:"timestamp"`
	Integration types.IntegrationID `json:"integration"`
	Version     string              `json:"version"`
}

// Envelope is the universal result of an adapter operation. Exactly one
// of Data and Error is populated, never both, never neither.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// OK wraps a successful operation result.
func OK[T any](id types.IntegrationID, version string, data T) *Envelope[T] {
	return &Envelope[T]{
		Success: true,
		Data:    data,
		Meta:    newMeta(id, version),
	}
}

// Fail wraps an operation failure.
func Fail[T any](id types.IntegrationID, version string, e *Error) *Envelope[T] {
	return &Envelope[T]{
		Success: false,
		Error:   e,
		Meta:    newMeta(id, version),
	}
}

func newMeta(id types.IntegrationID, version string) *Meta {
	return &Meta{
		Timestamp:   time.Now().UTC(),
		Integration: id,
		Version:     version,
	}
}
