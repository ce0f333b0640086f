package domain

import (
	"errors"
	"fmt"
)

// FailureReason clasifica los fallos del flujo de chat.
type FailureReason string

const (
	ReasonValidation          FailureReason = "validation"
	ReasonUpstreamUnavailable FailureReason = "upstream_unavailable"
	ReasonUnknown             FailureReason = "unknown"
)

// ChatError envuelve un fallo con su clasificación.
type ChatError struct {
	Reason FailureReason
	Err    error
}

func NewChatError(reason FailureReason, err error) *ChatError {
	return &ChatError{Reason: reason, Err: err}
}

func (e *ChatError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

// ReasonOf devuelve la clasificación de err; cualquier error no clasificado es ReasonUnknown.
func ReasonOf(err error) FailureReason {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Reason
	}
	return ReasonUnknown
}
