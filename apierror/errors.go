// Package apierror описывает типизированные ошибки обращения к Twitch API.
package apierror

import (
	"errors"
	"fmt"
)

// AuthenticationError означает, что обмен учётных данных на токен не удался
// или вернул неполный токен.
type AuthenticationError struct {
	Status  int
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("authentication failed: status %d: %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("authentication failed: status %d", e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("authentication failed: %s", e.Message)
	}
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// NewAuthenticationError создаёт AuthenticationError для ответа с кодом status.
func NewAuthenticationError(status int, message string) *AuthenticationError {
	return &AuthenticationError{Status: status, Message: message}
}

// IsAuthenticationError сообщает, содержит ли цепочка err AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// NotFoundError означает, что в ответе нет ожидаемого списка или поля.
type NotFoundError struct {
	Resource string // users, channels, streams
	Query    string
	Field    string
}

func (e *NotFoundError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("not found: %s %q: missing %s", e.Resource, e.Query, e.Field)
	}
	return fmt.Sprintf("not found: %s %q", e.Resource, e.Query)
}

// NewNotFoundError создаёт NotFoundError.
func NewNotFoundError(resource, query, field string) *NotFoundError {
	return &NotFoundError{Resource: resource, Query: query, Field: field}
}

// IsNotFoundError сообщает, содержит ли цепочка err NotFoundError.
func IsNotFoundError(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// TransportError оборачивает сетевую ошибку или таймаут.
type TransportError struct {
	Operation string
	Cause     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Operation, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError создаёт TransportError.
func NewTransportError(operation string, cause error) *TransportError {
	return &TransportError{Operation: operation, Cause: cause}
}

// IsTransportError сообщает, содержит ли цепочка err TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// StatusError означает неуспешный HTTP статус от ресурсного API.
type StatusError struct {
	Operation string
	Status    int
	Message   string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.Status)
}

// NewStatusError создаёт StatusError.
func NewStatusError(operation string, status int, message string) *StatusError {
	return &StatusError{Operation: operation, Status: status, Message: message}
}

// IsStatusError сообщает, содержит ли цепочка err StatusError.
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
