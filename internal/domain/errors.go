package domain

import (
	"errors"
	"fmt"
)

// ErrorKind clasifica los errores que devuelve el repositorio de mensajes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidArgument
	KindNotFound
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrPersistence     = &Error{Kind: KindPersistence, Message: "persistence failure"}
)

// Error lleva el tipo de fallo, la operación y la causa original.
// Error() solo expone Message; la causa queda disponible vía Unwrap para logs.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is compara por Kind, así errors.Is(err, ErrNotFound) funciona con cualquier Error del mismo tipo.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func InvalidArgument(op, message string) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: message}
}

func NotFound(op, message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message, Err: cause}
}

func Persistence(op, message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Message: message, Err: cause}
}

// KindOf devuelve el ErrorKind de err, o KindUnknown si no es un *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
