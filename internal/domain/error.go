package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeInternal        ErrorCode = "INTERNAL"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
		}
	}
	return E(code, op, "", err)
}

var ErrUnknownTool = errors.New("unknown tool")
var ErrDuplicateTool = errors.New("tool already registered")
var ErrInvalidArguments = errors.New("invalid arguments")
var ErrHandlerFailed = errors.New("handler failed")
var ErrCatalogFetch = errors.New("catalog fetch failed")
var ErrUnknownSession = errors.New("unknown session")
var ErrRouteNotFound = errors.New("route not found")

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidArguments):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrUnknownTool), errors.Is(err, ErrUnknownSession), errors.Is(err, ErrRouteNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrDuplicateTool):
		return CodeAlreadyExists, true
	case errors.Is(err, ErrCatalogFetch):
		return CodeUnavailable, true
	case errors.Is(err, ErrHandlerFailed):
		return CodeInternal, true
	default:
		return "", false
	}
}
