// Package apperr is the error normalization layer. Failures from the
// persistence layer and the identity provider are converted into a small
// stable taxonomy exactly once, at the boundary where they occur; the
// HTTP layer only switches on the code.
package apperr

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

type Code string

const (
	CodeUnauthenticated  Code = "unauthenticated"
	CodeInvalidArgument  Code = "invalid_argument"
	CodeNotFound         Code = "not_found"
	CodeAlreadyExists    Code = "already_exists"
	CodeUnavailable      Code = "unavailable"
	CodeDeadlineExceeded Code = "deadline_exceeded"
	CodeUnimplemented    Code = "unimplemented"
	CodeInternal         Code = "internal"
)

// Error is a normalized failure. Message is safe to show to clients;
// the wrapped cause is for logs only.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, cause: cause}
}

// From normalizes an arbitrary error. Already-normalized errors pass
// through unchanged, so the mapping is applied at most once.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return fromStorage(err)
}

// fromStorage maps persistence failures into the taxonomy. SQLSTATE
// classes follow the postgres documentation; anything uncategorized
// becomes Internal with a generic client message.
func fromStorage(err error) *Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return Wrap(CodeAlreadyExists, "resource already exists", err)
		case "23503": // foreign_key_violation
			return Wrap(CodeInvalidArgument, "invalid reference", err)
		case "22001": // string_data_right_truncation
			return Wrap(CodeInvalidArgument, "data too long for field", err)
		case "22003": // numeric_value_out_of_range
			return Wrap(CodeInvalidArgument, "value out of range", err)
		case "23502": // not_null_violation
			return Wrap(CodeInvalidArgument, "missing required field", err)
		case "57014": // query_canceled (statement_timeout)
			return Wrap(CodeDeadlineExceeded, "request timed out", err)
		case "0A000": // feature_not_supported
			return Wrap(CodeUnimplemented, "database feature not supported", err)
		case "42P01": // undefined_table
			return Wrap(CodeInternal, "database error occurred", err)
		case "42703": // undefined_column
			return Wrap(CodeInternal, "database error occurred", err)
		}
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case "08": // connection exceptions
				return Wrap(CodeUnavailable, "database temporarily unavailable", err)
			case "53": // insufficient resources (pool/connection exhaustion)
				return Wrap(CodeUnavailable, "database temporarily unavailable", err)
			}
		}
		return Wrap(CodeInternal, "database error occurred", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(CodeDeadlineExceeded, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(CodeUnavailable, "request canceled", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return Wrap(CodeDeadlineExceeded, "request timed out", err)
		}
		return Wrap(CodeUnavailable, "service temporarily unavailable", err)
	}

	return Wrap(CodeInternal, "an unexpected error occurred", err)
}

// HTTPStatus maps a taxonomy code to its transport status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	case CodeUnimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
