package todoist

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/harrisonrobin/todochat/pkg/auth"
	"google.golang.org/api/googleapi"
)

// Kind classifies a failed API call.
type Kind int

const (
	Unknown Kind = iota
	Unauthorized
	NetworkError
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case NetworkError:
		return "network"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or Unknown when err did not come from a
// Client.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if errors.Is(err, auth.ErrTokenNotFound) {
		return Unauthorized
	}
	return Unknown
}

// transportError classifies an error returned by http.Client.Do.
func transportError(op string, err error) *Error {
	if errors.Is(err, auth.ErrTokenNotFound) {
		return &Error{Op: op, Kind: Unauthorized, Err: auth.ErrTokenNotFound}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Op: op, Kind: NetworkError, Err: err}
	}
	return &Error{Op: op, Kind: Unknown, Err: err}
}

// responseError converts a non-2xx response reported by
// googleapi.CheckResponse.
func responseError(op string, err error) *Error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return &Error{Op: op, Kind: Unknown, Err: err}
	}

	kind := Unknown
	if gErr.Code == http.StatusUnauthorized || gErr.Code == http.StatusForbidden {
		kind = Unauthorized
	}

	detail := strings.TrimSpace(gErr.Message)
	if detail == "" {
		detail = strings.TrimSpace(gErr.Body)
	}
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}

	msg := fmt.Sprintf("request failed with status code %d", gErr.Code)
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{Op: op, Kind: kind, StatusCode: gErr.Code, Err: errors.New(msg)}
}
