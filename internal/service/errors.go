package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Error conditions of the task API and the local priority store.
var (
	// ErrNetworkUnreachable: the transport could not reach the service.
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrRequestRejected: the service answered with a non-2xx status.
	ErrRequestRejected = errors.New("request rejected")

	// ErrMalformedResponse: a 2xx response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnauthenticated: a task call was attempted without a user identity.
	ErrUnauthenticated = errors.New("user not authenticated, please login again")

	// ErrStorageDegraded: the local priority blob could not be read or
	// written. Never returned by the priority store; see priority.Store.Degraded.
	ErrStorageDegraded = errors.New("priority storage degraded")
)

// NetworkError reports a transport failure against Endpoint.
type NetworkError struct {
	Endpoint string
	Timeout  bool
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to backend at %s timed out", e.Endpoint)
	}
	return fmt.Sprintf("cannot connect to backend at %s, make sure the backend server is running", e.Endpoint)
}

// Is reports the NetworkUnreachable condition.
func (e *NetworkError) Is(target error) bool { return target == ErrNetworkUnreachable }

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError reports a non-2xx response.
type RequestError struct {
	// Op names the failed action, e.g. "update task".
	Op         string
	StatusCode int
	// Detail is the server-supplied message, if any.
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("failed to %s (%d %s)", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *RequestError) Unwrap() error { return ErrRequestRejected }

// IsAuth reports whether the server refused the credential.
func (e *RequestError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound reports a 404 response.
func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// MalformedResponseError reports an undecodable success body.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to %s: malformed response: %v", e.Op, e.Err)
}

// Is reports the MalformedResponse condition.
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsAuthError reports whether err means the user must log in (again).
func IsAuthError(err error) bool {
	if errors.Is(err, ErrUnauthenticated) {
		return true
	}
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.IsAuth()
}
