package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnexpectedResponse is returned for a successful response that is not a
// search result, e.g. an HTML page from a proxy.
var ErrUnexpectedResponse = errors.New("unexpected search response")

// GoogleAdsError is the structured failure returned by the search endpoint.
// Every request-level failure (auth, query syntax, quota, ...) surfaces as
// this type.
type GoogleAdsError struct {
	RequestID  string
	Status     string
	HTTPStatus int
	Message    string
	Errors     []ErrorDetail
}

type ErrorDetail struct {
	ErrorCode map[string]string `json:"errorCode,omitempty"`
	Message   string            `json:"message"`
	Location  *ErrorLocation    `json:"location,omitempty"`
}

type ErrorLocation struct {
	FieldPathElements []FieldPathElement `json:"fieldPathElements"`
}

type FieldPathElement struct {
	FieldName string `json:"fieldName"`
	Index     *int   `json:"index,omitempty"`
}

func (e *GoogleAdsError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		msgs = append(msgs, d.Message)
	}
	if len(msgs) == 0 && e.Message != "" {
		msgs = append(msgs, e.Message)
	}
	return fmt.Sprintf("google ads request %q failed with status %s: %s", e.RequestID, e.Status, strings.Join(msgs, "; "))
}

// errorEnvelope is the REST error body.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type      string        `json:"@type"`
			Errors    []ErrorDetail `json:"errors"`
			RequestID string        `json:"requestId"`
		} `json:"details"`
	} `json:"error"`
}

func (env *errorEnvelope) toError(httpStatus int, headerRequestID string) *GoogleAdsError {
	gerr := &GoogleAdsError{
		RequestID:  headerRequestID,
		Status:     env.Error.Status,
		HTTPStatus: httpStatus,
		Message:    env.Error.Message,
	}
	for _, d := range env.Error.Details {
		if !strings.HasSuffix(d.Type, "GoogleAdsFailure") {
			continue
		}
		gerr.Errors = append(gerr.Errors, d.Errors...)
		if d.RequestID != "" {
			gerr.RequestID = d.RequestID
		}
	}
	if gerr.Status == "" {
		gerr.Status = statusFromHTTP(httpStatus)
	}
	return gerr
}

func statusFromHTTP(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "INVALID_ARGUMENT"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "PERMISSION_DENIED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RESOURCE_EXHAUSTED"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	case http.StatusGatewayTimeout:
		return "DEADLINE_EXCEEDED"
	}
	if code >= 500 {
		return "INTERNAL"
	}
	return "UNKNOWN"
}
