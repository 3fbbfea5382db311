package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/openbasket/catalog/pkg/errors"
)

// downstreamError is the standard error envelope other services in the
// platform return. Third-party APIs with different shapes fall through
// to the unstructured path.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes the body of a non-2xx response
// and turns it into an error. Structured envelopes keep their code and
// message; anything else becomes a generic status-and-body error.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var de downstreamError
	if json.Unmarshal(body, &de) == nil && de.Error != nil {
		return translateDownstream(resp.StatusCode, de.Error.Code, de.Error.Message, serviceName)
	}
	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, body)
}

// translateDownstream maps a downstream status and error code onto the
// local AppError taxonomy so callers can errors.Is against sentinels.
func translateDownstream(status int, code, message, serviceName string) error {
	msg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(msg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case status == http.StatusConflict:
		return &apperrors.AppError{
			Code:    code,
			Message: msg,
			Status:  status,
			Err:     apperrors.ErrAlreadyExists,
		}
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    code,
			Message: msg,
			Status:  status,
			Err:     apperrors.ErrServiceUnavail,
		}
	case status >= 500:
		return fmt.Errorf("%s server error (%d/%s): %s", serviceName, status, code, message)
	default:
		return &apperrors.AppError{Code: code, Message: msg, Status: status}
	}
}

// IsClientError reports whether status is a 4xx. Client errors are
// permanent for a given request and must not be retried.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
