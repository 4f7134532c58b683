package api

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/metadeploy/metadeploy-sdk/pkg/util/errors"
)

// Errors hit by the transport
var (
	ErrRequestFailed  = errors.Newf(1200, "request %s %s failed")
	ErrDecodeResponse = errors.Newf(1201, "could not decode the response from %s")
	ErrEncodeRequest  = errors.Newf(1202, "could not encode the request body for %s")
)

// APIError - a non 2xx response, Message is fit to show to a user
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsNotFound -
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// newAPIError reads the detail field of the body, falling back to the status text
func newAPIError(res *Response) *APIError {
	message := ""
	if gjson.ValidBytes(res.Body) {
		if detail := gjson.GetBytes(res.Body, "detail"); detail.Exists() {
			message = detail.String()
		}
	}
	if message == "" {
		message = http.StatusText(res.Code)
	}
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", res.Code)
	}
	return &APIError{Status: res.Code, Message: message, Body: res.Body}
}
