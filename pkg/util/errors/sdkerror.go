package errors

import (
	"fmt"
)

// SDKError - an error with a stable numeric code
type SDKError struct {
	formattedErr bool
	Code         int    `json:"code"`
	Message      string `json:"message"`
	formatArgs   []interface{}
	cause        error
}

// New - Creates a new SDK Error
func New(errCode int, errMessage string) *SDKError {
	return &SDKError{Code: errCode, Message: errMessage}
}

// Newf - Creates a new SDK Error whose message is a format string
func Newf(errCode int, errMessage string) *SDKError {
	return &SDKError{formattedErr: true, Code: errCode, Message: errMessage}
}

// Wrap - appends info to the message of a defined error
func Wrap(sdkError *SDKError, info string) *SDKError {
	message := sdkError.Message
	if info != "" {
		message += fmt.Sprintf(": %s", info)
	}
	return &SDKError{
		formattedErr: sdkError.formattedErr,
		Code:         sdkError.Code,
		Message:      message,
		formatArgs:   sdkError.formatArgs,
		cause:        sdkError.cause,
	}
}

// FormatError - Creates an error with the format args applied
func (e *SDKError) FormatError(args ...interface{}) error {
	return &SDKError{formattedErr: e.formattedErr, Code: e.Code, Message: e.Message, formatArgs: args, cause: e.cause}
}

// WithCause - keeps the underlying error reachable through errors.Unwrap
func (e *SDKError) WithCause(err error) *SDKError {
	return &SDKError{formattedErr: e.formattedErr, Code: e.Code, Message: e.Message, formatArgs: e.formatArgs, cause: err}
}

// Error - Returns the formatted error message
func (e *SDKError) Error() string {
	msg := e.Message
	if e.formattedErr {
		msg = fmt.Sprintf(e.Message, e.formatArgs...)
	}
	if e.cause != nil {
		return fmt.Sprintf("[Error Code %d] - %s: %s", e.Code, msg, e.cause.Error())
	}
	return fmt.Sprintf("[Error Code %d] - %s", e.Code, msg)
}

// Unwrap -
func (e *SDKError) Unwrap() error {
	return e.cause
}

// Is matches any SDKError carrying the same code
func (e *SDKError) Is(target error) bool {
	t, ok := target.(*SDKError)
	return ok && t.Code == e.Code
}

// GetErrorCode - Returns the error code
func (e *SDKError) GetErrorCode() int {
	return e.Code
}
