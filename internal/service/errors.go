package service

import (
	"errors"
	"fmt"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/report"
)

var (
	// ErrConfiguration indicates no generation credential is available.
	ErrConfiguration = errors.New("generation credential not configured")
	// ErrServiceUnavailable indicates the generation call itself failed.
	ErrServiceUnavailable = errors.New("generation service unavailable")
	// ErrQuotaExceeded indicates the generation provider rejected the call for quota reasons.
	ErrQuotaExceeded = errors.New("generation quota exceeded")
	// ErrAnalysisFailed is the umbrella kind for analyses that produced no verdict.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrUnparsableResponse indicates the model output carried no usable verdict.
	ErrUnparsableResponse = errors.New("unparsable model response")
	// ErrUnauthenticated is returned when no owner identity accompanies a store call.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrQualificationNotFound hides both missing and foreign records.
	ErrQualificationNotFound = errors.New("qualification not found")
	// ErrProfileNotFound indicates the caller has not saved a business profile yet.
	ErrProfileNotFound = errors.New("business profile not found")
	// ErrEmptyInput is returned when a summary is requested for zero records.
	ErrEmptyInput = report.ErrEmptyInput
	// ErrInvalidInput flags request payloads missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageDisabled indicates report export was requested without object storage.
	ErrStorageDisabled = errors.New("report storage not configured")
	// ErrEmailAlreadyExists is returned when registering a taken email.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned on failed logins.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ServiceUnavailableError wraps the transport or provider failure of a generation call.
type ServiceUnavailableError struct {
	Err   error
	Quota bool
}

// Error implements the error interface.
func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("generation service unavailable: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// Is lets callers match on ErrServiceUnavailable and, for quota failures, ErrQuotaExceeded.
func (e *ServiceUnavailableError) Is(target error) bool {
	if target == ErrServiceUnavailable {
		return true
	}
	return e.Quota && target == ErrQuotaExceeded
}

// UnparsableResponseError keeps the raw model output for diagnostics.
type UnparsableResponseError struct {
	Raw string
	Err error
}

// Error implements the error interface without echoing Raw.
func (e *UnparsableResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparsable model response: %v", e.Err)
	}
	return "unparsable model response"
}

// Unwrap exposes the last parse error.
func (e *UnparsableResponseError) Unwrap() error { return e.Err }

// Is matches both ErrUnparsableResponse and ErrAnalysisFailed.
func (e *UnparsableResponseError) Is(target error) bool {
	return target == ErrUnparsableResponse || target == ErrAnalysisFailed
}

// WebsiteFetchError is the recoverable failure of a website excerpt fetch.
type WebsiteFetchError struct {
	URL    string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *WebsiteFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

// Unwrap exposes the underlying cause, if any.
func (e *WebsiteFetchError) Unwrap() error { return e.Err }
