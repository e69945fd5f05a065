package uploader

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFileType = errors.New("Please upload a valid video file")
	ErrFileTooLarge    = errors.New("File size must be less than 100 MB")
	ErrAuthRequest     = errors.New("Failed to get authentication parameters")
	ErrInvalidAuth     = errors.New("Invalid authentication parameters")
	ErrIncompleteForm  = errors.New("Please fill all required fields and upload both video and thumbnail")
	ErrBusy            = errors.New("an upload is already in progress")
)

type TransferKind int

const (
	TransferAborted TransferKind = iota + 1
	TransferInvalidRequest
	TransferServer
	TransferNetwork
)

func (k TransferKind) String() string {
	switch k {
	case TransferAborted:
		return "Upload aborted"
	case TransferInvalidRequest:
		return "Invalid request"
	case TransferServer:
		return "Server error"
	case TransferNetwork:
		return "Network error"
	default:
		return "Upload failed"
	}
}

// TransferError is a failed CDN upload. Uploads are never retried automatically.
type TransferError struct {
	Kind       TransferKind
	StatusCode int
	Message    string
	Err        error
}

func (e *TransferError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer from the video service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}
