package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures of the business and image operations.
type Kind string

const (
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInvalidFileType    Kind = "INVALID_FILE_TYPE"
	KindFileTooLarge       Kind = "FILE_TOO_LARGE"
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindStorageWriteFailed Kind = "STORAGE_WRITE_FAILED"
	KindRecordUpdateFailed Kind = "RECORD_UPDATE_FAILED"
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrInvalidFileType    = &Error{Kind: KindInvalidFileType}
	ErrFileTooLarge       = &Error{Kind: KindFileTooLarge}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrStorageWriteFailed = &Error{Kind: KindStorageWriteFailed}
	ErrRecordUpdateFailed = &Error{Kind: KindRecordUpdateFailed}
)

// Error is a classified domain error.
//
// Message is safe to show to clients. Err is the underlying cause and is
// only ever logged. CleanupSucceeded is meaningful for
// KindRecordUpdateFailed only: it reports whether the blob written before
// the failed record update was removed again.
type Error struct {
	Kind             Kind
	Message          string
	CleanupSucceeded bool
	Err              error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// HTTP converts the error into the response body sent to clients.
func (e *Error) HTTP() *HTTPError {
	code := string(e.Kind)

	switch e.Kind {
	case KindInvalidInput, KindInvalidFileType:
		return NewBadRequestError(e.Message, true, &code, nil, nil)
	case KindFileTooLarge:
		return NewPayloadTooLargeError(e.Message, true, &code)
	case KindNotFound:
		return NewNotFoundError(e.Message, true, &code)
	case KindForbidden:
		return &HTTPError{Code: code, Message: e.Message, Status: http.StatusForbidden, Override: true}
	case KindStorageWriteFailed, KindRecordUpdateFailed:
		return &HTTPError{Code: code, Message: e.Message, Status: http.StatusInternalServerError}
	default:
		return NewInternalServerError()
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func InvalidFileType(mimeType string) *Error {
	return &Error{
		Kind:    KindInvalidFileType,
		Message: fmt.Sprintf("Unsupported image type %q, allowed types are JPEG, PNG, GIF and WebP", mimeType),
	}
}

func FileTooLarge(limit int64) *Error {
	return &Error{
		Kind:    KindFileTooLarge,
		Message: "Image exceeds the maximum size of " + humanBytes(limit),
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func StorageWriteFailed(cause error) *Error {
	return &Error{
		Kind:    KindStorageWriteFailed,
		Message: "Image could not be stored",
		Err:     cause,
	}
}

func RecordUpdateFailed(cause error, cleanupSucceeded bool) *Error {
	return &Error{
		Kind:             KindRecordUpdateFailed,
		Message:          "Image could not be attached to the business",
		CleanupSucceeded: cleanupSucceeded,
		Err:              cause,
	}
}

func humanBytes(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%d MiB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
