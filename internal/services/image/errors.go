package image

import "errors"

var (
	ErrUnauthenticated = errors.New("you must be signed in")
	ErrNotFound        = errors.New("image not found")
	ErrUnsupportedType = errors.New("the uploaded file type is not supported")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrEmptyFrame      = errors.New("no frame was captured")
	ErrFrameTooLarge   = errors.New("frame dimensions exceed the maximum allowed")
	ErrNoFiles         = errors.New("no files provided")
	ErrTooManyFiles    = errors.New("too many files in one request")
	ErrBatchTooLarge   = errors.New("total upload size exceeds the limit")
	ErrInvalidFilter   = errors.New("invalid upload type filter")
)
