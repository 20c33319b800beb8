package feed

import (
	"errors"
	"fmt"
)

var (
	ErrTransport         = errors.New("feed transport failed")
	ErrUnsupportedFormat = errors.New("unsupported feed format")
	ErrMalformedFeed     = errors.New("malformed feed")
	ErrEncoding          = errors.New("feed body cannot be decoded")
)

// HTTPError is returned for responses with a status of 400 or above.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("feed responded with status %d", e.StatusCode)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrTransport
}
