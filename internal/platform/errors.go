package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyURLs is returned when a batch contains more URLs than the configured limit.
	ErrTooManyURLs = errors.New("too many urls in one batch")
	// ErrEmptyBatch is returned when a batch contains no non-blank URLs.
	ErrEmptyBatch = errors.New("batch contains no urls")
	// ErrInvalidURL is returned for URLs which are malformed or use an unsupported scheme.
	// Such URLs never reach the network.
	ErrInvalidURL = errors.New("invalid url")
	// ErrUnreachable is returned when a host can't be reached after retrying.
	ErrUnreachable = errors.New("host unreachable")
	// ErrNotFound is returned when a product is not in the catalog.
	ErrNotFound = errors.New("product not found")
)

// StatusError is returned when a page responds with a non-2xx status.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response status %d", e.Status)
}

// MissingFieldError is returned when extraction can't resolve a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("can't extract required field %q", e.Field)
}

// Error kinds exposed on the wire for per-URL failures.
const (
	KindInvalidURL  = "invalid_url"
	KindUnreachable = "unreachable"
	KindHTTPError   = "http_error"
	KindParseError  = "parse_error"
	KindInternal    = "internal"
)

// ErrorKind maps an ingestion error to its wire kind.
func ErrorKind(err error) string {
	var (
		statusErr  *StatusError
		missingErr *MissingFieldError
	)

	switch {
	case errors.Is(err, ErrInvalidURL):
		return KindInvalidURL
	case errors.Is(err, ErrUnreachable):
		return KindUnreachable
	case errors.As(err, &statusErr):
		return KindHTTPError
	case errors.As(err, &missingErr):
		return KindParseError
	default:
		return KindInternal
	}
}
