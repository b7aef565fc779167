package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// "host:port" form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrUnsupportedScheme is returned for URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsServiceUnavailable reports whether err is a 503 StatusError.
func IsServiceUnavailable(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusServiceUnavailable
}
