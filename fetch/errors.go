package fetch

import (
	"errors"
	"fmt"
)

var ErrHTTPStatus = errors.New("http error")

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %s for url: %s", ErrHTTPStatus, e.Status, e.URL)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTPStatus
}
