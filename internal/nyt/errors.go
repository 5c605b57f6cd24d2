package nyt

import "fmt"

// UpstreamError reports a failure talking to the NYT API or decoding a
// response as a whole. Individual malformed top stories are not UpstreamErrors.
type UpstreamError struct {
	Op         string // "top stories" or "article search"
	Section    string // empty for article search
	StatusCode int    // zero when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("%s for section %q: %v", e.Op, e.Section, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
