package docs

import "fmt"

// FetchError reports a page that could not be retrieved. StatusCode is zero
// when the request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFoundError reports a type that no all-items layout could match.
type NotFoundError struct {
	Crate   string
	Name    string
	Version string
	Kind    Kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s %s in crate %s (version: %s)", e.Kind, e.Name, e.Crate, e.Version)
}
