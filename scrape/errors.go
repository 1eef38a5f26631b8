package scrape

import "fmt"

// UnknownStructureError reports that no template's header selector
// matched a fetched document: the page uses a layout the configuration
// doesn't know about.
type UnknownStructureError struct {
	URL string
}

func (e *UnknownStructureError) Error() string {
	return fmt.Sprintf("no template matches the structure of %s", e.URL)
}

// MissingFieldError reports that a required field descriptor matched
// nothing in the document.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q is missing when scraping %s", e.Field, e.Entity)
}

// FetchError reports a failed page fetch. Status is zero when the
// request never produced a response.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
