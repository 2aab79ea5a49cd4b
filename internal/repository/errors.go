package repository

import "fmt"

// FetchError signals that the news page could not be retrieved
// (transport failure, timeout, or non-2xx status).
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError signals that the page loaded but the expected structural
// markers were not found. Distinct from FetchError so the caller can tell
// "site down" apart from "site redesigned".
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing news page: " + e.Reason
}

// PersistError signals that the seen record could not be written.
type PersistError struct {
	Target string
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting seen record to %s: %v", e.Target, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
