package model

import "fmt"

// ValidationError reports a missing or malformed request field. Maps to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field %s", e.Field)
}

// NotFoundError means the portal returned results but no row matched the
// requested course/category, or the provider reported a missing model.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return e.What + " not found" }

// TimeoutError means the portal or the model provider did not respond within
// the stage's deadline. The request may succeed if retried later.
type TimeoutError struct {
	Stage string
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Stage, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// QuotaExceededError means the model provider is throttling us.
type QuotaExceededError struct {
	Provider string
}

func (e *QuotaExceededError) Error() string {
	return e.Provider + " quota exceeded, try again later"
}

// MalformedOutputError carries the raw model response that failed to parse
// as JSON, for diagnostics. No partial result is ever salvaged from it.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model returned unparsable output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// InsufficientTextError means extraction yielded too little content to
// analyze, which usually signals an upstream scrape problem.
type InsufficientTextError struct {
	Got int
	Min int
}

func (e *InsufficientTextError) Error() string {
	return fmt.Sprintf("insufficient text extracted: %d chars (minimum %d)", e.Got, e.Min)
}

// EmptyResultError means download links were found but every download
// failed, so the batch produced zero documents.
type EmptyResultError struct {
	Links int
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("all %d downloads failed; the portal may be blocking automated requests", e.Links)
}
