package errors

import "fmt"

// Unreachable means the transport failed on every attempt; the remote never
// produced a response. Distinct from RemoteRefusal, where the remote answered
// but with a failing status.
type Unreachable struct {
	Attempts int
	Cause    error
}

func (e *Unreachable) Error() string {
	return fmt.Sprintf("target unreachable after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *Unreachable) Unwrap() error {
	return e.Cause
}

// RemoteRefusal means the remote answered with a non-2xx status. Built by
// callers from a returned response, never raised by the fetch layer itself.
type RemoteRefusal struct {
	Status int
	URL    string
}

func (e *RemoteRefusal) Error() string {
	return fmt.Sprintf("remote refused with status %d: %s", e.Status, e.URL)
}

// LayoutError means a structural assumption about the source sheet was
// violated and the data is unusable.
type LayoutError struct {
	Detail string
	Err    error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout error in %s: %v", e.Detail, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrNoDayColumns     = fmt.Errorf("no day columns found in header row")
	ErrNoScheduleSheet  = fmt.Errorf("no sheet title matches the schedule prefix")
	ErrMissingSheetName = fmt.Errorf("sheet name is required")
	ErrEmptyGrid        = fmt.Errorf("grid contains no rows")
)
