package runner

import "fmt"

// DirectoryError means the account list could not be fetched. The run cannot continue.
type DirectoryError struct {
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("list accounts: %v", e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }
