package model

import "fmt"

// RepositoryError wraps any failure from the document store. Callers surface
// the message once and do not retry.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// UploadError wraps a blob write or URL resolution failure.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// AuthError wraps an identity-provider failure, carrying the provider's
// message for display.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message returns the user-visible text for the failure.
func (e *AuthError) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "authentication failed"
}
