package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDraftNotFound = errors.New("registration draft not found")
	ErrDraftExpired  = errors.New("registration draft expired")

	// errStaleDraft marks an upload completion that refers to a draft
	// generation that no longer exists; the result is discarded.
	errStaleDraft = errors.New("draft generation changed")
)

// ValidationError carries every failing field at once so the form can show
// all problems in a single round-trip. It never reaches the network layer
// of any collaborator.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// UploadError is a per-file failure: the document store rejected the file
// and no local fallback could be materialized either. It never aborts the
// rest of a batch.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q failed: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// StoreError is a record-store failure during submission. Client state is
// preserved by the caller so the user can retry without re-uploading.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
