package services

import (
	"context"
	"fmt"
	"log"
)

// FileUpload is one file received from the form.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FileResult reports the outcome of one file in a batch. Exactly one of
// Ref/Err is meaningful per file; one file's failure never rolls back its
// siblings.
type FileResult struct {
	Filename string       `json:"filename"`
	Ref      *DocumentRef `json:"document,omitempty"`
	Error    string       `json:"error,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`

	Err error `json:"-"`
}

// UploadService is the upload coordinator: it enforces the configured
// type/size constraints, dispatches accepted files to the remote document
// store, and falls back to the local store when the remote one fails.
type UploadService struct {
	Drafts *DraftService
	Remote DocumentStore // nil when no remote store is configured
	Local  DocumentStore

	AllowedTypes []string
	MaxBytes     int64
}

func NewUploadService(drafts *DraftService, remote, local DocumentStore, allowedTypes []string, maxBytes int64) *UploadService {
	return &UploadService{
		Drafts:       drafts,
		Remote:       remote,
		Local:        local,
		AllowedTypes: allowedTypes,
		MaxBytes:     maxBytes,
	}
}

// SubmitFiles processes a batch for one guest slot. Files are validated
// and dispatched independently; results come back in input order while
// accepted documents land in the guest's list in submission order.
func (s *UploadService) SubmitFiles(ctx context.Context, token string, slot int, files []FileUpload) ([]FileResult, error) {
	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.submitOne(ctx, token, slot, f))
	}
	return results, nil
}

func (s *UploadService) submitOne(ctx context.Context, token string, slot int, f FileUpload) FileResult {
	res := FileResult{Filename: f.Filename}

	// Constraint checks fail fast: nothing is dispatched and no guest's
	// document list changes.
	if err := s.validate(f); err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}

	gen, seq, err := s.Drafts.beginUpload(token, slot)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}

	ref, fallback, err := s.store(ctx, f)
	if err != nil {
		uploadErr := &UploadError{Filename: f.Filename, Err: err}
		res.Err = uploadErr
		res.Error = uploadErr.Error()
		return res
	}
	ref.Seq = seq

	if err := s.Drafts.appendDocument(token, slot, gen, ref); err != nil {
		// The form instance this upload belonged to no longer exists.
		// The result is safely discardable; a local file must not leak.
		if !ref.IsRemote {
			if relErr := s.Local.Release(ref); relErr != nil {
				log.Printf("warning: release of orphaned document %s failed: %v", ref.Name, relErr)
			}
		}
		res.Err = err
		res.Error = "registration session is no longer active"
		return res
	}

	res.Ref = &ref
	res.Fallback = fallback
	return res
}

// store tries the remote document store first and downgrades to the local
// fallback so a transient outage does not block the guest.
func (s *UploadService) store(ctx context.Context, f FileUpload) (DocumentRef, bool, error) {
	if s.Remote != nil {
		ref, err := s.Remote.Upload(ctx, f.Filename, f.ContentType, f.Data)
		if err == nil {
			return ref, false, nil
		}
		log.Printf("warning: remote document store failed for %q, using local fallback: %v", f.Filename, err)
	}

	ref, err := s.Local.Upload(ctx, f.Filename, f.ContentType, f.Data)
	if err != nil {
		return DocumentRef{}, false, err
	}
	return ref, true, nil
}

func (s *UploadService) validate(f FileUpload) error {
	allowed := false
	for _, t := range s.AllowedTypes {
		if t == f.ContentType {
			allowed = true
			break
		}
	}
	if !allowed {
		return newValidationError("document", fmt.Sprintf("file type %q is not allowed", f.ContentType))
	}
	if int64(len(f.Data)) > s.MaxBytes {
		return newValidationError("document", fmt.Sprintf("file exceeds the maximum size of %d bytes", s.MaxBytes))
	}
	return nil
}
