package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentRef is one stored identity document. Remote refs point at the
// hosted object store and need no cleanup; local refs point at a file under
// the upload directory and must be released when discarded.
type DocumentRef struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	PublicID  string `json:"publicId,omitempty"`
	IsRemote  bool   `json:"isRemote"`
	LocalPath string `json:"-"`
	Seq       int    `json:"seq"`
}

// DocumentStore uploads identity documents and releases the ones it is
// responsible for cleaning up.
type DocumentStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (DocumentRef, error)
	Release(ref DocumentRef) error
}

// --- Cloudinary (remote) ---

// CloudinaryStore uploads via Cloudinary's unsigned upload endpoint. The
// preset is configured server-side on Cloudinary; deletion needs an API
// secret this service does not hold, so Release is a no-op.
type CloudinaryStore struct {
	CloudName    string
	UploadPreset string
	Folder       string
	BaseURL      string // override for tests; empty means the real API
	Client       *http.Client
}

func NewCloudinaryStore(cloudName, uploadPreset, folder string) *CloudinaryStore {
	return &CloudinaryStore{
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		Folder:       folder,
		Client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Bytes     int64  `json:"bytes"`
	Format    string `json:"format"`
}

func (s *CloudinaryStore) endpoint() string {
	base := s.BaseURL
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	return fmt.Sprintf("%s/v1_1/%s/auto/upload", base, s.CloudName)
}

func (s *CloudinaryStore) Upload(ctx context.Context, filename, contentType string, data []byte) (DocumentRef, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return DocumentRef{}, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return DocumentRef{}, fmt.Errorf("write multipart: %w", err)
	}
	_ = w.WriteField("upload_preset", s.UploadPreset)
	if s.Folder != "" {
		_ = w.WriteField("folder", s.Folder)
	}
	if err := w.Close(); err != nil {
		return DocumentRef{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), &body)
	if err != nil {
		return DocumentRef{}, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return DocumentRef{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DocumentRef{}, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var cr cloudinaryResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return DocumentRef{}, fmt.Errorf("JSON parse error: %w", err)
	}
	if cr.SecureURL == "" {
		return DocumentRef{}, fmt.Errorf("no url returned from upload: %s", string(bodyBytes))
	}

	return DocumentRef{
		URL:       cr.SecureURL,
		Name:      filename,
		SizeBytes: cr.Bytes,
		PublicID:  cr.PublicID,
		IsRemote:  true,
	}, nil
}

func (s *CloudinaryStore) Release(DocumentRef) error { return nil }

// --- Local fallback ---

// LocalDocumentStore writes files under <dir>/documents and returns URLs
// under /uploads, which the router serves statically. Releasing a ref
// deletes its file.
type LocalDocumentStore struct {
	Dir string
}

func NewLocalDocumentStore(dir string) *LocalDocumentStore {
	return &LocalDocumentStore{Dir: dir}
}

func (s *LocalDocumentStore) Upload(_ context.Context, filename, _ string, data []byte) (DocumentRef, error) {
	dir := filepath.Join(s.Dir, "documents")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return DocumentRef{}, fmt.Errorf("mkdir uploads dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	stored := uuid.NewString() + ext
	fullpath := filepath.Join(dir, stored)

	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return DocumentRef{}, fmt.Errorf("write file: %w", err)
	}

	return DocumentRef{
		URL:       "/uploads/documents/" + stored,
		Name:      filename,
		SizeBytes: int64(len(data)),
		IsRemote:  false,
		LocalPath: fullpath,
	}, nil
}

func (s *LocalDocumentStore) Release(ref DocumentRef) error {
	if ref.IsRemote || ref.LocalPath == "" {
		return nil
	}
	if err := os.Remove(ref.LocalPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
