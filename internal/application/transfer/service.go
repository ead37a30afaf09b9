package transfer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fileshare-api/internal/application/policy"
	"github.com/fileshare-api/internal/application/registry"
	"github.com/fileshare-api/internal/domain"
)

// BlobStore is the byte-storage collaborator. S3 and local disk both
// implement it; the gateway never cares which.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, contentType string) error
	Get(ctx context.Context, name string) (io.ReadCloser, error)
}

// UploadInput describes an incoming upload. Size comes from the multipart
// header; Reader streams the part body.
type UploadInput struct {
	OwnerID    string
	OwnerEmail string
	Role       domain.Role
	Filename   string
	Size       int64
	Reader     io.Reader
}

type Service interface {
	// Upload validates, persists bytes, then registers metadata, in that
	// order, so a registry entry never references a missing blob.
	Upload(ctx context.Context, in UploadInput) (*domain.File, error)
	// Download resolves a token and streams the stored bytes.
	Download(ctx context.Context, role domain.Role, token string) (io.ReadCloser, *domain.File, error)
}

type registryService interface {
	RegisterUpload(ctx context.Context, in registry.RegisterInput) (*domain.File, error)
	ResolveDownloadToken(ctx context.Context, token string) (*domain.File, error)
}

type service struct {
	blobs    BlobStore
	registry registryService
	allowed  map[string]bool
}

func NewService(blobs BlobStore, reg registryService, allowedExtensions []string) Service {
	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimSpace(ext))] = true
	}
	return &service{blobs: blobs, registry: reg, allowed: allowed}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*domain.File, error) {
	if err := policy.Authorize(in.Role, policy.ActionUploadFile); err != nil {
		return nil, err
	}
	if in.Filename == "" || in.Size == 0 || in.Reader == nil {
		return nil, fmt.Errorf("no file selected: %w", domain.ErrBadRequest)
	}
	ext, ok := s.extension(in.Filename)
	if !ok {
		return nil, fmt.Errorf("file type not allowed, supported types: %s: %w",
			strings.Join(s.allowedList(), ", "), domain.ErrBadRequest)
	}

	// Bytes first, metadata second. The storage name is generated, never
	// derived from the client-supplied filename.
	storageName := registry.NewStorageName(ext)
	if err := s.blobs.Put(ctx, storageName, in.Reader, ContentTypeFor(ext)); err != nil {
		return nil, fmt.Errorf("store file bytes: %w", err)
	}
	return s.registry.RegisterUpload(ctx, registry.RegisterInput{
		OwnerID:      in.OwnerID,
		OwnerEmail:   in.OwnerEmail,
		OriginalName: in.Filename,
		FileType:     ext,
		StorageName:  storageName,
	})
}

func (s *service) Download(ctx context.Context, role domain.Role, token string) (io.ReadCloser, *domain.File, error) {
	if err := policy.Authorize(role, policy.ActionFetchFileBytes); err != nil {
		return nil, nil, err
	}
	f, err := s.registry.ResolveDownloadToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, f.StorageName)
	if err != nil {
		return nil, nil, fmt.Errorf("read file bytes: %w", err)
	}
	return rc, f, nil
}

// extension returns the lower-cased substring after the final '.' when it is
// in the allow-list. A name without a '.' is itself an unsupported type.
func (s *service) extension(filename string) (string, bool) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	return ext, s.allowed[ext]
}

func (s *service) allowedList() []string {
	exts := make([]string, 0, len(s.allowed))
	for ext := range s.allowed {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ContentTypeFor maps an allow-listed extension to its MIME type.
func ContentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	default:
		return "application/octet-stream"
	}
}
