package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/fileshare-api/internal/application/policy"
	"github.com/fileshare-api/internal/domain"
	"github.com/fileshare-api/internal/pkg/id"
	pkgtoken "github.com/fileshare-api/internal/pkg/token"
	"github.com/google/uuid"
)

// RegisterInput carries the metadata for a freshly stored artifact. The
// StorageName must come from NewStorageName so it is never user-derived.
type RegisterInput struct {
	OwnerID      string
	OwnerEmail   string
	OriginalName string
	FileType     string
	StorageName  string
}

type Service interface {
	// RegisterUpload mints the file id and download token and commits the
	// metadata record. The caller must have already persisted the bytes
	// under in.StorageName.
	RegisterUpload(ctx context.Context, in RegisterInput) (*domain.File, error)
	// List returns the derived summary view of every registered file.
	List(ctx context.Context, role domain.Role) ([]domain.FileSummary, error)
	// ResolveDownloadToken maps a download token back to its file record.
	ResolveDownloadToken(ctx context.Context, token string) (*domain.File, error)
	// IssueDownloadLink returns the file's download token. Tokens are minted
	// once at upload and reused for every link request; they are not rotated.
	IssueDownloadLink(ctx context.Context, role domain.Role, fileID string) (string, error)
}

type fileStore interface {
	Create(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, fileID string) (*domain.File, error)
	GetByDownloadToken(ctx context.Context, token string) (*domain.File, error)
	Scan(ctx context.Context) ([]domain.File, error)
}

type service struct {
	files fileStore
}

func NewService(files fileStore) Service {
	return &service{files: files}
}

// NewStorageName generates an opaque, collision-resistant storage name for a
// file of the given type. Callers generate the name, persist bytes under it,
// then register metadata, so bytes are durable before the record exists.
func NewStorageName(fileType string) string {
	return uuid.NewString() + "." + fileType
}

func (s *service) RegisterUpload(ctx context.Context, in RegisterInput) (*domain.File, error) {
	downloadToken, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	f := &domain.File{
		FileID:        id.New(),
		StorageName:   in.StorageName,
		OriginalName:  in.OriginalName,
		FileType:      in.FileType,
		OwnerID:       in.OwnerID,
		OwnerEmail:    in.OwnerEmail,
		DownloadToken: downloadToken,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.files.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) List(ctx context.Context, role domain.Role) ([]domain.FileSummary, error) {
	if err := policy.Authorize(role, policy.ActionListFiles); err != nil {
		return nil, err
	}
	files, err := s.files.Scan(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.FileSummary, 0, len(files))
	for i := range files {
		summaries = append(summaries, files[i].Summary())
	}
	return summaries, nil
}

func (s *service) ResolveDownloadToken(ctx context.Context, token string) (*domain.File, error) {
	f, err := s.files.GetByDownloadToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invalid download link: %w", domain.ErrNotFound)
	}
	return f, nil
}

func (s *service) IssueDownloadLink(ctx context.Context, role domain.Role, fileID string) (string, error) {
	if err := policy.Authorize(role, policy.ActionRequestDownloadLink); err != nil {
		return "", err
	}
	f, err := s.files.Get(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	return f.DownloadToken, nil
}
