package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fileshare-api/internal/application/registry"
	"github.com/fileshare-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// memBlobStore is an in-memory BlobStore for byte-roundtrip assertions.
type memBlobStore struct {
	blobs map[string][]byte
	fail  bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, name string, r io.Reader, _ string) error {
	if m.fail {
		return errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.blobs[name] = data
	return nil
}

func (m *memBlobStore) Get(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m.blobs[name]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) RegisterUpload(ctx context.Context, in registry.RegisterInput) (*domain.File, error) {
	args := m.Called(ctx, in)
	if f, _ := args.Get(0).(*domain.File); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRegistry) ResolveDownloadToken(ctx context.Context, token string) (*domain.File, error) {
	args := m.Called(ctx, token)
	if f, _ := args.Get(0).(*domain.File); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

var allowed = []string{"pptx", "docx", "xlsx"}

func uploadInput(filename, content string) UploadInput {
	return UploadInput{
		OwnerID:    "u1",
		OwnerEmail: "ops@example.com",
		Role:       domain.RoleOperations,
		Filename:   filename,
		Size:       int64(len(content)),
		Reader:     strings.NewReader(content),
	}
}

// --- Upload tests ---

func TestUpload_ClientRoleForbidden(t *testing.T) {
	svc := NewService(newMemBlobStore(), &mockRegistry{}, allowed)

	in := uploadInput("report.docx", "content")
	in.Role = domain.RoleClient
	_, err := svc.Upload(context.Background(), in)

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpload_EmptyFilename(t *testing.T) {
	svc := NewService(newMemBlobStore(), &mockRegistry{}, allowed)

	_, err := svc.Upload(context.Background(), uploadInput("", "content"))
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpload_EmptyContent(t *testing.T) {
	svc := NewService(newMemBlobStore(), &mockRegistry{}, allowed)

	_, err := svc.Upload(context.Background(), uploadInput("report.docx", ""))
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpload_DisallowedExtension(t *testing.T) {
	svc := NewService(newMemBlobStore(), &mockRegistry{}, allowed)

	for _, name := range []string{"malware.exe", "noextension", "archive.tar.gz", "trailingdot."} {
		_, err := svc.Upload(context.Background(), uploadInput(name, "content"))
		assert.True(t, errors.Is(err, domain.ErrBadRequest), "filename %q", name)
	}
}

func TestUpload_ExtensionCaseInsensitive(t *testing.T) {
	blobs := newMemBlobStore()
	reg := &mockRegistry{}
	reg.On("RegisterUpload", mock.Anything, mock.MatchedBy(func(in registry.RegisterInput) bool {
		return in.FileType == "pptx" && in.OriginalName == "Deck.PPTX"
	})).Return(&domain.File{FileID: "f1"}, nil)

	svc := NewService(blobs, reg, allowed)
	_, err := svc.Upload(context.Background(), uploadInput("Deck.PPTX", "content"))

	require.NoError(t, err)
	reg.AssertExpectations(t)
}

func TestUpload_BytesBeforeMetadata(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.fail = true
	reg := &mockRegistry{}

	svc := NewService(blobs, reg, allowed)
	_, err := svc.Upload(context.Background(), uploadInput("report.docx", "content"))

	require.Error(t, err)
	// When byte storage fails no metadata record may be committed.
	reg.AssertNotCalled(t, "RegisterUpload", mock.Anything, mock.Anything)
}

func TestUpload_StorageNameOpaque(t *testing.T) {
	blobs := newMemBlobStore()
	reg := &mockRegistry{}
	var gotStorageName string
	reg.On("RegisterUpload", mock.Anything, mock.MatchedBy(func(in registry.RegisterInput) bool {
		gotStorageName = in.StorageName
		return true
	})).Return(&domain.File{FileID: "f1"}, nil)

	svc := NewService(blobs, reg, allowed)
	_, err := svc.Upload(context.Background(), uploadInput("../../etc/passwd.docx", "content"))

	require.NoError(t, err)
	assert.NotContains(t, gotStorageName, "passwd")
	assert.NotContains(t, gotStorageName, "/")
	assert.True(t, strings.HasSuffix(gotStorageName, ".docx"))
	// Bytes landed under the generated name.
	_, ok := blobs.blobs[gotStorageName]
	assert.True(t, ok)
}

// --- Download tests ---

func TestDownload_OperationsRoleForbidden(t *testing.T) {
	svc := NewService(newMemBlobStore(), &mockRegistry{}, allowed)

	_, _, err := svc.Download(context.Background(), domain.RoleOperations, "tok")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDownload_UnknownToken(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("ResolveDownloadToken", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	svc := NewService(newMemBlobStore(), reg, allowed)
	_, _, err := svc.Download(context.Background(), domain.RoleClient, "nope")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUploadDownload_ByteIdentical(t *testing.T) {
	blobs := newMemBlobStore()
	reg := &mockRegistry{}
	content := "the quick brown xlsx"
	var registered *domain.File
	reg.On("RegisterUpload", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(registry.RegisterInput)
			registered = &domain.File{
				FileID:        "f1",
				StorageName:   in.StorageName,
				OriginalName:  in.OriginalName,
				FileType:      in.FileType,
				DownloadToken: "tok-1",
			}
		}).
		Return(&domain.File{FileID: "f1"}, nil)

	svc := NewService(blobs, reg, allowed)
	_, err := svc.Upload(context.Background(), uploadInput("numbers.xlsx", content))
	require.NoError(t, err)

	reg.On("ResolveDownloadToken", mock.Anything, "tok-1").Return(registered, nil)

	rc, f, err := svc.Download(context.Background(), domain.RoleClient, "tok-1")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
	assert.Equal(t, "numbers.xlsx", f.OriginalName)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ContentTypeFor("docx"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("bin"))
}
