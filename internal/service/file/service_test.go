package file

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStorage struct {
	paths []string
}

func (s *recordingStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	s.paths = append(s.paths, path)
	return path, nil
}

func (s *recordingStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (s *recordingStorage) Delete(ctx context.Context, path string) error { return nil }

func (s *recordingStorage) Exists(ctx context.Context, path string) (bool, error) {
	return false, nil
}

func (s *recordingStorage) URL(path string) string { return "/uploads/" + path }

func TestStoreAttachmentPathFormat(t *testing.T) {
	storage := &recordingStorage{}
	svc := NewService(storage)

	startDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	path, err := svc.StoreAttachment(context.Background(), strings.NewReader("certificate"), "Medical Certificate.PDF", "EMP-0001", startDate)
	require.NoError(t, err)

	// {employee_code}/{YYYYMMDD}_{12 hex}{lowercased ext}
	assert.Regexp(t, regexp.MustCompile(`^EMP-0001/20260309_[0-9a-f]{12}\.pdf$`), path)
	require.Len(t, storage.paths, 1)
	assert.Equal(t, path, storage.paths[0])
}

func TestStoreAttachmentUniqueNames(t *testing.T) {
	storage := &recordingStorage{}
	svc := NewService(storage)

	startDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	first, err := svc.StoreAttachment(context.Background(), strings.NewReader("a"), "doc.pdf", "EMP-0001", startDate)
	require.NoError(t, err)
	second, err := svc.StoreAttachment(context.Background(), strings.NewReader("b"), "doc.pdf", "EMP-0001", startDate)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStoreAttachmentKeepsExtensionless(t *testing.T) {
	storage := &recordingStorage{}
	svc := NewService(storage)

	startDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	path, err := svc.StoreAttachment(context.Background(), strings.NewReader("x"), "README", "EMP-0001", startDate)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^EMP-0001/20260309_[0-9a-f]{12}$`), path)
}

func TestAttachmentURL(t *testing.T) {
	svc := NewService(&recordingStorage{})
	assert.Equal(t, "/uploads/EMP-0001/x.pdf", svc.AttachmentURL("EMP-0001/x.pdf"))
}
