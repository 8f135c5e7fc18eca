package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// Service stores leave attachments and hands back opaque storage paths.
type Service struct {
	storage storage.FileStorage
}

func NewService(storage storage.FileStorage) *Service {
	return &Service{storage: storage}
}

// StoreAttachment uploads an attachment under
// {employee_code}/{YYYYMMDD}_{random}.{ext} so concurrent uploads for the
// same employee and date can never collide.
func (s *Service) StoreAttachment(ctx context.Context, file io.Reader, filename, employeeCode string, startDate time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	randomSuffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	newFilename := fmt.Sprintf("%s_%s%s", startDate.Format("20060102"), randomSuffix, ext)
	path := filepath.Join(employeeCode, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, "application/octet-stream")
	if err != nil {
		return "", fmt.Errorf("failed to upload leave attachment: %w", err)
	}

	return uploadedPath, nil
}

// OpenAttachment retrieves stored attachment bytes.
func (s *Service) OpenAttachment(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, path)
}

// AttachmentURL returns the public URL for a stored attachment.
func (s *Service) AttachmentURL(path string) string {
	return s.storage.URL(path)
}
