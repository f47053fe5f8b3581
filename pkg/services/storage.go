package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campuslearn/pkg/config"
)

// MaxAttachmentSize is the upload ceiling enforced before anything is written.
const MaxAttachmentSize = 10 << 20 // 10 MiB

var (
	ErrAttachmentTooLarge = errors.New("file too large. Maximum size is 10MB")
	ErrAttachmentType     = errors.New("invalid file type")
)

// attachmentCategories is the single classification table. Both the REST send
// path and the live channel classify through it, so a content type can never
// map to different categories depending on entry path.
var attachmentCategories = map[string]string{
	"image/jpeg":      "image",
	"image/png":       "image",
	"image/jpg":       "image",
	"application/pdf": "pdf",
	"application/msword": "word",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "word",
	"application/vnd.ms-powerpoint":                                             "powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "powerpoint",
}

// FileCategory maps a declared content type to its coarse category
// (image, pdf, word, powerpoint). Unknown types fall back to "text".
func FileCategory(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if cat, ok := attachmentCategories[ct]; ok {
		return cat
	}
	return "text"
}

// IsAllowedAttachmentType reports whether the declared content type is on the
// upload allow-list.
func IsAllowedAttachmentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	_, ok := attachmentCategories[ct]
	return ok
}

// SavedAttachment is the stable reference the messaging layer consumes.
type SavedAttachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	ContentType  string `json:"mimetype"`
	Category     string `json:"category"`
}

type AttachmentStorage struct {
	basePath string
	baseURL  string
}

func NewAttachmentStorage() *AttachmentStorage {
	basePath := config.UploadDir
	baseURL := config.BaseURL + "/uploads"

	os.MkdirAll(basePath, 0755)

	return &AttachmentStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}
}

// SaveAttachment validates the declared type and size, writes the binary under
// a collision-resistant name, and returns the stored reference. Nothing is
// written when validation fails.
func (s *AttachmentStorage) SaveAttachment(header *multipart.FileHeader) (*SavedAttachment, error) {
	contentType := header.Header.Get("Content-Type")
	if !IsAllowedAttachmentType(contentType) {
		return nil, ErrAttachmentType
	}
	if header.Size > MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	// time-based prefix keeps same-named uploads from colliding
	original := filepath.Base(header.Filename)
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), original)
	fullPath := filepath.Join(s.basePath, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, MaxAttachmentSize+1))
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if written > MaxAttachmentSize {
		// declared size lied; drop the partial write
		os.Remove(fullPath)
		return nil, ErrAttachmentTooLarge
	}

	return &SavedAttachment{
		Filename:     filename,
		OriginalName: original,
		URL:          fmt.Sprintf("%s/%s", s.baseURL, filename),
		Size:         written,
		ContentType:  contentType,
		Category:     FileCategory(contentType),
	}, nil
}

// DeleteAttachment removes a stored file; missing files are not an error.
func (s *AttachmentStorage) DeleteAttachment(filename string) error {
	if filename == "" {
		return nil
	}
	fullPath := filepath.Join(s.basePath, filepath.Base(filename))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}
