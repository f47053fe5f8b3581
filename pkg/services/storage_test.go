package services

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
)

func multipartHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	files := req.MultipartForm.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(files))
	}
	return files[0]
}

func testStorage(t *testing.T) *AttachmentStorage {
	t.Helper()
	return &AttachmentStorage{basePath: t.TempDir(), baseURL: "http://localhost:5000/uploads"}
}

func TestFileCategoryMapping(t *testing.T) {
	cases := map[string]string{
		"image/png":       "image",
		"image/jpeg":      "image",
		"IMAGE/JPEG":      "image",
		"application/pdf": "pdf",
		"application/pdf; charset=binary": "pdf",
		"application/msword":              "word",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": "powerpoint",
		"text/plain": "text",
		"":           "text",
	}
	for ct, want := range cases {
		if got := FileCategory(ct); got != want {
			t.Fatalf("FileCategory(%q) = %q, want %q", ct, got, want)
		}
	}
}

func TestSaveAttachmentRejectsDisallowedType(t *testing.T) {
	s := testStorage(t)
	fh := multipartHeader(t, "script.sh", "application/x-sh", []byte("echo hi"))

	if _, err := s.SaveAttachment(fh); !errors.Is(err, ErrAttachmentType) {
		t.Fatalf("expected ErrAttachmentType, got %v", err)
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("nothing should be written on rejection, found %d entries", len(entries))
	}
}

func TestSaveAttachmentRejectsOversize(t *testing.T) {
	s := testStorage(t)
	fh := multipartHeader(t, "big.pdf", "application/pdf", []byte("x"))
	fh.Size = MaxAttachmentSize + 1

	if _, err := s.SaveAttachment(fh); !errors.Is(err, ErrAttachmentTooLarge) {
		t.Fatalf("expected ErrAttachmentTooLarge, got %v", err)
	}
}

func TestSaveAttachmentStoresFile(t *testing.T) {
	s := testStorage(t)
	body := []byte("%PDF-1.4 fake")
	fh := multipartHeader(t, "notes.pdf", "application/pdf", body)

	saved, err := s.SaveAttachment(fh)
	if err != nil {
		t.Fatalf("SaveAttachment: %v", err)
	}
	if saved.OriginalName != "notes.pdf" {
		t.Fatalf("originalName = %q", saved.OriginalName)
	}
	if !strings.HasSuffix(saved.Filename, "-notes.pdf") {
		t.Fatalf("filename should carry a time prefix, got %q", saved.Filename)
	}
	if saved.Category != "pdf" {
		t.Fatalf("category = %q, want pdf", saved.Category)
	}
	if saved.Size != int64(len(body)) {
		t.Fatalf("size = %d, want %d", saved.Size, len(body))
	}
	if saved.URL != "http://localhost:5000/uploads/"+saved.Filename {
		t.Fatalf("url = %q", saved.URL)
	}

	data, err := os.ReadFile(s.basePath + "/" + saved.Filename)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Fatalf("stored bytes differ from upload")
	}

	if err := s.DeleteAttachment(saved.Filename); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}
	if _, err := os.Stat(s.basePath + "/" + saved.Filename); !os.IsNotExist(err) {
		t.Fatalf("file should be gone after delete")
	}
}
