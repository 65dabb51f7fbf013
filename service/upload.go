package service

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxDocumentSize is the largest accepted document, in bytes
const MaxDocumentSize = 10 * 1024 * 1024

// AllowedDocumentTypes lists the accepted document content types
var AllowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

const sniffLen = 3072

// Upload is a document as received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type preparedUpload struct {
	filename    string
	contentType string
	size        int64
	body        io.Reader
}

// prepareUpload checks name, declared type, size and the sniffed type of the
// first bytes. field names the input in validation errors.
func prepareUpload(field string, u Upload) (*preparedUpload, error) {
	name := strings.TrimSpace(u.Filename)
	if name == "" {
		return nil, invalid(field, "file name is required")
	}
	if u.Content == nil || u.Size <= 0 {
		return nil, invalid(field, "file is empty")
	}
	if u.Size > MaxDocumentSize {
		return nil, invalid(field, "file exceeds the 10 MB limit")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(u.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, invalid(field, "file could not be read")
	}
	head = head[:n]
	if n == 0 {
		return nil, invalid(field, "file is empty")
	}

	detected := mimetype.Detect(head)

	declared := normalizeMediaType(u.ContentType)
	if declared == "" || declared == "application/octet-stream" {
		declared = normalizeMediaType(detected.String())
	}
	if !AllowedDocumentTypes[declared] {
		return nil, invalid(field, "unsupported file type "+declared+" (allowed: JPEG, PNG, PDF)")
	}
	if !detected.Is(declared) {
		return nil, invalid(field, "file content does not match its declared type "+declared)
	}

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(u.Content, MaxDocumentSize-int64(n)))
	return &preparedUpload{
		filename:    name,
		contentType: declared,
		size:        u.Size,
		body:        body,
	}, nil
}

func normalizeMediaType(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(ct)
	}
	if mt == "image/jpg" || mt == "image/pjpeg" {
		return "image/jpeg"
	}
	return mt
}
