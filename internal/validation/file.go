package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"healthwallet/internal/errs"
)

// fileKind describes one accepted upload extension: the MIME type stored for
// it and the content types http.DetectContentType may report for its bytes.
type fileKind struct {
	mimeType string
	sniffed  []string
}

// Word documents carry no signature DetectContentType knows: legacy .doc is an
// OLE container (octet-stream) and .docx is a zip archive.
var reportKinds = map[string]fileKind{
	".pdf":  {mimeType: "application/pdf", sniffed: []string{"application/pdf"}},
	".jpg":  {mimeType: "image/jpeg", sniffed: []string{"image/jpeg"}},
	".jpeg": {mimeType: "image/jpeg", sniffed: []string{"image/jpeg"}},
	".png":  {mimeType: "image/png", sniffed: []string{"image/png"}},
	".gif":  {mimeType: "image/gif", sniffed: []string{"image/gif"}},
	".doc":  {mimeType: "application/msword", sniffed: []string{"application/octet-stream", "application/msword"}},
	".docx": {
		mimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		sniffed:  []string{"application/zip", "application/octet-stream"},
	},
}

// FileConstraints limits what a report upload may contain.
type FileConstraints struct {
	MaxSize int64
}

// ReportFileConstraints accepts PDF, JPG/JPEG, PNG, GIF, DOC and DOCX files up to maxSize bytes.
func ReportFileConstraints(maxSize int64) FileConstraints {
	return FileConstraints{MaxSize: maxSize}
}

// ValidateFile checks size, extension and magic bytes of an uploaded file and
// returns the MIME type to store for it.
func (fc FileConstraints) ValidateFile(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", errs.Validation("File is required")
	}
	if header.Size > fc.MaxSize {
		return "", errs.Validation(fmt.Sprintf("File too large: maximum size is %s", humanSize(fc.MaxSize)))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	kind, ok := reportKinds[ext]
	if !ok {
		return "", errs.Validation("Invalid file type. Only PDF, images, and documents are allowed.")
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return "", errs.Validation("File is empty")
	}

	detected := http.DetectContentType(buf[:n])
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	for _, allowed := range kind.sniffed {
		if detected == allowed {
			return kind.mimeType, nil
		}
	}
	return "", errs.Validation(fmt.Sprintf("Invalid file type: content does not match %s (detected %s)", ext, detected))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
