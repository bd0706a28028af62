// Package storage keeps uploaded report files on local disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"healthwallet/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned by Open when no file exists for the key.
var ErrObjectNotFound = errors.New("storage: object not found")

// FileStore defines the operations the services need from file storage.
type FileStore interface {
	// Save stores r under key.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open streams the file stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the file stored under key. Deleting a missing file is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the FileStore selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (FileStore, error) {
	switch cfg.StorageDriver {
	case "local":
		log.Info("using local file storage", zap.String("dir", cfg.UploadDir))
		return NewLocalStore(cfg.UploadDir)
	case "s3":
		log.Info("using S3 file storage",
			zap.String("bucket", cfg.S3Bucket),
			zap.String("region", cfg.S3Region),
			zap.String("endpoint", cfg.S3Endpoint),
		)
		return NewS3Store(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// ReportKey returns a fresh storage key for a report file uploaded by owner.
// The upload's extension is kept, lower-cased.
func ReportKey(ownerID uint, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, `\`, "/")))
	return fmt.Sprintf("reports/%d/%s%s", ownerID, uuid.NewString(), ext)
}
