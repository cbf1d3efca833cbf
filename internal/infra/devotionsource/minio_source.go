package devotionsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mannadev/scriptura/internal/domain/devotion"
)

// MinioSource fetches the devotional page dump from an S3-compatible bucket.
type MinioSource struct {
	client *minio.Client
	bucket string
	path   string
	logger *slog.Logger
}

// NewMinioSource constructs the source adapter.
func NewMinioSource(endpoint, accessKey, secretKey, bucket, path, region string, logger *slog.Logger) (*MinioSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	return &MinioSource{
		client: client,
		bucket: bucket,
		path:   path,
		logger: logger.With("component", "devotionsource.minio"),
	}, nil
}

// FetchPages downloads and decodes the page collection.
func (s *MinioSource) FetchPages(ctx context.Context) ([]devotion.RawPage, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", s.bucket, s.path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", s.bucket, s.path, err)
	}

	var doc devotion.PageDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode page document: %w", err)
	}
	s.logger.Debug("page document fetched", "bucket", s.bucket, "path", s.path, "pages", len(doc.Pages))
	return doc.Pages, nil
}

var _ devotion.PageSource = (*MinioSource)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.IndexByte(raw, '/'); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
