package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Backblaze/blazer/b2"
	"github.com/SayaAndy/vault-gallery/config"
)

// B2Storage keeps the vault in a Backblaze B2 bucket under a prefix.
type B2Storage struct {
	prefix string
	bucket *b2.Bucket
	b2cl   *b2.Client
}

func NewB2Storage(ctx context.Context, cfg *config.B2Config) (*B2Storage, error) {
	b2cl, err := b2.NewClient(ctx, cfg.KeyID, cfg.ApplicationKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}

	bucket, err := b2cl.Bucket(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("open b2 bucket: %w", err)
	}

	return &B2Storage{b2cl: b2cl, bucket: bucket, prefix: cfg.Prefix}, nil
}

func (s *B2Storage) List(ctx context.Context) ([]Resource, error) {
	resources := make([]Resource, 0)

	iter := s.bucket.List(ctx, b2.ListPrefix(s.prefix))
	for iter.Next() {
		obj := iter.Object()
		if obj == nil {
			return nil, fmt.Errorf("failed to reference object in B2 bucket")
		}

		attrs, err := obj.Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("get attributes for object: %w", err)
		}
		if attrs.Status != b2.Uploaded {
			continue
		}

		rel := strings.TrimPrefix(obj.Name(), s.prefix)
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		resources = append(resources, NewResource(rel, attrs.Size, attrs.UploadTimestamp))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("iterate over B2 objects: %w", err)
	}

	return resources, nil
}

func (s *B2Storage) Read(ctx context.Context, p string) ([]byte, error) {
	obj := s.bucket.Object(s.prefix + p)
	if obj == nil {
		return nil, fmt.Errorf("failed to reference object in B2 bucket")
	}

	reader := obj.NewReader(ctx)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, p)
		}
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return content, nil
}

func (s *B2Storage) Write(ctx context.Context, p string, data []byte) error {
	writer := s.bucket.Object(s.prefix + p).NewWriter(ctx)
	if _, err := writer.Write(data); err != nil {
		return errors.Join(fmt.Errorf("failed to write file content: %w", err), writer.Close())
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish upload: %w", err)
	}
	return nil
}

func (s *B2Storage) Capabilities() Capabilities {
	return Capabilities{Write: true}
}
