package vault

import (
	"context"
	"fmt"

	"github.com/SayaAndy/vault-gallery/config"
)

// OpenStorage constructs the backend named by the configuration.
func OpenStorage(ctx context.Context, cfg *config.VaultConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg.Local.Root, cfg.Local.Watch)
	case "b2":
		return NewB2Storage(ctx, &cfg.B2)
	case "s3":
		return NewS3Storage(ctx, &cfg.S3)
	}
	return nil, fmt.Errorf("unknown vault type '%s'", cfg.Type)
}
