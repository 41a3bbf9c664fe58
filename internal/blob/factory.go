package blob

import (
	"context"
	"fmt"

	"github.com/lotforge/lotledger/pkg/types"
)

// Open builds a Store from blob configuration. An empty driver selects
// the filesystem store.
func Open(ctx context.Context, cfg types.BlobConfig) (Store, error) {
	switch cfg.Driver {
	case "", types.BlobDriverFS:
		return NewFilesystem(cfg.FSRoot)
	case types.BlobDriverS3:
		return NewS3(ctx, cfg.S3)
	case types.BlobDriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrBlobDriverUnknown, cfg.Driver)
	}
}
