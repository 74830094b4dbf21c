package service

import (
	"context"
	"io"
)

// Uploader stores profile media and returns a public URL for it.
// publicID is stable per slot (e.g. "photo"), so re-uploads overwrite
// instead of accumulating.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
