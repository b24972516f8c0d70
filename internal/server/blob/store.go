// Package blob defines the blob store boundary: raw bytes go in, a durable
// retrieval URL comes out. The upload pipeline depends only on the Store
// interface; the S3 implementation lives alongside it.
package blob

import (
	"context"
	"errors"
)

// Folder names used by the upload pipeline.
const (
	VideosFolder     = "videos"
	ThumbnailsFolder = "thumbnails"
)

// ErrEmptyPayload is returned when an upload is attempted with no bytes.
var ErrEmptyPayload = errors.New("empty payload")

// Store accepts raw bytes plus a target folder and returns a durable URL.
//
// A call is atomic from the caller's perspective: it either returns a usable
// URL or an error, never a URL for data the backend did not accept. Repeated
// calls store distinct objects (a fresh object key is generated every time),
// so retries are safe but never idempotent.
type Store interface {
	Upload(ctx context.Context, data []byte, fileName string, folder string) (string, error)
}
