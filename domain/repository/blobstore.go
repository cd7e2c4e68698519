package repository

import (
	"context"
	"io"
	"time"
)

// IBlobStore stages creator media on a publicly fetchable URL so the remote
// platform can pull it from a verified domain.
type IBlobStore interface {
	// Put stores the content under a randomized name and returns its public URL.
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	// Delete removes staged blobs. Best effort.
	Delete(urls []string) error
	// ScheduleDelete removes staged blobs after delay, off the request path.
	// Fire-and-forget: there is no result channel.
	ScheduleDelete(urls []string, delay time.Duration)
}
