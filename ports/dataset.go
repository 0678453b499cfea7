package ports

import (
	"context"
	"io"

	"bmidash/domain/dataset"
)

// DatasetFetcher retrieves the raw dataset payload from its remote source
type DatasetFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileStorage persists and reads back local files.
// Write replaces the file atomically; readers never observe a partial write.
type FileStorage interface {
	Write(ctx context.Context, path string, r io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// DatasetAcquirer downloads the dataset once and persists it locally.
// Snapshot describes the persisted copy once a download has succeeded.
type DatasetAcquirer interface {
	Acquire(ctx context.Context) error
	Snapshot() (dataset.Snapshot, bool)
}

// DatasetLoader parses the persisted dataset into a table
type DatasetLoader interface {
	Load(ctx context.Context) (*dataset.Table, error)
}
