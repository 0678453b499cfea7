package acquisition

import (
	"bytes"
	"context"
	"sync"

	"bmidash/domain/core"
	"bmidash/domain/dataset"
	"bmidash/internal"
	apperrors "bmidash/internal/errors"
	"bmidash/ports"

	"golang.org/x/sync/singleflight"
)

// Acquirer fetches the dataset and writes it to a fixed local path.
// The first success is remembered for the life of the process; failures are not.
type Acquirer struct {
	fetcher ports.DatasetFetcher
	storage ports.FileStorage
	path    string
	logger  *internal.Logger

	group    singleflight.Group
	mu       sync.Mutex
	snapshot *dataset.Snapshot
}

// NewAcquirer creates an acquirer that persists to path
func NewAcquirer(fetcher ports.DatasetFetcher, storage ports.FileStorage, path string, logger *internal.Logger) *Acquirer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Acquirer{
		fetcher: fetcher,
		storage: storage,
		path:    path,
		logger:  logger.With("Acquirer"),
	}
}

// Acquire downloads and persists the dataset unless an earlier call already succeeded.
// Concurrent callers share one in-flight download. The shared download is not cancelled
// with the request that started it; it stays bounded by the fetcher's timeout.
func (a *Acquirer) Acquire(ctx context.Context) error {
	if a.Acquired() {
		a.logger.Debug("dataset already acquired, skipping download")
		return nil
	}

	// other sessions may be waiting on this download
	shareCtx := context.WithoutCancel(ctx)

	_, err, shared := a.group.Do("dataset", func() (interface{}, error) {
		if a.Acquired() {
			return nil, nil
		}

		body, err := a.fetcher.Fetch(shareCtx)
		if err != nil {
			return nil, err
		}

		n, err := a.storage.Write(shareCtx, a.path, bytes.NewReader(body))
		if err != nil {
			return nil, apperrors.AcquisitionFailed(err)
		}

		snapshot := &dataset.Snapshot{
			Path:        a.path,
			Bytes:       n,
			Fingerprint: core.NewHash(body),
			AcquiredAt:  core.Now(),
		}

		a.mu.Lock()
		a.snapshot = snapshot
		a.mu.Unlock()

		a.logger.Info("dataset saved to %s (%d bytes, sha256 %s)", a.path, n, snapshot.Fingerprint.Short())
		return nil, nil
	})
	if err != nil {
		a.logger.Error("download failed (shared=%v): %v", shared, err)
		return err
	}
	return nil
}

// Acquired reports whether a download has succeeded in this process
func (a *Acquirer) Acquired() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot != nil
}

// Snapshot returns what the successful download wrote, if there was one
func (a *Acquirer) Snapshot() (dataset.Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.snapshot == nil {
		return dataset.Snapshot{}, false
	}
	return *a.snapshot, true
}
