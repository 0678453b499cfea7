package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// StorageConfig holds configuration for file storage
type StorageConfig struct {
	ChunkSize int         // Copy buffer size (default 1MB)
	FileMode  os.FileMode // Mode of written files
}

// DefaultStorageConfig returns sensible defaults
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		ChunkSize: 1024 * 1024,
		FileMode:  0o644,
	}
}

// LocalFileStorage implements ports.FileStorage on the local filesystem.
// Each path has its own RWMutex: writes hold it exclusively, open readers share it.
type LocalFileStorage struct {
	config *StorageConfig

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	return &LocalFileStorage{
		config: config,
		locks:  make(map[string]*sync.RWMutex),
	}
}

func (s *LocalFileStorage) lockFor(path string) *sync.RWMutex {
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[key] = l
	}
	return l
}

// Write copies r into path, replacing any previous content.
// Data goes to a sibling temp file first and is renamed into place on success.
func (s *LocalFileStorage) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()[:8]))
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, s.config.FileMode)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	buf := make([]byte, s.config.ChunkSize)
	n, err := io.CopyBuffer(tmp, r, buf)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write file contents: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}

	return n, nil
}

// Open returns a reader for path. The path's read lock is held until Close.
func (s *LocalFileStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.lockFor(path)
	lock.RLock()

	file, err := os.Open(path)
	if err != nil {
		lock.RUnlock()
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &lockedFile{File: file, unlock: lock.RUnlock}, nil
}

type lockedFile struct {
	*os.File
	once   sync.Once
	unlock func()
}

func (f *lockedFile) Close() error {
	err := f.File.Close()
	f.once.Do(f.unlock)
	return err
}
