package priority

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Blob is a persistent byte blob. There is no partial-key access: the whole
// mapping is loaded and saved at once.
type Blob interface {
	// Load returns the stored bytes, or nil if nothing was ever saved.
	Load() ([]byte, error)

	// Save replaces the stored bytes.
	Save(data []byte) error
}

// FileBlob stores the blob in a single file.
type FileBlob struct {
	Path string
}

// NewFileBlob returns a FileBlob at path.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{Path: path}
}

// Load implements Blob. A missing file is an empty blob.
func (b *FileBlob) Load() ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save implements Blob. The file is replaced atomically via rename.
func (b *FileBlob) Save(data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.Path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// MemoryBlob keeps the blob in memory. LoadErr and SaveErr inject failures.
type MemoryBlob struct {
	mu   sync.Mutex
	data []byte

	LoadErr error
	SaveErr error
}

// NewMemoryBlob returns a MemoryBlob holding data.
func NewMemoryBlob(data []byte) *MemoryBlob {
	return &MemoryBlob{data: data}
}

// Load implements Blob.
func (b *MemoryBlob) Load() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.LoadErr != nil {
		return nil, b.LoadErr
	}
	return append([]byte(nil), b.data...), nil
}

// Save implements Blob.
func (b *MemoryBlob) Save(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SaveErr != nil {
		return b.SaveErr
	}
	b.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns a copy of the stored bytes.
func (b *MemoryBlob) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}
