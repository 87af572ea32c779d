package example

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileCache keeps generated examples on disk, one JSON file per cache key.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

// Keys carry free-form context text, so file names are derived from a hash.
func (cache *FileCache) filePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(cache.rootDir, hex.EncodeToString(sum[:])+".json")
}

// Load returns the cached examples of key. A missing file is not an error.
func (cache *FileCache) Load(key string) ([]string, bool, error) {
	file, err := os.Open(cache.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, false, fmt.Errorf("io.ReadAll > %w", err)
	}
	var examples []string
	if err := json.Unmarshal(contents, &examples); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return examples, true, nil
}

func (cache *FileCache) Store(key string, examples []string) error {
	contents, err := json.Marshal(examples)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := os.MkdirAll(cache.rootDir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}

	file, err := os.Create(cache.filePath(key))
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}
