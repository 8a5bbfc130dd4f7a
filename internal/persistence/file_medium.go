package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"personad/internal/persistence/interfaces"
	"regexp"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileMedium keeps every key in its own file under dir. Writes go to a
// temporary file that is synced and renamed over the old one.
type FileMedium struct {
	dir        string
	ext        string
	compressor interfaces.CompressorInterface
}

func NewFileMedium(dir string, compressor interfaces.CompressorInterface) (*FileMedium, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	ext := ".json"
	if _, plain := compressor.(plainCompression); !plain {
		ext = ".json.zst"
	}
	return &FileMedium{dir: dir, ext: ext, compressor: compressor}, nil
}

func (f *FileMedium) Available() bool { return true }

func (f *FileMedium) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.dir, key+f.ext), nil
}

func (f *FileMedium) GetItem(key string) ([]byte, bool, error) {
	fileName, err := f.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	value, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, true, fmt.Errorf("decompress %s: %w", key, err)
	}
	return value, true, nil
}

func (f *FileMedium) SetItem(key string, value []byte) error {
	fileName, err := f.path(key)
	if err != nil {
		return err
	}

	data, err := f.compressor.Compress(value)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileMedium) Close() error {
	f.compressor.Close()
	return nil
}
