package storage

import (
	"os"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// FileStorage is a plain append-only file backend.
type FileStorage struct {
	file  *os.File
	path  string
	seqNo uint64

	sizeLimitInBytes int
}

var _ types.Storage = (*FileStorage)(nil)

// FileStorageOpt carries optional parameters for FileStorage.
type FileStorageOpt struct {
	// SizeFileInBytes caps the file size; 0 means unlimited.
	SizeFileInBytes int
}

func NewFileStorage(path string, seqNo uint64, opts ...FileStorageOpt) (*FileStorage, error) {
	sizeLimit := 0
	for _, o := range opts {
		if o.SizeFileInBytes > 0 {
			sizeLimit = o.SizeFileInBytes
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileStorage{
		file:             f,
		path:             path,
		seqNo:            seqNo,
		sizeLimitInBytes: sizeLimit,
	}, nil
}

func (s *FileStorage) Write(data []byte) error {
	_, err := s.file.Write(data)
	return err
}

func (s *FileStorage) CanWrite(size int) bool {
	if s.sizeLimitInBytes <= 0 {
		return true
	}
	current, err := s.Size()
	if err != nil {
		return false
	}
	return current+int64(size) <= int64(s.sizeLimitInBytes)
}

func (s *FileStorage) Size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *FileStorage) Flush() error {
	return s.file.Sync()
}

func (s *FileStorage) Close() error {
	return s.file.Close()
}

func (s *FileStorage) Rotate(newPath string) error {
	f, err := os.OpenFile(newPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	s.file.Close()
	s.file = f
	s.path = newPath
	s.seqNo++
	return nil
}
