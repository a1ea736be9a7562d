package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

const defaultMmapFileSize int64 = 1024 * 1024 * 10 // 10 MB

// FileMMapStorage appends through a memory-mapped file. The file starts
// with a binary header carrying the sequence number and, once closed, the
// exact data length; the rest is zero padding until written.
type FileMMapStorage struct {
	file   *os.File
	mmap   mmap.MMap
	path   string
	offset int64

	sizeMapInBytes int64
}

var _ types.Storage = (*FileMMapStorage)(nil)

// FileMMapStorageOps carries optional parameters for FileMMapStorage.
type FileMMapStorageOps struct {
	MMapFileSizeInBytes int64
}

func NewFileMMapStorage(path string, seqNo uint64, opts ...FileMMapStorageOps) (*FileMMapStorage, error) {
	sizeMapInBytes := defaultMmapFileSize
	for _, o := range opts {
		if o.MMapFileSizeInBytes > 0 {
			sizeMapInBytes = o.MMapFileSizeInBytes
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	currentSize := info.Size()
	isNewFile := currentSize == 0

	if isNewFile {
		if err := f.Truncate(sizeMapInBytes); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to truncate file: %w", err)
		}
	} else {
		// Existing file, map it at its current size.
		sizeMapInBytes = currentSize
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	s := &FileMMapStorage{
		file:           f,
		mmap:           m,
		path:           path,
		sizeMapInBytes: sizeMapInBytes,
	}

	if isNewFile {
		hdr := types.JournalHeader{
			Magic:   types.JournalMagic,
			Version: types.JournalVersion1,
			Status:  types.JournalStatusOpen,
			SeqNo:   seqNo,
		}
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
			s.Close()
			return nil, err
		}
		copy(s.mmap, buf.Bytes())
		s.offset = int64(types.JournalHeaderSize)
	} else {
		var hdr types.JournalHeader
		if err := binary.Read(bytes.NewReader(m[:types.JournalHeaderSize]), binary.LittleEndian, &hdr); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to read journal header from existing file: %w", err)
		}
		s.offset = int64(types.JournalHeaderSize) + int64(hdr.DataLength)
	}

	return s, nil
}

func (s *FileMMapStorage) Write(data []byte) error {
	copy(s.mmap[s.offset:], data)
	s.offset += int64(len(data))
	return nil
}

func (s *FileMMapStorage) CanWrite(size int) bool {
	return s.offset+int64(size) <= int64(len(s.mmap))
}

func (s *FileMMapStorage) Size() (int64, error) {
	return s.offset, nil
}

func (s *FileMMapStorage) Flush() error {
	return s.mmap.Flush()
}

func (s *FileMMapStorage) Rotate(newPath string) error {
	var seqNo uint64
	var hdr types.JournalHeader
	if err := binary.Read(bytes.NewReader(s.mmap[:types.JournalHeaderSize]), binary.LittleEndian, &hdr); err == nil {
		seqNo = hdr.SeqNo
	}

	if err := s.finalizeAndClose(); err != nil {
		return err
	}

	next, err := NewFileMMapStorage(newPath, seqNo+1, FileMMapStorageOps{MMapFileSizeInBytes: s.sizeMapInBytes})
	if err != nil {
		return err
	}
	*s = *next
	return nil
}

// finalizeAndClose rewrites the header with the closed status and the
// exact data length, then unmaps and closes the file.
func (s *FileMMapStorage) finalizeAndClose() error {
	if s.mmap == nil {
		return nil
	}

	if err := s.mmap.Flush(); err != nil {
		return err
	}

	hdr := types.JournalHeader{
		Magic:      types.JournalMagic,
		Version:    types.JournalVersion1,
		Status:     types.JournalStatusClosed,
		DataLength: uint64(s.offset - int64(types.JournalHeaderSize)),
	}

	// Keep the original sequence number.
	var originalHdr types.JournalHeader
	if err := binary.Read(bytes.NewReader(s.mmap[:types.JournalHeaderSize]), binary.LittleEndian, &originalHdr); err == nil {
		hdr.SeqNo = originalHdr.SeqNo
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	copy(s.mmap, buf.Bytes())

	if err := s.mmap.Flush(); err != nil {
		return err
	}

	if err := s.mmap.Unmap(); err != nil {
		s.file.Close()
		return err
	}
	s.mmap = nil

	return s.file.Close()
}

func (s *FileMMapStorage) Close() error {
	return s.finalizeAndClose()
}
