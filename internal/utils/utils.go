package utils

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// DefaultUtils provides the default implementation of types.Utils.
// It owns the logger and generates paths for journal and snapshot files.
type DefaultUtils struct {
	logger      *slog.Logger
	journalDir  string
	snapshotDir string
}

var _ types.Utils = (*DefaultUtils)(nil)

// NewDefaultUtils creates a DefaultUtils. journalDir and snapshotDir may
// be empty to disable file generation; a nil writer defaults to stdout.
func NewDefaultUtils(journalDir, snapshotDir string, logLevel slog.Level, writer io.Writer) *DefaultUtils {
	if writer == nil {
		writer = os.Stdout
	}
	return &DefaultUtils{
		logger:      slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})),
		journalDir:  journalDir,
		snapshotDir: snapshotDir,
	}
}

// GetLogger returns the logger instance.
func (u *DefaultUtils) GetLogger() *slog.Logger {
	return u.logger
}

// GenSnapshotPath returns the fixed snapshot path, or nil when
// snapshotting is disabled.
func (u *DefaultUtils) GenSnapshotPath() *string {
	if u.snapshotDir == "" {
		return nil
	}
	path := filepath.Join(u.snapshotDir, "snapshot.json")
	return &path
}

// GetJournalFiles scans the journal directory and returns all journal
// segment paths sorted by sequence number.
func (u *DefaultUtils) GetJournalFiles() ([]string, error) {
	if u.journalDir == "" {
		return []string{}, nil
	}

	files, err := os.ReadDir(u.journalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var journalFiles []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if strings.HasPrefix(file.Name(), types.JournalBaseName+".") {
			journalFiles = append(journalFiles, file.Name())
		}
	}

	sort.Slice(journalFiles, func(i, j int) bool {
		extI := strings.TrimPrefix(filepath.Ext(journalFiles[i]), ".")
		extJ := strings.TrimPrefix(filepath.Ext(journalFiles[j]), ".")
		numI, _ := strconv.Atoi(extI)
		numJ, _ := strconv.Atoi(extJ)
		return numI < numJ
	})

	for i, file := range journalFiles {
		journalFiles[i] = filepath.Join(u.journalDir, file)
	}

	return journalFiles, nil
}

// GenNextJournalPath determines the next free journal sequence number and
// returns the corresponding path.
func (u *DefaultUtils) GenNextJournalPath() (string, uint64, error) {
	journalFiles, err := u.GetJournalFiles()
	if err != nil {
		return "", 0, err
	}

	if len(journalFiles) == 0 {
		path := filepath.Join(u.journalDir, fmt.Sprintf("%s.%03d", types.JournalBaseName, 0))
		return path, 0, nil
	}

	lastFile := journalFiles[len(journalFiles)-1]
	ext := strings.TrimPrefix(filepath.Ext(lastFile), ".")
	lastSeq, err := strconv.ParseUint(ext, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid journal file name format: %s", lastFile)
	}

	nextSeq := lastSeq + 1
	path := filepath.Join(u.journalDir, fmt.Sprintf("%s.%03d", types.JournalBaseName, nextSeq))
	return path, nextSeq, nil
}

// GenRotatedJournalPath returns the path the journal should rotate into,
// or nil when rotation is disabled.
func (u *DefaultUtils) GenRotatedJournalPath() *string {
	if u.journalDir == "" {
		return nil
	}
	path, _, err := u.GenNextJournalPath()
	if err != nil {
		return nil
	}
	return &path
}

// ReadFileContent reads a whole file and strips trailing zero padding
// left by the mmap storage backend.
func ReadFileContent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(data, "\x00"), nil
}
