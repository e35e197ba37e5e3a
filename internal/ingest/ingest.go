// Package ingest discovers the documents of a corpus on the local
// filesystem and fingerprints their content for cache keying.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/arielw/tablemend/constants"
)

// Document is one discovered input file.
type Document struct {
	ID        uuid.UUID
	Path      string
	Ext       string // lowercased, no dot
	SizeBytes int64
	HashHex   string // sha256 of content
}

// DirStats summarizes one directory scan.
type DirStats struct {
	Scanned  uint32
	Matched  uint32
	Skipped  uint32
	Failed   uint32
	TooLarge uint32
}

// Scanner walks directories for supported documents.
type Scanner struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	MaxFileSize int64               // bytes; <=0 -> constants.MaxFileSizeMB
	SkipHidden  bool
	logger      *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{SkipHidden: true, logger: logger}
}

// ScanDirectory walks root and returns every supported document with its
// content hash. Unreadable files are logged and counted, never fatal; the
// scan covers as much of the corpus as it can reach.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]Document, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	maxSize := s.MaxFileSize
	if maxSize <= 0 {
		maxSize = int64(constants.MaxFileSizeMB) << 20
	}

	var docs []Document
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			s.logger.Warn("walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if s.SkipHidden && isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := constants.NormalizeExt(filepath.Ext(path))
		if !s.allowed(ext) {
			return nil
		}
		if hasSkipToken(path) {
			stats.Skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Warn("stat failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		if info.Size() > maxSize {
			s.logger.Warn("file exceeds size limit", "path", path, "size", info.Size())
			stats.TooLarge++
			return nil
		}

		hashHex, err := HashFile(path)
		if err != nil {
			s.logger.Warn("hash failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}

		stats.Matched++
		docs = append(docs, Document{
			ID:        uuid.New(),
			Path:      path,
			Ext:       ext,
			SizeBytes: info.Size(),
			HashHex:   hashHex,
		})
		return nil
	})
	if err != nil {
		return docs, stats, fmt.Errorf("walk: %w", err)
	}
	return docs, stats, nil
}

// HashFile returns the hex sha256 of the file content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Scanner) allowed(ext string) bool {
	if ext == "" {
		return false
	}
	if s.AllowedExts != nil {
		_, ok := s.AllowedExts[ext]
		return ok
	}
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// hasSkipToken filters out artifacts of earlier runs, backups and scratch
// copies by filename.
func hasSkipToken(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, token := range constants.SkipNameTokens {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
