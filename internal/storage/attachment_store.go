package storage

import (
	"bufio"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// copyChunkSize keeps single reads bounded so large uploads stream in pieces.
const copyChunkSize = 1 << 20

// StagedFile describes one file written to disk during a batch, pending the
// database half of the resource. Path is kept so a failed batch can be
// compensated with deletes.
type StagedFile struct {
	Filename     string
	OriginalName string
	Extension    string
	Path         string
}

// Store persists ticket attachments on the local filesystem under
// dir/YYYY/MM/DD/<random name>. It is constructed from configuration rather
// than reading the environment, so tests can point it anywhere.
type Store struct {
	dir     string
	allowed map[string]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore builds a store from configuration.
func NewStore(cfg config.StorageConfig, logger *zap.Logger) (*Store, error) {
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("storage: upload directory not configured")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload directory: %w", err)
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Store{dir: cfg.UploadDir, allowed: allowed, logger: logger, now: time.Now}, nil
}

// AllowedExtensions returns the configured extension set, sorted for messages.
func (s *Store) AllowedExtensions() []string {
	out := make([]string, 0, len(s.allowed))
	for ext := range s.allowed {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Save validates and persists a batch of uploaded files. Empty handles are
// skipped; a single disallowed extension aborts the whole batch. On any
// failure every file already written during this call is deleted before the
// error propagates, so a failed batch leaves no orphans on disk.
func (s *Store) Save(files []*multipart.FileHeader) ([]StagedFile, error) {
	if len(files) == 0 {
		return nil, nil
	}

	staged := make([]StagedFile, 0, len(files))
	// UTC, matching the CreatedAt persisted on the row: both halves of the
	// resource must agree on the date directory regardless of process zone.
	dateDir := s.now().UTC().Format("2006/01/02")

	for _, header := range files {
		if header == nil || header.Filename == "" || header.Size == 0 {
			continue
		}
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if _, ok := s.allowed[ext]; !ok {
			s.Cleanup(staged)
			return nil, apperrors.NewValidationError(
				"file type not allowed",
				fmt.Sprintf("file %q rejected, allowed extensions: %s", header.Filename, strings.Join(s.AllowedExtensions(), ", ")),
			)
		}

		filename := uuid.NewString() + ext
		dir := filepath.Join(s.dir, dateDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.Cleanup(staged)
			return nil, apperrors.NewInternalError(fmt.Sprintf("error saving file %q", header.Filename), err)
		}
		path := filepath.Join(dir, filename)

		if err := s.writeFile(header, path); err != nil {
			s.Cleanup(staged)
			return nil, apperrors.NewInternalError(fmt.Sprintf("error saving file %q", header.Filename), err)
		}

		staged = append(staged, StagedFile{
			Filename:     filename,
			OriginalName: header.Filename,
			Extension:    ext,
			Path:         path,
		})
	}

	return staged, nil
}

func (s *Store) writeFile(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := bufio.NewWriterSize(dst, copyChunkSize)
	if _, err := io.CopyBuffer(writer, src, make([]byte, copyChunkSize)); err != nil {
		dst.Close()
		return err
	}
	if err := writer.Flush(); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Cleanup removes staged files from disk. Best effort: individual failures
// are logged and never reported, since cleanup runs on an error path that
// must surface the original failure.
func (s *Store) Cleanup(staged []StagedFile) {
	for _, file := range staged {
		if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to clean up staged attachment",
				zap.String("path", file.Path),
				zap.Error(err))
		}
	}
}

// Resolve reconstructs the on-disk path for an attachment from its creation
// date and stored filename, verifying the file still exists. A missing file
// despite a database record signals a corrupted store.
func (s *Store) Resolve(createdAt time.Time, filename string) (string, error) {
	// The stored filename is server-generated, but reject separators anyway
	// so a tampered database row cannot escape the upload directory.
	if strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return "", apperrors.NewNotFound("file not found", fmt.Sprintf("invalid attachment filename %q", filename))
	}
	path := filepath.Join(s.dir, createdAt.UTC().Format("2006/01/02"), filename)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NewStoreInconsistency(
				"attachment file missing from storage",
				fmt.Sprintf("file %q has a database record but is absent on disk", filename),
			)
		}
		return "", apperrors.NewInternalError("error accessing attachment file", err)
	}
	if info.IsDir() {
		return "", apperrors.NewStoreInconsistency(
			"attachment file missing from storage",
			fmt.Sprintf("path for %q is not a regular file", filename),
		)
	}
	return path, nil
}
