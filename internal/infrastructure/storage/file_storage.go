// Package storage keeps generated report exports on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// LocalExportStorage implements port.ExportStorage in a single directory
type LocalExportStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalExportStorage creates a new LocalExportStorage
func NewLocalExportStorage(baseDir string, logger *zap.Logger) *LocalExportStorage {
	return &LocalExportStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes content under name and returns the full path
func (s *LocalExportStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		s.logger.Error("Failed to create export directory",
			zap.String("path", s.baseDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write export",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Debug("Export saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// Read returns the content of a stored export
func (s *LocalExportStorage) Read(ctx context.Context, name string) ([]byte, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("export %s: %w", name, port.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return content, nil
}

// List returns stored exports, newest first
func (s *LocalExportStorage) List(ctx context.Context) ([]port.ExportFile, error) {
	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return []port.ExportFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	files := make([]port.ExportFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, port.ExportFile{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ModTime.After(files[j].ModTime) })
	return files, nil
}

// Delete removes a stored export. Missing files are not an error.
func (s *LocalExportStorage) Delete(ctx context.Context, name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete export",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete export: %w", err)
	}
	return nil
}

// SanitizeName returns a filesystem-safe file name
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// resolve maps a name to a path inside baseDir
func (s *LocalExportStorage) resolve(name string) (string, error) {
	safeName := SanitizeName(name)
	if safeName == "" {
		return "", fmt.Errorf("invalid export name %q", name)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath := filepath.Join(absBase, safeName)
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes export directory: %s", name)
	}
	return absPath, nil
}

// Verify interface compliance
var _ port.ExportStorage = (*LocalExportStorage)(nil)
