package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/triplog/server/internal/models"
)

// StorageService manages the on-disk layout of uploaded photos. Each upload
// session lives under {stepId}/{uuid}/ relative to the base path, with the
// finished photo, its thumbnail and a transient chunk subdirectory inside.
type StorageService struct {
	basePath     string
	chunkDirName string
}

// NewStorageService creates a new StorageService rooted at basePath
func NewStorageService(basePath, chunkDirName string) (*StorageService, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}

	if chunkDirName == "" {
		chunkDirName = "chunks"
	}

	return &StorageService{
		basePath:     absPath,
		chunkDirName: chunkDirName,
	}, nil
}

// BasePath returns the absolute storage root
func (s *StorageService) BasePath() string {
	return s.basePath
}

// SessionDir returns the absolute directory for one upload session
func (s *StorageService) SessionDir(stepID, uuid string) (string, error) {
	return s.join(stepID, uuid)
}

// PhotoPath returns the final destination of a photo and of its thumbnail,
// named {name}-min{ext} next to the original
func (s *StorageService) PhotoPath(stepID, uuid, filename string) (string, string, error) {
	dir, err := s.join(stepID, uuid)
	if err != nil {
		return "", "", err
	}

	name := sanitizeFilename(filename)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	photoPath := filepath.Join(dir, name)
	thumbPath := filepath.Join(dir, base+"-min"+ext)
	return photoPath, thumbPath, nil
}

// ChunkDir returns the absolute chunk staging directory for a session
func (s *StorageService) ChunkDir(stepID, uuid string) (string, error) {
	return s.join(stepID, uuid, s.chunkDirName)
}

// MoveFile ensures destinationDir exists and streams sourcePath into
// destinationPath. Either exactly one new file appears at destinationPath or
// none: on a copy failure the partial destination is removed.
func (s *StorageService) MoveFile(destinationDir, sourcePath, destinationPath string) error {
	if err := os.MkdirAll(destinationDir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %v", models.ErrStorage, destinationDir, err)
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	defer src.Close()

	dest, err := os.Create(destinationPath)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destinationPath)
		return fmt.Errorf("%w: copying file: %v", models.ErrStorage, err)
	}

	if err := dest.Close(); err != nil {
		os.Remove(destinationPath)
		return fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	return nil
}

// DeleteSession removes the whole {stepId}/{uuid} subtree
func (s *StorageService) DeleteSession(stepID, uuid string) error {
	dir, err := s.join(stepID, uuid)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// DeleteStep removes the whole {stepId} subtree with every session under it
func (s *StorageService) DeleteStep(stepID string) error {
	dir, err := s.join(stepID)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// Open opens a stored photo for serving. The caller owns the returned file.
// A single open attempt is made; a missing file surfaces as the open error.
func (s *StorageService) Open(stepID, uuid, name string) (*os.File, error) {
	path, err := s.join(stepID, uuid, sanitizeFilename(name))
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// join builds an absolute path under the base path, rejecting components
// that would escape it
func (s *StorageService) join(components ...string) (string, error) {
	parts := make([]string, 0, len(components)+1)
	parts = append(parts, s.basePath)
	for _, c := range components {
		if strings.TrimSpace(c) == "" {
			return "", fmt.Errorf("path component cannot be empty")
		}
		parts = append(parts, c)
	}

	full := filepath.Join(parts...)

	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if absPath != s.basePath && !strings.HasPrefix(absPath, s.basePath+string(os.PathSeparator)) {
		return "", models.ErrPathTraversal
	}

	return absPath, nil
}

// sanitizeFilename removes path components and invalid characters
func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)

	replacer := strings.NewReplacer(
		"..", "",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)

	return replacer.Replace(name)
}
