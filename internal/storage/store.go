// Package storage implements the local audio file store.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

var fileNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// SanitizeFileName strips any directory component and rejects names with
// characters outside [A-Za-z0-9._-]. The returned name is always safe to
// join under the upload directory.
func SanitizeFileName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == ".." || !fileNamePattern.MatchString(base) {
		return "", domain.NewValidationError("fileName", "invalid file name")
	}
	return base, nil
}

// Store keeps uploaded audio files under a single directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: abs}, nil
}

// Save writes audio bytes under a unique name derived from the sanitized
// original and returns the relative path stored on the recording.
func (s *Store) Save(fileName string, data []byte) (string, error) {
	safe, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}

	// prefix with a uuid so repeated uploads of the same name never collide
	stored := uuid.NewString() + "_" + safe
	full, err := s.resolve(stored)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return stored, nil
}

// Read returns the bytes of a previously saved file.
func (s *Store) Read(storedName string) ([]byte, error) {
	full, err := s.resolve(storedName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file %s: %w", storedName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	return data, nil
}

// resolve joins storedName under the upload dir and verifies the result did
// not escape it.
func (s *Store) resolve(storedName string) (string, error) {
	full := filepath.Join(s.dir, storedName)
	if !strings.HasPrefix(full, s.dir+string(filepath.Separator)) {
		return "", domain.NewValidationError("fileName", "invalid storage path")
	}
	return full, nil
}
