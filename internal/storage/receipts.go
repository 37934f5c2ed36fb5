// Package storage keeps uploaded receipt files and generated CSV
// exports on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds the upload size limit")
	ErrBadFileType    = errors.New("invalid file type. Only PNG, JPG, JPEG, and PDF are allowed")
	ErrFileNotFound   = errors.New("receipt file not found")
	ErrUnsafeFilename = errors.New("unsafe filename")
)

// allowedExtensions for receipt uploads.
var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".pdf": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Store writes and serves receipt files under a single directory.
type Store struct {
	dir     string
	maxSize int64
}

func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// SaveReceipt stores an uploaded receipt under a name prefixed with the
// matric number and a timestamp so concurrent uploads never collide.
// It returns the generated filename.
func (s *Store) SaveReceipt(matric string, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", ErrBadFileType
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	name := secureFilename(fmt.Sprintf("%s_%s_%s",
		matric, time.Now().Format("20060102_150405"), header.Filename))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Open returns the stored receipt for streaming back to a client.
func (s *Store) Open(filename string) (*os.File, error) {
	path, err := s.safePath(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored receipt. A missing file is a no-op, not an
// error: the row may outlive its file.
func (s *Store) Remove(filename string) error {
	if filename == "" {
		return nil
	}
	path, err := s.safePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportDir returns the directory CSV exports are written to (the
// parent of the receipt dir, matching the legacy layout).
func (s *Store) ExportDir() (string, error) {
	dir := filepath.Dir(s.dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Store) safePath(filename string) (string, error) {
	clean := filepath.Base(filename)
	if clean != filename || clean == "." || clean == ".." {
		return "", ErrUnsafeFilename
	}
	return filepath.Join(s.dir, clean), nil
}

// secureFilename strips anything that could escape the upload dir or
// confuse a filesystem.
func secureFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeChars.ReplaceAllString(name, "")
}
