package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ImageExtensions    = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	DocumentExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".pdf"}
)

// FileStorage stores uploads under relative paths like "tenant_photos/<uuid>_name.jpg".
type FileStorage interface {
	UploadFile(file multipart.File, relPath string) (string, error)
	UploadFileFromReader(src io.Reader, relPath string) (string, error)
	DownloadFile(relPath string) (io.ReadCloser, error)
	DeleteFile(relPath string) error
	FileExists(relPath string) (bool, error)
	Root() string
}

type LocalFileStorage struct {
	uploadPath string
}

func NewLocalFileStorage(uploadPath string) *LocalFileStorage {
	return &LocalFileStorage{uploadPath: uploadPath}
}

func (s *LocalFileStorage) Root() string {
	return s.uploadPath
}

// UploadFile handles multipart file uploads
func (s *LocalFileStorage) UploadFile(file multipart.File, relPath string) (string, error) {
	return s.UploadFileFromReader(file, relPath)
}

// UploadFileFromReader writes src to relPath and returns relPath.
func (s *LocalFileStorage) UploadFileFromReader(src io.Reader, relPath string) (string, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Clean up on error
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	return filepath.ToSlash(relPath), nil
}

// DownloadFile retrieves a file for reading
func (s *LocalFileStorage) DownloadFile(relPath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// DeleteFile removes a file from storage. Missing files are not an error.
func (s *LocalFileStorage) DeleteFile(relPath string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FileExists checks if a file exists in storage
func (s *LocalFileStorage) FileExists(relPath string) (bool, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

func (s *LocalFileStorage) resolve(relPath string) (string, error) {
	clean := filepath.Clean("/" + relPath)
	if clean == "/" {
		return "", fmt.Errorf("empty file path")
	}
	return filepath.Join(s.uploadPath, clean), nil
}

// StoredFileName builds "<folder>/<uuid>_<sanitised original name>".
func StoredFileName(folder, original string) string {
	return fmt.Sprintf("%s/%s_%s", folder, uuid.New().String(), SanitizeFileName(original))
}

// SanitizeFileName keeps letters, digits, dot, dash and underscore.
func SanitizeFileName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "file"
	}
	return out
}

// CheckExtension rejects files whose extension is not in allowed.
func CheckExtension(fileName string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return UploadError(fileName, fmt.Errorf("unsupported file type %q", ext))
}

// SaveMultipart validates and stores one uploaded file under folder.
func SaveMultipart(storage FileStorage, fh *multipart.FileHeader, folder string, allowed []string) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ValidationError("No file provided")
	}
	if err := CheckExtension(fh.Filename, allowed); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", UploadError(fh.Filename, err)
	}
	defer src.Close()

	path, err := storage.UploadFile(src, StoredFileName(folder, fh.Filename))
	if err != nil {
		return "", UploadError(fh.Filename, err)
	}
	return path, nil
}
