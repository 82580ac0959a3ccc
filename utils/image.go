package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxPhotoWidth bounds stored profile photos.
const MaxPhotoWidth = 800

// NormalizePhoto decodes an image, fixes EXIF orientation, shrinks it to
// maxWidth and re-encodes it as JPEG.
func NormalizePhoto(src io.Reader, maxWidth int) ([]byte, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePhoto stores an uploaded photo after normalising it. Formats imaging
// cannot decode are stored as uploaded.
func SavePhoto(storage FileStorage, fh *multipart.FileHeader, folder string) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ValidationError("No photo provided")
	}
	if err := CheckExtension(fh.Filename, ImageExtensions); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", UploadError(fh.Filename, err)
	}
	defer src.Close()

	normalized, err := NormalizePhoto(src, MaxPhotoWidth)
	if err != nil {
		return SaveMultipart(storage, fh, folder, ImageExtensions)
	}

	base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)) + ".jpg"
	path, err := storage.UploadFileFromReader(bytes.NewReader(normalized), StoredFileName(folder, base))
	if err != nil {
		return "", UploadError(fh.Filename, err)
	}
	return path, nil
}
