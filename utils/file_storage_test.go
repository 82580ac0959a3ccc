package utils

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStorage_UploadAndDelete(t *testing.T) {
	storage := NewLocalFileStorage(t.TempDir())

	path, err := storage.UploadFileFromReader(strings.NewReader("hello"), "tenant_docs/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "tenant_docs/a.pdf", path)

	exists, err := storage.FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := storage.DownloadFile(path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	require.NoError(t, storage.DeleteFile(path))
	require.NoError(t, storage.DeleteFile(path), "deleting twice is fine")

	exists, err = storage.FileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalFileStorage_StaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	storage := NewLocalFileStorage(root)

	path, err := storage.UploadFileFromReader(bytes.NewReader([]byte("x")), "../../escape.txt")
	require.NoError(t, err)

	exists, err := storage.FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	resolved, err := storage.resolve(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resolved, root))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "my_lease.pdf", SanitizeFileName("../my lease.pdf"))
	assert.Equal(t, "file", SanitizeFileName("***"))
}

func TestCheckExtension(t *testing.T) {
	assert.NoError(t, CheckExtension("proof.PNG", ImageExtensions))
	err := CheckExtension("proof.exe", ImageExtensions)
	require.Error(t, err)
	assert.Equal(t, KindUpload, AsAppError(err).Kind)
}

func TestStoredFileName(t *testing.T) {
	name := StoredFileName("payment_screenshots", "gpay receipt.png")
	assert.True(t, strings.HasPrefix(name, "payment_screenshots/"))
	assert.True(t, strings.HasSuffix(name, "_gpay_receipt.png"))
}
