package storage_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"deptportal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("receipt", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	file, header, err := req.FormFile("receipt")
	require.NoError(t, err)
	return file, header
}

func newStore(t *testing.T, maxSize int64) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "receipts"), maxSize)
	require.NoError(t, err)
	return store
}

func TestSaveReceipt(t *testing.T) {
	t.Run("GeneratedNameCarriesMatricPrefix", func(t *testing.T) {
		store := newStore(t, 5<<20)
		file, header := upload(t, "teller scan.png", []byte("png-bytes"))

		name, err := store.SaveReceipt("220001", file, header)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(name, "220001_"))
		assert.True(t, strings.HasSuffix(name, "_teller_scan.png"))

		f, err := store.Open(name)
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("RejectsUnknownExtension", func(t *testing.T) {
		store := newStore(t, 5<<20)
		file, header := upload(t, "receipt.exe", []byte("nope"))

		_, err := store.SaveReceipt("220001", file, header)
		assert.ErrorIs(t, err, storage.ErrBadFileType)
	})

	t.Run("RejectsOversizedFile", func(t *testing.T) {
		store := newStore(t, 4)
		file, header := upload(t, "receipt.pdf", []byte("way too big"))

		_, err := store.SaveReceipt("220001", file, header)
		assert.ErrorIs(t, err, storage.ErrFileTooLarge)
	})

	t.Run("StripsHostileCharacters", func(t *testing.T) {
		store := newStore(t, 5<<20)
		file, header := upload(t, "a$b!c.jpg", []byte("jpg"))

		name, err := store.SaveReceipt("220001", file, header)
		require.NoError(t, err)
		assert.NotContains(t, name, "$")
		assert.NotContains(t, name, "!")
	})
}

func TestOpen(t *testing.T) {
	store := newStore(t, 5<<20)

	t.Run("MissingFile", func(t *testing.T) {
		_, err := store.Open("220001_20250101_000000_gone.png")
		assert.ErrorIs(t, err, storage.ErrFileNotFound)
	})

	t.Run("TraversalRejected", func(t *testing.T) {
		_, err := store.Open("../secrets.txt")
		assert.ErrorIs(t, err, storage.ErrUnsafeFilename)
	})
}

func TestRemove(t *testing.T) {
	store := newStore(t, 5<<20)

	t.Run("MissingFileIsNoop", func(t *testing.T) {
		assert.NoError(t, store.Remove("220001_20250101_000000_gone.png"))
	})

	t.Run("EmptyNameIsNoop", func(t *testing.T) {
		assert.NoError(t, store.Remove(""))
	})

	t.Run("RemovesStoredFile", func(t *testing.T) {
		file, header := upload(t, "teller.png", []byte("png"))
		name, err := store.SaveReceipt("220001", file, header)
		require.NoError(t, err)

		require.NoError(t, store.Remove(name))
		_, err = store.Open(name)
		assert.ErrorIs(t, err, storage.ErrFileNotFound)
	})
}
