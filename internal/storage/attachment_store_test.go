package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.StorageConfig{
		UploadDir:         t.TempDir(),
		AllowedExtensions: []string{".png", ".pdf"},
	}, zap.NewNop())
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return store
}

func uploadForm(t *testing.T, names map[string]string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range names {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}

func TestSaveWritesDatedUniqueNames(t *testing.T) {
	store := newTestStore(t)
	files := uploadForm(t, map[string]string{"report.PDF": "content"})

	staged, err := store.Save(files)
	require.NoError(t, err)
	require.Len(t, staged, 1)

	assert.Equal(t, "report.PDF", staged[0].OriginalName)
	assert.Equal(t, ".pdf", staged[0].Extension, "extension is lowercased")
	assert.NotEqual(t, "report.PDF", staged[0].Filename)

	assert.Equal(t, filepath.Join(store.dir, "2026", "03", "10", staged[0].Filename), staged[0].Path)
	data, err := os.ReadFile(staged[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t)
	files := uploadForm(t, map[string]string{"a.png": "ok", "evil.exe": "no"})

	staged, err := store.Save(files)
	require.Error(t, err)
	assert.Nil(t, staged)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Info, "evil.exe")
	assert.Contains(t, domainErr.Info, ".png")

	// The whole batch is compensated: nothing stays on disk.
	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assertNoFilesUnder(t, filepath.Join(store.dir, entry.Name()))
	}
}

func assertNoFilesUnder(t *testing.T, dir string) {
	t.Helper()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		assert.True(t, d.IsDir(), "unexpected file left behind: %s", path)
		return nil
	})
	require.NoError(t, err)
}

func TestSaveSkipsEmptyFiles(t *testing.T) {
	store := newTestStore(t)
	files := uploadForm(t, map[string]string{"empty.png": ""})

	staged, err := store.Save(files)
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestCleanupRemovesStagedFiles(t *testing.T) {
	store := newTestStore(t)
	staged, err := store.Save(uploadForm(t, map[string]string{"a.png": "x"}))
	require.NoError(t, err)
	require.Len(t, staged, 1)

	store.Cleanup(staged)
	_, err = os.Stat(staged[0].Path)
	assert.True(t, os.IsNotExist(err))

	// Cleaning an already-clean batch must not explode.
	store.Cleanup(staged)
}

func TestResolve(t *testing.T) {
	store := newTestStore(t)
	staged, err := store.Save(uploadForm(t, map[string]string{"a.png": "x"}))
	require.NoError(t, err)

	createdAt := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	path, err := store.Resolve(createdAt, staged[0].Filename)
	require.NoError(t, err)
	assert.Equal(t, staged[0].Path, path)
}

func TestResolveAgreesWithSaveAcrossZones(t *testing.T) {
	store := newTestStore(t)
	// Local 05:00 on the 11th in UTC+10 is still the 10th in UTC; the path
	// written and the path resolved from the row's UTC timestamp must match.
	local := time.Date(2026, 3, 11, 5, 0, 0, 0, time.FixedZone("UTC+10", 10*3600))
	store.now = func() time.Time { return local }

	staged, err := store.Save(uploadForm(t, map[string]string{"scan.pdf": "content"}))
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, filepath.Join(store.dir, "2026", "03", "10", staged[0].Filename), staged[0].Path)

	path, err := store.Resolve(local.UTC(), staged[0].Filename)
	require.NoError(t, err)
	assert.Equal(t, staged[0].Path, path)
}

func TestResolveMissingFileIsStoreInconsistency(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Resolve(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "ghost.png")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "STORE_INCONSISTENT", domainErr.Code)
	assert.Equal(t, 500, domainErr.HTTPStatus)
}

func TestResolveRejectsPathEscape(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Resolve(time.Now(), "../secret.txt")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}
