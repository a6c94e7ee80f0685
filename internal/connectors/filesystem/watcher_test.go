package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

type mockDocuments struct {
	mu       sync.Mutex
	uploaded map[string]driving.UploadRequest
	deleted  []string
}

func newMockDocuments() *mockDocuments {
	return &mockDocuments{uploaded: make(map[string]driving.UploadRequest)}
}

func (m *mockDocuments) Upload(_ context.Context, req driving.UploadRequest, _ driving.ProgressFunc) (*domain.DocumentSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.uploaded[req.Filename]; ok {
		return nil, &domain.DuplicateDocumentError{Filename: req.Filename}
	}
	m.uploaded[req.Filename] = req
	return &domain.DocumentSummary{Filename: req.Filename, Source: req.Source}, nil
}

func (m *mockDocuments) List(_ context.Context) ([]domain.DocumentSummary, error) { return nil, nil }

func (m *mockDocuments) Get(_ context.Context, _ string) (*domain.Document, error) { return nil, nil }

func (m *mockDocuments) Delete(_ context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.uploaded, filename)
	m.deleted = append(m.deleted, filename)
	return nil
}

func (m *mockDocuments) Clear(_ context.Context) error { return nil }

func (m *mockDocuments) Uploads() []domain.UploadProgress { return nil }

func (m *mockDocuments) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.uploaded[name]
	return ok
}

func (m *mockDocuments) deletedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0600))
	upper := filepath.Join(dir, "SCAN.PDF")
	require.NoError(t, os.WriteFile(upper, []byte("%PDF-1.4"), 0600))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("text"), 0600))
	hidden := filepath.Join(dir, ".partial.pdf")
	require.NoError(t, os.WriteFile(hidden, []byte("%PDF"), 0600))
	subdir := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(subdir, 0750))

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want Action
	}{
		{"create pdf", pdf, fsnotify.Create, ActionLoad},
		{"write pdf", pdf, fsnotify.Write, ActionLoad},
		{"write and chmod", pdf, fsnotify.Write | fsnotify.Chmod, ActionLoad},
		{"uppercase extension", upper, fsnotify.Create, ActionLoad},
		{"chmod only", pdf, fsnotify.Chmod, ActionNone},
		{"remove pdf", filepath.Join(dir, "gone.pdf"), fsnotify.Remove, ActionUnload},
		{"rename pdf", filepath.Join(dir, "moved.pdf"), fsnotify.Rename, ActionUnload},
		{"create vanished pdf", filepath.Join(dir, "vanished.pdf"), fsnotify.Create, ActionNone},
		{"text file", txt, fsnotify.Create, ActionNone},
		{"hidden file", hidden, fsnotify.Create, ActionNone},
		{"directory", subdir, fsnotify.Create, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandleEvent(fsnotify.Event{Name: tt.path, Op: tt.op}))
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Run("loads existing and new pdfs", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.pdf"), []byte("%PDF-1.4 a"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0600))

		docs := newMockDocuments()
		w := New(docs, WithDebounce(20*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx, dir) }()

		require.Eventually(t, func() bool { return docs.has("existing.pdf") }, 2*time.Second, 10*time.Millisecond)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "dropped.pdf"), []byte("%PDF-1.4 b"), 0600))
		require.Eventually(t, func() bool { return docs.has("dropped.pdf") }, 2*time.Second, 10*time.Millisecond)
		assert.False(t, docs.has("ignored.txt"))

		docs.mu.Lock()
		assert.Equal(t, domain.SourceWatch, docs.uploaded["dropped.pdf"].Source)
		assert.Equal(t, []byte("%PDF-1.4 b"), docs.uploaded["dropped.pdf"].Data)
		docs.mu.Unlock()

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop after cancellation")
		}
	})

	t.Run("unloads removed pdfs", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "temp.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))

		docs := newMockDocuments()
		w := New(docs, WithDebounce(20*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx, dir) //nolint:errcheck // Stopped by cancel

		require.Eventually(t, func() bool { return docs.has("temp.pdf") }, 2*time.Second, 10*time.Millisecond)
		require.NoError(t, os.Remove(path))
		require.Eventually(t, func() bool { return len(docs.deletedNames()) == 1 }, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, []string{"temp.pdf"}, docs.deletedNames())
	})

	t.Run("missing directory", func(t *testing.T) {
		w := New(newMockDocuments())

		err := w.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "watch folder")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0600))

		err := New(newMockDocuments()).Run(context.Background(), path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestWatcher_UnloadIgnoresForeignDocuments(t *testing.T) {
	docs := newMockDocuments()
	_, err := docs.Upload(context.Background(), driving.UploadRequest{Filename: "manual.pdf"}, nil)
	require.NoError(t, err)

	w := New(docs)
	w.unload(context.Background(), "/somewhere/manual.pdf")

	assert.Empty(t, docs.deletedNames())
	assert.True(t, docs.has("manual.pdf"))
}

func TestWatcher_DebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))

	docs := newMockDocuments()
	w := New(docs, WithDebounce(50*time.Millisecond))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		w.schedule(ctx, path)
	}
	require.Eventually(t, func() bool { return docs.has("big.pdf") }, 2*time.Second, 10*time.Millisecond)
	w.stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.pending)
	assert.True(t, w.loaded["big.pdf"])
}
