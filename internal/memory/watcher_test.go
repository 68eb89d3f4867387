package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

// writeAtomic replaces path the way most editors do.
func writeAtomic(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dossier.yaml")
	writeAtomic(t, path, "records:\n  - name: خیام\n")

	records, err := LoadDossierFile(path)
	require.NoError(t, err)
	d, err := NewDossier(records, nil)
	require.NoError(t, err)

	w, err := NewWatcher(path, d)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeAtomic(t, path, "records:\n  - name: فردوسی\n    profession: شاعر\n")

	require.Eventually(t, func() bool {
		_, ok := d.Get("فردوسی")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	_, ok := d.Get("خیام")
	assert.False(t, ok)
}

func TestWatcher_KeepsSnapshotOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dossier.yaml")
	writeAtomic(t, path, "records:\n  - name: خیام\n")

	d, err := NewDossier(nil, nil)
	require.NoError(t, err)
	require.NoError(t, d.Replace([]core.KnowledgeRecord{{Name: "خیام"}}))

	w, err := NewWatcher(path, d)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeAtomic(t, path, "records: [this is: not valid")
	// فایل دیگری در همان پوشه نباید بارگذاری را راه بیندازد
	writeAtomic(t, filepath.Join(dir, "other.yaml"), "records:\n  - name: فردوسی\n")
	writeAtomic(t, path, "records:\n  - name: مولانا\n")

	require.Eventually(t, func() bool {
		_, ok := d.Get("مولانا")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{"مولانا"}, d.Names())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	d, err := NewDossier(nil, nil)
	require.NoError(t, err)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "missing", "dossier.yaml"), d)
	assert.Error(t, err)
}
