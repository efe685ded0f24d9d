package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/armazem/internal/db"
	"github.com/erazemk/armazem/internal/files"
	"github.com/erazemk/armazem/internal/model"
	"github.com/erazemk/armazem/internal/store"
)

func TestSweep(t *testing.T) {
	database := db.NewTestDB(t)
	dir, err := files.New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	ctx := context.Background()

	kept, err := dir.Save("kept.txt", strings.NewReader("kept"))
	require.NoError(t, err)
	_, err = store.CreateDocument(ctx, database, model.Document{
		Filename: kept.Name, OriginalName: "kept.txt", ContentType: kept.ContentType, Size: kept.Size,
	})
	require.NoError(t, err)

	orphan, err := dir.Save("orphan.txt", strings.NewReader("orphan"))
	require.NoError(t, err)

	fresh, err := dir.Save("fresh.txt", strings.NewReader("fresh"))
	require.NoError(t, err)

	// Age everything but the fresh file past the grace period.
	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{kept.Name, orphan.Name} {
		require.NoError(t, os.Chtimes(filepath.Join(dir.Path, name), old, old))
	}

	s := New(database, dir, time.Hour)
	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.Name}, removed)

	entries, err := dir.List()
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{kept.Name, fresh.Name}, names)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(nil, nil, time.Hour)
	assert.Error(t, s.Start("not a schedule"))
	s.Stop()
}

func TestStartStop(t *testing.T) {
	s := New(nil, nil, time.Hour)
	require.NoError(t, s.Start("@every 1h"))
	s.Stop()
}
