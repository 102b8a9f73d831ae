package janitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-catalog/internal/model"
)

type fakeFinder struct {
	ids map[string]bool
}

func (f *fakeFinder) FindByID(_ context.Context, id string) (*model.Recipe, error) {
	if f.ids[id] {
		return &model.Recipe{ID: id}, nil
	}
	return nil, nil
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestSweep_RemovesOrphansOnly(t *testing.T) {
	dir := t.TempDir()

	liveID := uuid.NewString()
	orphanID := uuid.NewString()
	live := writeFile(t, dir, liveID+".jpeg")
	orphan := writeFile(t, dir, orphanID+".jpeg")
	unrelated := writeFile(t, dir, "notes.txt")

	j := New(dir, &fakeFinder{ids: map[string]bool{liveID: true}})
	require.NoError(t, j.Sweep(context.Background()))

	assert.FileExists(t, live)
	assert.FileExists(t, unrelated)
	assert.NoFileExists(t, orphan)
}

func TestSweep_MissingDirIsNoop(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "does-not-exist"), &fakeFinder{ids: map[string]bool{}})
	assert.NoError(t, j.Sweep(context.Background()))
}
