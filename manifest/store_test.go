package manifest

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sonnes/actionlog/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func document(id string, started time.Time) *core.Document {
	code := 0
	return &core.Document{
		ID:        id,
		Script:    "build.sh",
		StartedAt: started,
		ExitCode:  &code,
		Lines:     2,
		Blocks: []core.Block{
			core.NewTextBlock(1, "hello", ""),
			core.NewAlertBlock(2, core.AlertNotice, "", "done"),
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := document("run-1", now)

	require.NoError(t, s.Save(want))

	got, err := s.Load("run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "runs/run-1.html", runs[0].Href)
	assert.Equal(t, 2, runs[0].BlockCount)
}

func TestStoreSaveUpserts(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	now := time.Now()
	d := document("run-1", now)
	require.NoError(t, s.Save(d))

	d.Title = "renamed"
	require.NoError(t, s.Save(d))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "renamed", runs[0].Title)
}

func TestStoreKeep(t *testing.T) {
	s := &Store{Dir: t.TempDir(), Keep: 2}
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(document(id, t0.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, []string{runs[0].ID, runs[1].ID})

	_, err = os.Stat(s.DocumentPath("a"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = s.Load("a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsBadIDs(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	assert.Error(t, s.Save(document("../escape", time.Now())))

	_, err := s.Load("../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorePrune(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	all := &Store{Dir: dir}
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, all.Save(document(id, t0.Add(time.Duration(i)*time.Minute))))
	}

	s := &Store{Dir: dir, Keep: 1}
	n, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "c", runs[0].ID)
	_, err = s.Load("b")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = s.Prune()
	require.NoError(t, err)
	assert.Zero(t, n)
}
