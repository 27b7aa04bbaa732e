package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsphweid/notefall/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func song(title string) model.Song {
	return model.Song{Title: title, Tempo: 120, Multiplier: 1, Melody: "CDE", Accompaniment: "C,4"}
}

func TestPutAssignsID(t *testing.T) {
	assert := assert.New(t)
	s := NewMemory()

	saved, err := s.Put(song("a"))
	assert.NoError(err)
	assert.NotEmpty(saved.ID)

	got, err := s.Get(saved.ID)
	assert.NoError(err)
	assert.Equal(saved, got)

	again, err := s.Put(saved)
	assert.NoError(err)
	assert.Equal(saved.ID, again.ID)
}

func TestListIsSorted(t *testing.T) {
	assert := assert.New(t)
	s := NewMemory()
	for _, title := range []string{"c", "a", "b"} {
		_, err := s.Put(song(title))
		assert.NoError(err)
	}

	list, err := s.List()
	assert.NoError(err)
	var titles []string
	for _, o := range list {
		titles = append(titles, o.Title)
	}
	assert.Equal([]string{"a", "b", "c"}, titles)
}

func TestMissingSong(t *testing.T) {
	assert := assert.New(t)
	s := NewMemory()

	_, err := s.Get("nope")
	assert.True(errors.Is(err, ErrNotFound))
	assert.True(errors.Is(s.Delete("nope"), ErrNotFound))
}

func TestDelete(t *testing.T) {
	assert := assert.New(t)
	s := NewMemory()
	saved, _ := s.Put(song("a"))

	assert.NoError(s.Delete(saved.ID))
	_, err := s.Get(saved.ID)
	assert.True(errors.Is(err, ErrNotFound))
}

func TestFlushAndReopen(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	s, err := Open(dir, time.Hour)
	assert.NoError(err)
	saved, err := s.Put(song("persisted"))
	assert.NoError(err)
	assert.NoError(s.Close())

	_, err = os.Stat(filepath.Join(dir, "songs.dat"))
	assert.NoError(err)

	reopened, err := Open(dir, time.Hour)
	assert.NoError(err)
	got, err := reopened.Get(saved.ID)
	assert.NoError(err)
	assert.Equal(saved, got)
}

func TestDebouncedFlush(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	s, err := Open(dir, 10*time.Millisecond)
	assert.NoError(err)
	_, err = s.Put(song("later"))
	assert.NoError(err)

	assert.Eventually(func() bool {
		_, err := os.Stat(s.Path())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "songs.dat"), []byte("not a gob"), 0644))

	_, err := Open(dir, time.Hour)
	assert.Error(t, err)
}
