package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/util"
	"github.com/pkg/errors"
)

const DefaultFlushDelay = 500 * time.Millisecond

// File is an in-memory store that writes all songs to a single gob file a
// short while after the last change. A File with no path never touches
// disk.
type File struct {
	mu    sync.Mutex
	path  string
	songs map[string]model.Song
	dirty bool

	debounced func(func())
}

func NewMemory() *File {
	return &File{songs: make(map[string]model.Song)}
}

// Open loads dir/songs.dat if it exists. An empty dir means the configured
// song directory.
func Open(dir string, delay time.Duration) (*File, error) {
	if dir == "" {
		dir = constants.GetSongDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	f := NewMemory()
	f.path = filepath.Join(dir, constants.SongsFilename)
	f.debounced = debounce.New(delay)

	songs, err := util.ReadGob[map[string]model.Song](f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Store.Printf("starting empty store at %s", f.path)
	case err != nil:
		return nil, err
	default:
		f.songs = songs
		logger.Store.Printf("loaded %d songs from %s", len(songs), f.path)
	}
	return f, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) changed() {
	f.dirty = true
	if f.debounced == nil {
		return
	}
	f.debounced(func() {
		if err := f.Flush(); err != nil {
			logger.Store.Printf("flush failed: %v", err)
		}
	})
}

func (f *File) Put(song model.Song) (model.Song, error) {
	song = AssignID(song)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.songs[song.ID] = song
	f.changed()
	return song, nil
}

func (f *File) Get(id string) (model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	song, ok := f.songs[id]
	if !ok {
		return model.Song{}, errors.Wrap(ErrNotFound, id)
	}
	return song, nil
}

func (f *File) List() ([]model.SongOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]model.SongOverview, 0, len(f.songs))
	for _, id := range util.GetKeys(f.songs) {
		res = append(res, f.songs[id].Overview())
	}
	SortOverviews(res)
	return res, nil
}

func (f *File) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.songs[id]; !ok {
		return errors.Wrap(ErrNotFound, id)
	}
	delete(f.songs, id)
	f.changed()
	return nil
}

// Flush writes pending changes now.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty || f.path == "" {
		return nil
	}
	if err := util.WriteGob(f.path, f.songs); err != nil {
		return err
	}
	f.dirty = false
	logger.Store.Printf("wrote %d songs to %s", len(f.songs), f.path)
	return nil
}

func (f *File) Close() error {
	return f.Flush()
}
