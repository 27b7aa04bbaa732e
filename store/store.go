// Package store keeps encoded songs.
package store

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jsphweid/notefall/model"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("song not found")

type Store interface {
	// Put saves song, giving it a fresh ID if it has none, and returns what
	// was saved.
	Put(song model.Song) (model.Song, error)
	Get(id string) (model.Song, error)
	List() ([]model.SongOverview, error)
	Delete(id string) error
}

func AssignID(song model.Song) model.Song {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	return song
}

// SortOverviews orders by title, then ID.
func SortOverviews(res []model.SongOverview) {
	sort.Slice(res, func(i, j int) bool {
		if res[i].Title != res[j].Title {
			return res[i].Title < res[j].Title
		}
		return res[i].ID < res[j].ID
	})
}
