package midi

import (
	"sort"

	"github.com/jsphweid/notefall/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ExtractNotes pairs note starts and ends per key, first in first out. Notes
// still sounding at the end of the track end there.
func ExtractNotes(track smf.Track) []model.RawNote {
	var notes []model.RawNote
	sounding := make(map[uint8][]int)

	var absTicks uint32
	for _, event := range track {
		absTicks += event.Delta
		var channel, key, velocity uint8
		isOn := event.Message.GetNoteOn(&channel, &key, &velocity)
		switch {
		case isOn && velocity > 0:
			sounding[key] = append(sounding[key], len(notes))
			notes = append(notes, model.RawNote{Tick: absTicks, Pitch: int(key)})
		case isOn, event.Message.GetNoteOff(&channel, &key, &velocity):
			queue := sounding[key]
			if len(queue) == 0 {
				continue
			}
			notes[queue[0]].Length = absTicks - notes[queue[0]].Tick
			sounding[key] = queue[1:]
		}
	}

	for _, queue := range sounding {
		for _, i := range queue {
			notes[i].Length = absTicks - notes[i].Tick
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Tick < notes[j].Tick
	})
	return notes
}

type TrackInfo struct {
	Index     int
	Name      string
	NumEvents int
	NumNotes  int
	MeanPitch float64
	Notes     []model.RawNote
}

func Tracks(s *smf.SMF) []TrackInfo {
	var res []TrackInfo
	for i, track := range s.Tracks {
		info := TrackInfo{
			Index:     i,
			Name:      TrackName(track),
			NumEvents: len(track),
			Notes:     ExtractNotes(track),
		}
		info.NumNotes = len(info.Notes)
		if info.NumNotes > 0 {
			var total int
			for _, n := range info.Notes {
				total += n.Pitch
			}
			info.MeanPitch = float64(total) / float64(info.NumNotes)
		}
		res = append(res, info)
	}
	return res
}

type Selection struct {
	MelodyTrack        int
	AccompanimentTrack int
	Melody             []model.RawNote
	Accompaniment      []model.RawNote
}

// SelectParts picks the melody and accompaniment tracks. A negative index
// means choose automatically: of the first two tracks with notes, the
// higher one is the melody. A file with a single note track uses it for
// both parts.
func SelectParts(s *smf.SMF, melody, accompaniment int) (Selection, error) {
	infos := Tracks(s)
	var withNotes []int
	for _, info := range infos {
		if info.NumNotes > 0 {
			withNotes = append(withNotes, info.Index)
		}
	}
	if len(withNotes) == 0 {
		return Selection{}, ErrNoTrack
	}
	for _, idx := range []int{melody, accompaniment} {
		if idx >= len(infos) {
			return Selection{}, errors.Errorf("track %d out of range, file has %d tracks", idx, len(infos))
		}
		if idx >= 0 && infos[idx].NumNotes == 0 {
			return Selection{}, errors.Wrapf(ErrNoTrack, "track %d", idx)
		}
	}

	pickOther := func(not int) int {
		for _, idx := range withNotes {
			if idx != not {
				return idx
			}
		}
		return not
	}

	switch {
	case melody < 0 && accompaniment < 0:
		melody = withNotes[0]
		accompaniment = pickOther(melody)
		if infos[accompaniment].MeanPitch > infos[melody].MeanPitch {
			melody, accompaniment = accompaniment, melody
		}
	case melody < 0:
		melody = pickOther(accompaniment)
	case accompaniment < 0:
		accompaniment = pickOther(melody)
	}

	return Selection{
		MelodyTrack:        melody,
		AccompanimentTrack: accompaniment,
		Melody:             infos[melody].Notes,
		Accompaniment:      infos[accompaniment].Notes,
	}, nil
}
