// Package sequencer walks the melody and accompaniment tracks in step with
// the simulation clock and reports which notes are due.
package sequencer

import (
	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/model"
	"github.com/pkg/errors"
)

// Playhead is a cursor into one track.
type Playhead struct {
	Index    int
	Elapsed  float64
	Interval float64
}

// Spawn is a note that became due during Advance. Offset is how many frames
// past its exact start the note already is.
type Spawn struct {
	Part     model.Part
	Pitch    int
	Duration float64
	Offset   float64
}

type Sequencer struct {
	tracks        [2]model.Track
	heads         [2]Playhead
	framesPerUnit float64
}

// FramesPerUnit is the number of frames in one eighth note.
func FramesPerUnit(tempo, tickRate float64) float64 {
	framesPerBeat := tickRate * 60 / tempo
	return framesPerBeat / 2
}

func New(melody, accompaniment model.Track, tempo, tickRate float64) (*Sequencer, error) {
	if tempo <= 0 {
		return nil, errors.Errorf("invalid tempo: %v", tempo)
	}
	if tickRate <= 0 {
		return nil, errors.Errorf("invalid tick rate: %v", tickRate)
	}
	return &Sequencer{
		tracks:        [2]model.Track{melody, accompaniment},
		framesPerUnit: FramesPerUnit(tempo, tickRate),
	}, nil
}

func (s *Sequencer) Reset() {
	s.heads = [2]Playhead{}
}

func (s *Sequencer) Playhead(p model.Part) Playhead {
	return s.heads[p]
}

func (s *Sequencer) Len(p model.Part) int {
	return len(s.tracks[p])
}

func (s *Sequencer) Finished(p model.Part) bool {
	return s.heads[p].Index >= len(s.tracks[p])
}

func (s *Sequencer) Done() bool {
	return s.Finished(model.Melody) && s.Finished(model.Accompaniment)
}

// Advance moves both playheads forward by delta frames and returns every
// note that became due, in track order per part. Consumed intervals are
// subtracted from the accumulator rather than reset, so several short
// events inside one frame keep their relative spacing in Offset.
func (s *Sequencer) Advance(delta float64) []Spawn {
	var spawns []Spawn
	for _, p := range model.Parts {
		track := s.tracks[p]
		head := &s.heads[p]
		if head.Index >= len(track) {
			continue
		}
		head.Elapsed += delta
		for head.Index < len(track) && head.Elapsed >= head.Interval {
			ev := track[head.Index]
			head.Elapsed -= head.Interval
			head.Interval = ev.Duration * s.framesPerUnit
			if head.Interval < constants.MinInterval {
				head.Interval = constants.MinInterval
			}
			head.Index++
			if ev.IsRest() {
				continue
			}
			spawns = append(spawns, Spawn{
				Part:     p,
				Pitch:    ev.Pitch,
				Duration: ev.Duration,
				Offset:   head.Elapsed,
			})
		}
	}
	return spawns
}
