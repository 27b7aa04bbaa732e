package midi

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultTempo = 120.0

var ErrNoTrack = errors.New("no track with notes")

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s = nil
			e = errors.Errorf("error parsing midi file... %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

func TicksPerBeat(s *smf.SMF) (int, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return 0, errors.Errorf("unsupported time format %v, expected metric ticks", s.TimeFormat)
	}
	return int(ticks), nil
}

// Tempo returns the earliest tempo found in any track, or 120 BPM.
func Tempo(s *smf.SMF) float64 {
	tempo := defaultTempo
	earliest := -1
	for _, track := range s.Tracks {
		var absTicks int
		for _, event := range track {
			absTicks += int(event.Delta)
			var bpm float64
			if event.Message.GetMetaTempo(&bpm) {
				if earliest < 0 || absTicks < earliest {
					earliest = absTicks
					tempo = bpm
				}
				break
			}
		}
	}
	return tempo
}

func TrackName(track smf.Track) string {
	for _, event := range track {
		var name string
		if event.Message.GetMetaTrackName(&name) {
			return name
		}
	}
	return ""
}
