// Package convert ties MIDI input, quantization and the text codec together
// to move between performance files and songs.
package convert

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/midi"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/notation"
	"github.com/jsphweid/notefall/pitch"
	"github.com/jsphweid/notefall/quantize"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

type Options struct {
	Title              string
	MelodyTrack        int
	AccompanimentTrack int
	Range              pitch.Range
}

func DefaultOptions() Options {
	return Options{
		MelodyTrack:        -1,
		AccompanimentTrack: -1,
		Range:              pitch.Range{Low: constants.DefaultRangeLow, High: constants.DefaultRangeHigh},
	}
}

func FromSMF(s *smf.SMF, opts Options) (model.Song, error) {
	ticksPerBeat, err := midi.TicksPerBeat(s)
	if err != nil {
		return model.Song{}, err
	}
	sel, err := midi.SelectParts(s, opts.MelodyTrack, opts.AccompanimentTrack)
	if err != nil {
		return model.Song{}, err
	}
	q, err := quantize.QuantizeSong(sel.Melody, sel.Accompaniment, ticksPerBeat, midi.Tempo(s))
	if err != nil {
		return model.Song{}, errors.Wrap(err, "quantizing")
	}

	melody, err := notation.Encode(q.Melody, opts.Range)
	if err != nil {
		return model.Song{}, errors.Wrap(err, "encoding melody")
	}
	accompaniment, err := notation.Encode(q.Accompaniment, opts.Range)
	if err != nil {
		return model.Song{}, errors.Wrap(err, "encoding accompaniment")
	}

	return model.Song{
		Title:         opts.Title,
		Tempo:         q.Tempo,
		Multiplier:    q.Multiplier,
		Melody:        melody,
		Accompaniment: accompaniment,
	}, nil
}

// FromFile converts a MIDI file, titling the song after the file when
// opts has no title.
func FromFile(path string, opts Options) (model.Song, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return model.Song{}, err
	}
	if opts.Title == "" {
		base := filepath.Base(path)
		opts.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	song, err := FromSMF(s, opts)
	return song, errors.Wrapf(err, "converting %s", path)
}

type Decoded struct {
	Melody        notation.Result
	Accompaniment notation.Result
}

func (d Decoded) Track(p model.Part) model.Track {
	if p == model.Accompaniment {
		return d.Accompaniment.Track
	}
	return d.Melody.Track
}

func (d Decoded) Skipped() int {
	return len(d.Melody.Skipped) + len(d.Accompaniment.Skipped)
}

func DecodeSong(song model.Song) Decoded {
	return Decoded{
		Melody:        notation.Decode(song.Melody),
		Accompaniment: notation.Decode(song.Accompaniment),
	}
}

// ToSMF renders a song back into a MIDI file at its stored tempo.
func ToSMF(song model.Song) (*smf.SMF, error) {
	if song.Tempo <= 0 {
		return nil, errors.Errorf("song %q has no tempo", song.ID)
	}
	d := DecodeSong(song)
	return midi.Render(song.Tempo, d.Melody.Track, d.Accompaniment.Track), nil
}
