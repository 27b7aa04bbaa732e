package midi

import (
	"fmt"
	"io"
	"math"

	"github.com/jsphweid/notefall/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const RenderTicksPerBeat = 480

const renderVelocity = 100

func partName(i int) string {
	if i < len(model.Parts) {
		return model.Parts[i].String()
	}
	return fmt.Sprintf("track %d", i)
}

// Render builds a format 1 file with a conductor track carrying tempo and
// one track per part, each part on its own channel.
func Render(tempo float64, parts ...model.Track) *smf.SMF {
	res := smf.NewSMF1()
	res.TimeFormat = smf.MetricTicks(RenderTicksPerBeat)

	conductor := smf.Track{}
	conductor = append(conductor, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName("Tempo"))})
	conductor = append(conductor, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(tempo))})
	conductor = append(conductor, smf.Event{Delta: 0, Message: smf.EOT})
	res.Add(conductor)

	ticksPerUnit := float64(RenderTicksPerBeat) / 2
	for i, part := range parts {
		channel := uint8(i % 16)
		track := smf.Track{}
		track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(partName(i)))})

		// positions are tracked in exact units and rounded once, so
		// fractional lengths do not accumulate drift
		var pos, written float64
		var delta uint32
		for _, ev := range part {
			start := math.Round(pos * ticksPerUnit)
			pos += ev.Duration
			end := math.Round(pos * ticksPerUnit)
			if ev.IsRest() || ev.Pitch < 0 || ev.Pitch > 127 || end <= start {
				continue
			}
			delta = uint32(start - written)
			key := uint8(ev.Pitch)
			track = append(track, smf.Event{Delta: delta, Message: smf.Message(gomidi.NoteOn(channel, key, renderVelocity))})
			track = append(track, smf.Event{Delta: uint32(end - start), Message: smf.Message(gomidi.NoteOff(channel, key))})
			written = end
		}
		track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
		res.Add(track)
	}
	return res
}

func Write(w io.Writer, s *smf.SMF) error {
	_, err := s.WriteTo(w)
	return errors.Wrap(err, "error writing midi file")
}
