// Package quantize reduces raw MIDI notes to monophonic tracks whose
// durations are whole eighth notes, scaling tempo to keep playback speed.
package quantize

import (
	"math"
	"sort"

	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/util"
	"github.com/pkg/errors"
)

type Input struct {
	Notes        []model.RawNote
	TicksPerBeat int
	Tempo        float64
	Role         model.Part
}

type Result struct {
	Track      model.Track
	Multiplier int
	Tempo      float64
}

// Song is a quantized melody and accompaniment sharing one multiplier, so
// one tempo fits both.
type Song struct {
	Melody        model.Track
	Accompaniment model.Track
	Multiplier    int
	Tempo         float64
}

func validate(ticksPerBeat int, tempo float64) error {
	if ticksPerBeat <= 0 {
		return errors.Errorf("invalid ticks per beat: %d", ticksPerBeat)
	}
	if tempo <= 0 {
		return errors.Errorf("invalid tempo: %v", tempo)
	}
	return nil
}

// ToUnits converts ticks into eighth notes.
func ToUnits(ticks uint32, ticksPerBeat int) float64 {
	return float64(ticks) / float64(ticksPerBeat) * 2
}

// melody keeps the top of a chord, accompaniment the bottom
func prefer(role model.Part, candidate, current int) bool {
	if role == model.Accompaniment {
		return candidate < current
	}
	return candidate > current
}

func reduceChords(notes []model.RawNote, role model.Part) []model.RawNote {
	sorted := make([]model.RawNote, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})

	var kept []model.RawNote
	for i := 0; i < len(sorted); {
		best := sorted[i]
		j := i + 1
		for ; j < len(sorted) && sorted[j].Tick == sorted[i].Tick; j++ {
			if prefer(role, sorted[j].Pitch, best.Pitch) {
				best = sorted[j]
			}
		}
		kept = append(kept, best)
		i = j
	}
	return kept
}

// Reduce turns notes into a monophonic track in eighth-note units. Chords
// keep one note by role, overlapping notes are cut at the next onset and
// silences become rests unless they are shorter than the noise floor, in
// which case they are folded into the previous event.
func Reduce(notes []model.RawNote, ticksPerBeat int, role model.Part) model.Track {
	kept := reduceChords(notes, role)

	var track model.Track
	var prevEnd float64
	for i, n := range kept {
		onset := ToUnits(n.Tick, ticksPerBeat)
		dur := ToUnits(n.Length, ticksPerBeat)
		if i+1 < len(kept) {
			next := ToUnits(kept[i+1].Tick, ticksPerBeat)
			if onset+dur > next {
				dur = next - onset
			}
		}

		gap := onset - prevEnd
		if gap >= constants.NoiseFloor {
			track = append(track, model.NewRest(gap))
		} else if gap > 0 && len(track) > 0 {
			track[len(track)-1].Duration += gap
		}

		if dur <= 0 {
			continue
		}
		track = append(track, model.NewNote(n.Pitch, dur))
		prevEnd = onset + dur
	}
	return track
}

func isIntegral(v float64) bool {
	return math.Abs(v-math.Round(v)) <= constants.IntegralTolerance
}

// FindMultiplier returns the smallest candidate multiplier that makes every
// duration in every track whole, or the largest candidate if none does.
func FindMultiplier(tracks ...model.Track) int {
	for _, m := range constants.Multipliers {
		ok := true
	TrackLoop:
		for _, track := range tracks {
			for _, ev := range track {
				if !isIntegral(ev.Duration * float64(m)) {
					ok = false
					break TrackLoop
				}
			}
		}
		if ok {
			return m
		}
	}
	return constants.Multipliers[len(constants.Multipliers)-1]
}

// Scale multiplies durations by m and rounds them. Events that round to
// zero are dropped.
func Scale(track model.Track, m int) model.Track {
	res := make(model.Track, 0, len(track))
	for _, ev := range track {
		d := math.Round(ev.Duration * float64(m))
		if d <= 0 {
			continue
		}
		ev.Duration = d
		res = append(res, ev)
	}
	return res
}

func Quantize(in Input) (Result, error) {
	if err := validate(in.TicksPerBeat, in.Tempo); err != nil {
		return Result{}, err
	}
	track := Reduce(in.Notes, in.TicksPerBeat, in.Role)
	m := FindMultiplier(track)
	return Result{
		Track:      Scale(track, m),
		Multiplier: m,
		Tempo:      in.Tempo * float64(m),
	}, nil
}

func QuantizeSong(melody, accompaniment []model.RawNote, ticksPerBeat int, tempo float64) (Song, error) {
	if err := validate(ticksPerBeat, tempo); err != nil {
		return Song{}, err
	}
	m := Reduce(melody, ticksPerBeat, model.Melody)
	a := Reduce(accompaniment, ticksPerBeat, model.Accompaniment)
	mult := FindMultiplier(m, a)
	return Song{
		Melody:        Scale(m, mult),
		Accompaniment: Scale(a, mult),
		Multiplier:    mult,
		Tempo:         tempo * float64(mult),
	}, nil
}

// Seconds is the wall-clock length of track at tempo.
func Seconds(track model.Track, tempo float64) float64 {
	durations := make([]float64, len(track))
	for i, ev := range track {
		durations[i] = ev.Duration
	}
	return util.Sum(durations) * 60 / (tempo * 2)
}
