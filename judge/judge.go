// Package judge matches a pressed lane against the notes in flight.
package judge

import (
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/util"
)

type Judge struct {
	// how far from the threshold a note may be and still be hit
	Window float64
	// how far behind the nearest note another note may be and still count
	// as part of the same chord
	ChordTolerance float64
}

// Match returns the index in notes of the note hit by pressing lane, or
// false if the press hits nothing. Only interactive notes are considered.
//
// The nearest interactive note in any lane sets the wavefront. A note in the
// pressed lane is only eligible when it is inside the window and within the
// chord tolerance of that wavefront, so chord notes in different lanes can
// each be hit by their own key while a later note in the pressed lane
// cannot be taken early.
func (j Judge) Match(lane int, notes []model.ActiveNote, threshold float64) (int, bool) {
	wavefront := -1.0
	for _, n := range notes {
		if !n.Interactive {
			continue
		}
		d := util.Abs(n.Distance(threshold))
		if wavefront < 0 || d < wavefront {
			wavefront = d
		}
	}
	if wavefront < 0 || wavefront > j.Window {
		return -1, false
	}

	best, bestDistance := -1, 0.0
	for i, n := range notes {
		if !n.Interactive || n.Lane != lane {
			continue
		}
		d := util.Abs(n.Distance(threshold))
		if d > j.Window || d > wavefront+j.ChordTolerance {
			continue
		}
		if best < 0 || d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best, best >= 0
}
