// Package notation converts between note tracks and their compact text form.
//
// A token is an optional accidental (^ sharp, _ flat, = natural), a letter
// A-G (octave 4) or a-g (octave 5) or the rest marker z, any number of
// octave marks (' up, , down) and an optional length in eighth notes: N,
// N/D, /D, N/ or /. A missing length means one eighth.
package notation

import (
	"github.com/jsphweid/notefall/model"
)

// Skip records input that produced no event.
type Skip struct {
	Offset int
	Text   string
}

type Result struct {
	Track   model.Track
	Skipped []Skip
}

// Clean reports whether every non-space byte was consumed.
func (r Result) Clean() bool {
	return len(r.Skipped) == 0
}

// Decode parses text leniently: unrecognized input is skipped and reported
// in Result.Skipped rather than failing the whole decode.
func Decode(text string) Result {
	var res Result
	for _, tok := range Tokenize(text) {
		switch tok.Kind {
		case TokenNote:
			res.Track = append(res.Track, model.NewNote(tok.Pitch, tok.Duration))
		case TokenRest:
			res.Track = append(res.Track, model.NewRest(tok.Duration))
		case TokenUnknown:
			res.Skipped = append(res.Skipped, Skip{Offset: tok.Offset, Text: tok.Text})
		}
	}
	return res
}
