// Package pitch spells absolute semitone numbers as letter, accidental and
// octave and back. Pitches use MIDI key numbering, so C4 is 60.
package pitch

import (
	"fmt"

	"github.com/pkg/errors"
)

type Accidental int8

const (
	Flat    Accidental = -1
	Natural Accidental = 0
	Sharp   Accidental = 1
)

// Spelling is always natural or sharp once canonicalized.
type Spelling struct {
	Letter byte
	Sharp  bool
	Octave int
}

var pitchClasses = [12]Spelling{
	{Letter: 'C'}, {Letter: 'C', Sharp: true},
	{Letter: 'D'}, {Letter: 'D', Sharp: true},
	{Letter: 'E'},
	{Letter: 'F'}, {Letter: 'F', Sharp: true},
	{Letter: 'G'}, {Letter: 'G', Sharp: true},
	{Letter: 'A'}, {Letter: 'A', Sharp: true},
	{Letter: 'B'},
}

var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

type respelling struct {
	letter      byte
	sharp       bool
	octaveShift int
}

// flats that land on a black key become the sharp of the letter below; Cb and
// Fb have no black key and become the natural below.
var flatSpellings = map[byte]respelling{
	'C': {'B', false, -1},
	'D': {'C', true, 0},
	'E': {'D', true, 0},
	'F': {'E', false, 0},
	'G': {'F', true, 0},
	'A': {'G', true, 0},
	'B': {'A', true, 0},
}

var sharpSpellings = map[byte]respelling{
	'C': {'C', true, 0},
	'D': {'D', true, 0},
	'E': {'F', false, 0},
	'F': {'F', true, 0},
	'G': {'G', true, 0},
	'A': {'A', true, 0},
	'B': {'C', false, 1},
}

func IsLetter(c byte) bool {
	_, ok := letterOffsets[c]
	return ok
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Spell returns the canonical spelling of p.
func Spell(p int) Spelling {
	s := pitchClasses[p-floorDiv(p, 12)*12]
	s.Octave = floorDiv(p, 12) - 1
	return s
}

// Canonicalize respells letter+accidental in octave using only naturals and
// sharps. letter must be an uppercase A-G.
func Canonicalize(letter byte, acc Accidental, octave int) (Spelling, error) {
	if !IsLetter(letter) {
		return Spelling{}, errors.Errorf("invalid letter %q", letter)
	}
	var table map[byte]respelling
	switch acc {
	case Natural:
		return Spelling{Letter: letter, Octave: octave}, nil
	case Flat:
		table = flatSpellings
	case Sharp:
		table = sharpSpellings
	default:
		return Spelling{}, errors.Errorf("invalid accidental %d", acc)
	}
	r := table[letter]
	return Spelling{Letter: r.letter, Sharp: r.sharp, Octave: octave + r.octaveShift}, nil
}

// Pitch is the inverse of Spell.
func (s Spelling) Pitch() int {
	p := (s.Octave+1)*12 + letterOffsets[s.Letter]
	if s.Sharp {
		p++
	}
	return p
}

func (s Spelling) String() string {
	if s.Sharp {
		return fmt.Sprintf("%c#%d", s.Letter, s.Octave)
	}
	return fmt.Sprintf("%c%d", s.Letter, s.Octave)
}

func Name(p int) string {
	return Spell(p).String()
}
