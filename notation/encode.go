package notation

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/pitch"
)

const maxDenominator = 16

const fractionTolerance = 1e-3

// Encode writes track as text. Pitches outside rng are moved into it by
// octaves; events without a positive duration are not written.
func Encode(track model.Track, rng pitch.Range) (string, error) {
	if err := rng.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, ev := range track {
		if ev.Duration <= 0 {
			continue
		}
		if ev.IsRest() {
			sb.WriteByte(restMarker)
		} else {
			writeSpelling(&sb, pitch.Spell(rng.Clip(ev.Pitch)))
		}
		writeDuration(&sb, ev.Duration)
	}
	return sb.String(), nil
}

func writeSpelling(sb *strings.Builder, s pitch.Spelling) {
	if s.Sharp {
		sb.WriteByte(sharpMarker)
	}
	if s.Octave >= 5 {
		sb.WriteByte(s.Letter - 'A' + 'a')
		sb.WriteString(strings.Repeat(string(raiseMarker), s.Octave-5))
		return
	}
	sb.WriteByte(s.Letter)
	sb.WriteString(strings.Repeat(string(lowerMarker), 4-s.Octave))
}

// length 1 is the implicit default and is never written
func writeDuration(sb *strings.Builder, d float64) {
	num, den := Fraction(d)
	switch {
	case num == 1 && den == 1:
	case den == 1:
		sb.WriteString(strconv.Itoa(num))
	default:
		sb.WriteString(strconv.Itoa(num))
		sb.WriteByte(fracMarker)
		sb.WriteString(strconv.Itoa(den))
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Fraction approximates a positive d as num/den using the smallest
// denominator up to 16 that matches it, or the nearest sixteenth.
func Fraction(d float64) (int, int) {
	for den := 1; den <= maxDenominator; den++ {
		num := int(math.Round(d * float64(den)))
		if num > 0 && math.Abs(float64(num)/float64(den)-d) <= fractionTolerance {
			return num, den
		}
	}
	num := int(math.Round(d * maxDenominator))
	if num < 1 {
		num = 1
	}
	g := gcd(num, maxDenominator)
	return num / g, maxDenominator / g
}
