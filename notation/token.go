package notation

import (
	"strconv"

	"github.com/jsphweid/notefall/pitch"
)

type TokenKind uint8

const (
	TokenNote TokenKind = iota
	TokenRest
	TokenSpace
	TokenUnknown
)

func (k TokenKind) String() string {
	switch k {
	case TokenNote:
		return "note"
	case TokenRest:
		return "rest"
	case TokenSpace:
		return "space"
	}
	return "unknown"
}

const (
	restMarker  = 'z'
	sharpMarker = '^'
	flatMarker  = '_'
	natMarker   = '='
	raiseMarker = '\''
	lowerMarker = ','
	fracMarker  = '/'
	barMarker   = '|'
)

// Token is one lexical unit of encoded text. Every input byte belongs to
// exactly one token.
type Token struct {
	Kind     TokenKind
	Offset   int
	Text     string
	Pitch    int
	Duration float64
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == barMarker
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Tokenize splits text into tokens. Bytes that cannot start or complete a
// note or rest are grouped into TokenUnknown runs.
func Tokenize(text string) []Token {
	var tokens []Token
	unknownStart := -1
	flushUnknown := func(end int) {
		if unknownStart >= 0 {
			tokens = append(tokens, Token{Kind: TokenUnknown, Offset: unknownStart, Text: text[unknownStart:end]})
			unknownStart = -1
		}
	}

	i := 0
	for i < len(text) {
		if isSpace(text[i]) {
			flushUnknown(i)
			j := i
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenSpace, Offset: i, Text: text[i:j]})
			i = j
			continue
		}

		tok, next, ok := scanEvent(text, i)
		if !ok {
			if unknownStart < 0 {
				unknownStart = i
			}
			i = next
			continue
		}
		flushUnknown(i)
		tokens = append(tokens, tok)
		i = next
	}
	flushUnknown(len(text))
	return tokens
}

// scanEvent reads one note or rest starting at i. When it fails, next is
// where scanning should resume.
func scanEvent(text string, i int) (Token, int, bool) {
	j := i
	acc := pitch.Natural
	hasAcc := false
	switch text[j] {
	case sharpMarker:
		acc, hasAcc = pitch.Sharp, true
	case flatMarker:
		acc, hasAcc = pitch.Flat, true
	case natMarker:
		hasAcc = true
	}
	if hasAcc {
		j++
	}
	if j >= len(text) {
		return Token{}, i + 1, false
	}

	tok := Token{Offset: i}
	c := text[j]
	var letter byte
	octave := 4
	switch {
	case c == restMarker && !hasAcc:
		tok.Kind = TokenRest
	case c >= 'A' && c <= 'G':
		tok.Kind = TokenNote
		letter = c
	case c >= 'a' && c <= 'g':
		tok.Kind = TokenNote
		letter = c - 'a' + 'A'
		octave = 5
	default:
		return Token{}, i + 1, false
	}
	j++

	if tok.Kind == TokenNote {
	OctaveLoop:
		for j < len(text) {
			switch text[j] {
			case raiseMarker:
				octave++
			case lowerMarker:
				octave--
			default:
				break OctaveLoop
			}
			j++
		}
		spelling, err := pitch.Canonicalize(letter, acc, octave)
		if err != nil {
			return Token{}, i + 1, false
		}
		tok.Pitch = spelling.Pitch()
	}

	dur, next, ok := scanDuration(text, j)
	if !ok {
		return Token{}, next, false
	}
	tok.Duration = dur
	tok.Text = text[i:next]
	return tok, next, true
}

func scanNumber(text string, j int) (int, int, bool) {
	start := j
	for j < len(text) && isDigit(text[j]) {
		j++
	}
	if j == start {
		return 0, j, false
	}
	n, err := strconv.Atoi(text[start:j])
	if err != nil {
		return 0, j, false
	}
	return n, j, true
}

// scanDuration reads N, N/D, /D, N/ or / and defaults to one unit. A zero
// or unparsable length consumes its digits and fails.
func scanDuration(text string, j int) (float64, int, bool) {
	start := j
	num, j, hasNum := scanNumber(text, j)
	if j > start && !hasNum {
		return 0, j, false
	}
	if j < len(text) && text[j] == fracMarker {
		j++
		denStart := j
		den, next, hasDen := scanNumber(text, j)
		j = next
		if j > denStart && !hasDen {
			return 0, j, false
		}
		if !hasNum {
			num = 1
		}
		if !hasDen {
			den = 2
		}
		if num == 0 || den == 0 {
			return 0, j, false
		}
		return float64(num) / float64(den), j, true
	}
	if !hasNum {
		return 1, j, true
	}
	if num == 0 {
		return 0, j, false
	}
	return float64(num), j, true
}
