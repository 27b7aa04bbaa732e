package model

type Kind uint8

const (
	Rest Kind = iota
	Note
)

func (k Kind) String() string {
	if k == Note {
		return "note"
	}
	return "rest"
}

// NoteEvent is a single note or rest. Duration is measured in eighth notes.
type NoteEvent struct {
	Kind     Kind    `json:"kind"`
	Pitch    int     `json:"pitch,omitempty"`
	Duration float64 `json:"duration"`
}

type Track = []NoteEvent

func NewNote(pitch int, duration float64) NoteEvent {
	return NoteEvent{Kind: Note, Pitch: pitch, Duration: duration}
}

func NewRest(duration float64) NoteEvent {
	return NoteEvent{Kind: Rest, Duration: duration}
}

func (e NoteEvent) IsRest() bool {
	return e.Kind == Rest
}

// RawNote is a note as it appears in a MIDI track, before any quantization.
type RawNote struct {
	Tick   uint32
	Length uint32
	Pitch  int
}

type Part uint8

const (
	Melody Part = iota
	Accompaniment
)

var Parts = []Part{Melody, Accompaniment}

func (p Part) String() string {
	if p == Accompaniment {
		return "accompaniment"
	}
	return "melody"
}

func (p Part) Other() Part {
	if p == Melody {
		return Accompaniment
	}
	return Melody
}

func ParsePart(s string) (Part, bool) {
	switch s {
	case "melody", "m", "0":
		return Melody, true
	case "accompaniment", "accomp", "a", "1":
		return Accompaniment, true
	}
	return Melody, false
}
