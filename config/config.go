// Package config holds the playback settings supplied by the environment.
// Values come from defaults, then NOTEFALL_* environment variables, then
// command line flags. A tempo given in either place replaces the tempo a
// song was stored with.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/pitch"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const envPrefix = "NOTEFALL_"

type Config struct {
	Tempo     float64
	Speed     float64
	// set when Tempo came from the environment or a flag; it then replaces
	// the tempo stored with a song
	TempoOverride bool
	WaitMode  bool
	Part      model.Part
	HalfSpeed bool
	Demo      bool

	TickRate       float64
	Threshold      float64
	Window         float64
	ChordTolerance float64
	GraceTicks     int
	Range          pitch.Range
}

func Default() Config {
	return Config{
		Tempo:          constants.DefaultTempo,
		Speed:          constants.DefaultSpeed,
		WaitMode:       true,
		Part:           model.Melody,
		TickRate:       constants.DefaultTickRate,
		Threshold:      constants.DefaultThreshold,
		Window:         constants.DefaultJudgmentWindow,
		ChordTolerance: constants.DefaultChordTolerance,
		GraceTicks:     constants.DefaultGraceTicks,
		Range:          pitch.Range{Low: constants.DefaultRangeLow, High: constants.DefaultRangeHigh},
	}
}

// Load returns the defaults overridden by the process environment.
func Load() (Config, error) {
	c := Default()
	err := c.ApplyEnv(os.LookupEnv)
	return c, err
}

func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	floats := map[string]*float64{
		"TEMPO":           &c.Tempo,
		"SPEED":           &c.Speed,
		"TICK_RATE":       &c.TickRate,
		"THRESHOLD":       &c.Threshold,
		"WINDOW":          &c.Window,
		"CHORD_TOLERANCE": &c.ChordTolerance,
	}
	for name, dst := range floats {
		if v, ok := lookup(envPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return errors.Wrapf(err, "%s%s", envPrefix, name)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"WAIT":       &c.WaitMode,
		"HALF_SPEED": &c.HalfSpeed,
		"DEMO":       &c.Demo,
	}
	for name, dst := range bools {
		if v, ok := lookup(envPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrapf(err, "%s%s", envPrefix, name)
			}
			*dst = b
		}
	}

	ints := map[string]*int{
		"GRACE_TICKS": &c.GraceTicks,
		"RANGE_LOW":   &c.Range.Low,
		"RANGE_HIGH":  &c.Range.High,
	}
	for name, dst := range ints {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrapf(err, "%s%s", envPrefix, name)
			}
			*dst = n
		}
	}

	if _, ok := lookup(envPrefix + "TEMPO"); ok {
		c.TempoOverride = true
	}

	if v, ok := lookup(envPrefix + "PART"); ok {
		p, ok := model.ParsePart(strings.TrimSpace(v))
		if !ok {
			return errors.Errorf("%sPART: unknown part %q", envPrefix, v)
		}
		c.Part = p
	}
	return nil
}

type partValue struct {
	p *model.Part
}

func (v partValue) String() string {
	if v.p == nil {
		return model.Melody.String()
	}
	return v.p.String()
}

func (v partValue) Set(s string) error {
	p, ok := model.ParsePart(s)
	if !ok {
		return errors.Errorf("unknown part %q, want melody or accompaniment", s)
	}
	*v.p = p
	return nil
}

func (v partValue) Type() string {
	return "part"
}

type tempoValue struct {
	c *Config
}

func (v tempoValue) String() string {
	if v.c == nil {
		return strconv.FormatFloat(constants.DefaultTempo, 'g', -1, 64)
	}
	return strconv.FormatFloat(v.c.Tempo, 'g', -1, 64)
}

func (v tempoValue) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid tempo %q", s)
	}
	v.c.Tempo = f
	v.c.TempoOverride = true
	return nil
}

func (v tempoValue) Type() string {
	return "float64"
}

// BindFlags registers flags for the playback settings, using the current
// values of c as defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.Var(tempoValue{c}, "tempo", "tempo in beats per minute, overrides the song tempo")
	fs.Float64Var(&c.Speed, "speed", c.Speed, "note fall speed in units per frame")
	fs.BoolVar(&c.WaitMode, "wait", c.WaitMode, "wait for the player before notes cross the threshold")
	fs.Var(partValue{&c.Part}, "part", "part played by the player: melody or accompaniment")
	fs.BoolVar(&c.HalfSpeed, "half-speed", c.HalfSpeed, "play at half speed")
	fs.BoolVar(&c.Demo, "demo", c.Demo, "autoplay both parts")
	fs.Float64Var(&c.TickRate, "tick-rate", c.TickRate, "simulation frames per second")
	fs.IntVar(&c.Range.Low, "range-low", c.Range.Low, "lowest encoded pitch")
	fs.IntVar(&c.Range.High, "range-high", c.Range.High, "highest encoded pitch")
}

func (c Config) Validate() error {
	switch {
	case c.Tempo <= 0:
		return errors.Errorf("tempo must be positive, got %v", c.Tempo)
	case c.Speed <= 0:
		return errors.Errorf("speed must be positive, got %v", c.Speed)
	case c.TickRate <= 0:
		return errors.Errorf("tick rate must be positive, got %v", c.TickRate)
	case c.Threshold <= 0:
		return errors.Errorf("threshold must be positive, got %v", c.Threshold)
	case c.Window < 0 || c.ChordTolerance < 0:
		return errors.New("judgment window and chord tolerance must not be negative")
	case c.GraceTicks < 0:
		return errors.Errorf("grace ticks must not be negative, got %d", c.GraceTicks)
	}
	return c.Range.Validate()
}

// PlaybackTempo is the tempo a song is played at: its own tempo if it has
// one and no tempo was given explicitly, halved in half speed mode.
func (c Config) PlaybackTempo(songTempo float64) float64 {
	tempo := c.Tempo
	if songTempo > 0 && !c.TempoOverride {
		tempo = songTempo
	}
	if c.HalfSpeed {
		tempo /= 2
	}
	return tempo
}

// PlaybackSpeed halves with the tempo so note spacing stays the same.
func (c Config) PlaybackSpeed() float64 {
	if c.HalfSpeed {
		return c.Speed / 2
	}
	return c.Speed
}
