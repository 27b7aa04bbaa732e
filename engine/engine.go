// Package engine runs a song: it advances the sequencer once per frame,
// moves the notes in flight toward the threshold and resolves them as hits,
// autoplayed notes or misses.
package engine

import (
	"github.com/jsphweid/notefall/config"
	"github.com/jsphweid/notefall/dilator"
	"github.com/jsphweid/notefall/judge"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/sequencer"
	"github.com/jsphweid/notefall/util"
)

type State uint8

const (
	Idle State = iota
	Playing
	Finishing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Finishing:
		return "finishing"
	}
	return "idle"
}

type Chart struct {
	Melody        model.Track
	Accompaniment model.Track
	Tempo         float64
}

type Stats struct {
	Spawned    int
	Hits       int
	Misses     int
	Autoplayed int
}

// Engine is not safe for concurrent use. Step, Press, Start and Reset must
// all be called from the same loop.
type Engine struct {
	cfg      config.Config
	seq      *sequencer.Sequencer
	dilator  dilator.Dilator
	judge    judge.Judge
	listener Listener
	speed    float64

	active []model.ActiveNote
	state  State
	tick   uint64
	nextID uint64
	grace  int
	stats  Stats
}

func New(chart Chart, cfg config.Config, listener Listener) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seq, err := sequencer.New(chart.Melody, chart.Accompaniment, cfg.PlaybackTempo(chart.Tempo), cfg.TickRate)
	if err != nil {
		return nil, err
	}
	if listener == nil {
		listener = ListenerFuncs{}
	}
	speed := cfg.PlaybackSpeed()
	return &Engine{
		cfg:      cfg,
		seq:      seq,
		dilator:  dilator.Dilator{Enabled: cfg.WaitMode && !cfg.Demo, Speed: speed},
		judge:    judge.Judge{Window: cfg.Window, ChordTolerance: cfg.ChordTolerance},
		listener: listener,
		speed:    speed,
	}, nil
}

// Reset stops playback and clears the playheads, the notes in flight and
// the statistics in one go.
func (e *Engine) Reset() {
	e.seq.Reset()
	e.active = nil
	e.state = Idle
	e.tick = 0
	e.nextID = 0
	e.grace = 0
	e.stats = Stats{}
}

func (e *Engine) Start() {
	e.Reset()
	e.state = Playing
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) Tick() uint64 {
	return e.tick
}

func (e *Engine) Active() []model.ActiveNote {
	res := make([]model.ActiveNote, len(e.active))
	copy(res, e.active)
	return res
}

func (e *Engine) interactive(p model.Part) bool {
	return !e.cfg.Demo && p == e.cfg.Part
}

func (e *Engine) distances() []float64 {
	var res []float64
	for _, n := range e.active {
		if n.Interactive {
			res = append(res, n.Distance(e.cfg.Threshold))
		}
	}
	return res
}

// Step advances the simulation by raw frames and returns how far it really
// moved, which is less than raw while wait mode holds a note back.
//
// In wait mode a long step is taken in slices no longer than a note needs
// to fall from the spawn line to the threshold, so notes spawned during the
// step are held back like the ones already in flight.
func (e *Engine) Step(raw float64) float64 {
	if e.state == Idle {
		return 0
	}
	e.tick++
	var moved float64
	if e.dilator.Enabled {
		slice := e.cfg.Threshold / e.speed
		for raw > 0 {
			want := util.Min(raw, slice)
			eff := e.advance(want)
			moved += eff
			raw -= want
			if eff < want {
				break
			}
		}
	} else {
		moved = e.advance(raw)
	}
	e.checkFinished()
	return moved
}

func (e *Engine) advance(raw float64) float64 {
	eff := e.dilator.Delta(raw, e.distances())

	threshold := e.cfg.Threshold
	kept := e.active[:0]
	for _, n := range e.active {
		n.Position += eff * e.speed
		if n.Interactive {
			if e.dilator.Enabled && n.Position > threshold {
				n.Position = threshold
			}
			if n.Position > threshold+e.cfg.Window {
				e.stats.Misses++
				e.listener.Miss(MissEvent{ID: n.ID, Pitch: n.Pitch, Lane: n.Lane})
				continue
			}
		} else if n.Position >= threshold {
			e.stats.Autoplayed++
			e.listener.Hit(HitEvent{ID: n.ID, Pitch: n.Pitch, Lane: n.Lane, Position: n.Position, Autoplay: true})
			continue
		}
		kept = append(kept, n)
	}
	e.active = kept

	for _, sp := range e.seq.Advance(eff) {
		e.spawn(sp)
	}
	return eff
}

func (e *Engine) spawn(sp sequencer.Spawn) {
	interactive := e.interactive(sp.Part)
	n := model.ActiveNote{
		ID:          e.nextID,
		Part:        sp.Part,
		Pitch:       sp.Pitch,
		Lane:        model.LaneForPitch(sp.Pitch),
		Duration:    sp.Duration,
		SpawnTick:   e.tick,
		Interactive: interactive,
		Position:    sp.Offset * e.speed,
	}
	if interactive && e.dilator.Enabled && n.Position > e.cfg.Threshold {
		n.Position = e.cfg.Threshold
	}
	e.nextID++
	e.active = append(e.active, n)
	e.stats.Spawned++
	e.listener.Spawn(SpawnEvent{
		ID:       n.ID,
		Part:     n.Part,
		Pitch:    n.Pitch,
		Lane:     n.Lane,
		Duration: n.Duration,
		Offset:   sp.Offset,
		Autoplay: !interactive,
	})
}

func (e *Engine) checkFinished() {
	if e.state == Playing && e.seq.Done() && len(e.active) == 0 {
		e.state = Finishing
		e.grace = e.cfg.GraceTicks
	}
	if e.state != Finishing {
		return
	}
	if e.grace > 0 {
		e.grace--
		return
	}
	e.state = Idle
	e.listener.Finished()
}

// Press judges a press of lane. A press that matches nothing changes
// nothing; there is no penalty for it.
func (e *Engine) Press(lane int) bool {
	if e.state != Playing {
		return false
	}
	i, ok := e.judge.Match(lane, e.active, e.cfg.Threshold)
	if !ok {
		return false
	}
	n := e.active[i]
	e.active = append(e.active[:i], e.active[i+1:]...)
	e.stats.Hits++
	e.listener.Hit(HitEvent{ID: n.ID, Pitch: n.Pitch, Lane: n.Lane, Position: n.Position})
	return true
}
