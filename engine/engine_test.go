package engine

import (
	"testing"

	"github.com/jsphweid/notefall/config"
	"github.com/jsphweid/notefall/model"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	spawns   []SpawnEvent
	hits     []HitEvent
	misses   []MissEvent
	finished int
}

func (r *recorder) Spawn(e SpawnEvent) { r.spawns = append(r.spawns, e) }
func (r *recorder) Hit(e HitEvent)     { r.hits = append(r.hits, e) }
func (r *recorder) Miss(e MissEvent)   { r.misses = append(r.misses, e) }
func (r *recorder) Finished()          { r.finished++ }

// at tempo 150 and 60 frames a second a unit lasts 12 frames, and a note
// needs 10 frames to fall to the threshold
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Tempo = 150
	cfg.Speed = 4
	cfg.Threshold = 40
	cfg.Window = 8
	cfg.ChordTolerance = 2
	cfg.GraceTicks = 3
	return cfg
}

func newEngine(t *testing.T, chart Chart, cfg config.Config) (*Engine, *recorder) {
	rec := &recorder{}
	e, err := New(chart, cfg, rec)
	assert.NoError(t, err)
	e.Start()
	return e, rec
}

func TestWaitModeHoldsNoteAtThreshold(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{Melody: model.Track{model.NewNote(60, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, testConfig())

	for i := 0; i < 100; i++ {
		e.Step(1)
		for _, n := range e.Active() {
			assert.LessOrEqual(n.Position, 40.0)
		}
	}
	assert.Len(rec.spawns, 1)
	assert.False(rec.spawns[0].Autoplay)
	active := e.Active()
	assert.Len(active, 1)
	assert.Equal(40.0, active[0].Position)
	assert.Equal(0.0, e.Step(1))
	assert.Empty(rec.misses)
	assert.Equal(Playing, e.State())

	assert.False(e.Press(61))
	assert.True(e.Press(60))
	assert.Len(rec.hits, 1)
	assert.False(rec.hits[0].Autoplay)
	assert.Equal(1, e.Stats().Hits)

	for i := 0; i < 10; i++ {
		e.Step(1)
	}
	assert.Equal(1, rec.finished)
	assert.Equal(Idle, e.State())
}

func TestWaitModeHoldsNotesThroughLongStep(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{
		Melody: model.Track{model.NewNote(60, 1), model.NewNote(62, 1), model.NewNote(64, 1)},
		Tempo:  150,
	}
	e, rec := newEngine(t, chart, testConfig())

	// three units of frames at once; only the first note may reach the
	// threshold and nothing may spawn behind it while it waits
	assert.Equal(10.0, e.Step(30))
	active := e.Active()
	assert.Len(active, 1)
	assert.Equal(60, active[0].Lane)
	assert.Equal(40.0, active[0].Position)
	assert.Len(rec.spawns, 1)

	assert.False(e.Press(62))
	assert.False(e.Press(64))
	assert.True(e.Press(60))

	assert.Equal(12.0, e.Step(30))
	active = e.Active()
	assert.Len(active, 1)
	assert.Equal(62, active[0].Lane)
	assert.Equal(40.0, active[0].Position)
	assert.False(e.Press(64))
	assert.True(e.Press(62))

	for i := 0; i < 10; i++ {
		e.Step(30)
		for _, n := range e.Active() {
			assert.LessOrEqual(n.Position, 40.0)
		}
		for _, n := range e.Active() {
			e.Press(n.Lane)
		}
	}
	assert.Equal(Stats{Spawned: 3, Hits: 3}, e.Stats())
	assert.Equal(1, rec.finished)
}

func TestGraceCountsStepsNotSlices(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{Melody: model.Track{model.NewNote(60, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, testConfig())

	e.Step(30)
	assert.True(e.Press(60))
	for i := 0; i < 3; i++ {
		e.Step(30)
	}
	assert.Equal(0, rec.finished)
	e.Step(30)
	assert.Equal(1, rec.finished)
}

func TestMissWithoutWaitMode(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	cfg.WaitMode = false
	chart := Chart{Melody: model.Track{model.NewNote(60, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, cfg)

	for i := 0; i < 12; i++ {
		e.Step(1)
	}
	assert.Empty(rec.misses)
	e.Step(1)
	assert.Len(rec.misses, 1)
	assert.Equal(60, rec.misses[0].Lane)
	assert.Empty(e.Active())

	for i := 0; i < 10; i++ {
		e.Step(1)
	}
	assert.Equal(1, rec.finished)
	assert.Equal(Stats{Spawned: 1, Misses: 1}, e.Stats())
}

func TestEarlyPressInsideWindow(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{Melody: model.Track{model.NewNote(60, 1)}, Tempo: 150}
	e, _ := newEngine(t, chart, testConfig())

	for i := 0; i < 8; i++ {
		e.Step(1)
	}
	// position 32 is 8 away from the threshold, right at the window edge
	assert.True(e.Press(60))
}

func TestUnmatchedPressChangesNothing(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{Melody: model.Track{model.NewNote(60, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, testConfig())

	e.Step(1)
	assert.False(e.Press(60))
	assert.Empty(rec.hits)
	assert.Empty(rec.misses)
	assert.Len(e.Active(), 1)
	assert.Equal(Stats{Spawned: 1}, e.Stats())
}

func TestDemoAutoplaysEverything(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	cfg.Demo = true
	chart := Chart{
		Melody:        model.Track{model.NewNote(72, 1), model.NewRest(1), model.NewNote(74, 1)},
		Accompaniment: model.Track{model.NewNote(48, 2)},
		Tempo:         150,
	}
	e, rec := newEngine(t, chart, cfg)

	for i := 0; i < 200; i++ {
		e.Step(1)
	}
	assert.Len(rec.spawns, 3)
	assert.Len(rec.hits, 3)
	for _, h := range rec.hits {
		assert.True(h.Autoplay)
	}
	assert.Empty(rec.misses)
	assert.Equal(1, rec.finished)
	assert.Equal(Stats{Spawned: 3, Autoplayed: 3}, e.Stats())
}

func TestOtherPartIsAutoplayed(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{
		Melody:        model.Track{model.NewNote(72, 4)},
		Accompaniment: model.Track{model.NewNote(48, 1)},
		Tempo:         150,
	}
	e, rec := newEngine(t, chart, testConfig())

	for i := 0; i < 20; i++ {
		e.Step(1)
	}
	assert.Len(rec.hits, 1)
	assert.Equal(48, rec.hits[0].Pitch)
	assert.True(rec.hits[0].Autoplay)
	assert.True(e.Press(72))
}

func TestSpawnOffsetCarriesOverflow(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	cfg.Threshold = 600
	chart := Chart{Melody: model.Track{model.NewNote(60, 1), model.NewNote(62, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, cfg)

	e.Step(5)
	e.Step(10)
	assert.Len(rec.spawns, 2)
	assert.Equal(5.0, rec.spawns[0].Offset)
	assert.Equal(3.0, rec.spawns[1].Offset)

	active := e.Active()
	assert.Equal(60.0, active[0].Position)
	assert.Equal(12.0, active[1].Position)
}

func TestResetClearsEverything(t *testing.T) {
	assert := assert.New(t)
	chart := Chart{Melody: model.Track{model.NewNote(60, 1), model.NewNote(62, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, testConfig())

	for i := 0; i < 15; i++ {
		e.Step(1)
	}
	assert.NotEmpty(e.Active())

	e.Reset()
	assert.Empty(e.Active())
	assert.Equal(Idle, e.State())
	assert.Equal(Stats{}, e.Stats())
	assert.Equal(0.0, e.Step(1))

	e.Start()
	e.Step(1)
	assert.Len(e.Active(), 1)
	assert.Equal(uint64(0), e.Active()[0].ID)
	// the held first note kept the second from spawning before the reset
	assert.Len(rec.spawns, 2)
}

func TestHalfSpeed(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	cfg.HalfSpeed = true
	cfg.WaitMode = false
	cfg.Threshold = 600
	chart := Chart{Melody: model.Track{model.NewNote(60, 1), model.NewNote(62, 1)}, Tempo: 150}
	e, rec := newEngine(t, chart, cfg)

	// a unit now lasts 24 frames and notes move 2 per frame
	for i := 0; i < 23; i++ {
		e.Step(1)
	}
	assert.Len(rec.spawns, 1)
	e.Step(1)
	assert.Len(rec.spawns, 2)
	active := e.Active()
	assert.Equal(48.0, active[0].Position)
	assert.Equal(0.0, active[1].Position)
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Speed = 0
	_, err := New(Chart{Tempo: 150}, cfg, nil)
	assert.Error(t, err)
}
