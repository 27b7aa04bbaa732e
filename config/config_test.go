package config

import (
	"testing"

	"github.com/jsphweid/notefall/model"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c := Default()

	assert := assert.New(t)
	assert.Equal(100.0, c.Tempo)
	assert.Equal(4.0, c.Speed)
	assert.True(c.WaitMode)
	assert.Equal(model.Melody, c.Part)
	assert.False(c.HalfSpeed)
	assert.NoError(c.Validate())
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(env(map[string]string{
		"NOTEFALL_TEMPO":      "120",
		"NOTEFALL_WAIT":       "false",
		"NOTEFALL_PART":       "accompaniment",
		"NOTEFALL_HALF_SPEED": "1",
		"NOTEFALL_RANGE_LOW":  "48",
	}))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(120.0, c.Tempo)
	assert.True(c.TempoOverride)
	assert.False(c.WaitMode)
	assert.Equal(model.Accompaniment, c.Part)
	assert.True(c.HalfSpeed)
	assert.Equal(48, c.Range.Low)
}

func TestApplyEnvErrors(t *testing.T) {
	for _, bad := range []map[string]string{
		{"NOTEFALL_TEMPO": "fast"},
		{"NOTEFALL_WAIT": "maybe"},
		{"NOTEFALL_PART": "drums"},
		{"NOTEFALL_GRACE_TICKS": "1.5"},
	} {
		c := Default()
		assert.Error(t, c.ApplyEnv(env(bad)), "%v", bad)
	}
}

func TestBindFlags(t *testing.T) {
	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"--tempo=90", "--wait=false", "--part", "accomp", "--demo"}))

	assert := assert.New(t)
	assert.Equal(90.0, c.Tempo)
	assert.True(c.TempoOverride)
	assert.False(c.WaitMode)
	assert.Equal(model.Accompaniment, c.Part)
	assert.True(c.Demo)

	assert.Error(fs.Parse([]string{"--part", "drums"}))
	assert.Error(fs.Parse([]string{"--tempo", "fast"}))
}

func TestExplicitTempoBeatsSongTempo(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	assert.False(c.TempoOverride)
	assert.Equal(180.0, c.PlaybackTempo(180))

	require.NoError(t, c.ApplyEnv(env(map[string]string{"NOTEFALL_TEMPO": "70"})))
	assert.Equal(70.0, c.PlaybackTempo(180))

	c = Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--tempo", "60"}))
	assert.Equal(60.0, c.PlaybackTempo(180))

	c.HalfSpeed = true
	assert.Equal(30.0, c.PlaybackTempo(180))
}

func TestUnchangedTempoFlagKeepsSongTempo(t *testing.T) {
	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--speed", "2"}))

	assert.False(t, c.TempoOverride)
	assert.Equal(t, 180.0, c.PlaybackTempo(180))
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Speed = 0
	assert.Error(t, c.Validate())

	c = Default()
	c.Range.High = c.Range.Low + 3
	assert.Error(t, c.Validate())
}

func TestHalfSpeed(t *testing.T) {
	c := Default()
	assert.Equal(t, 180.0, c.PlaybackTempo(180))
	assert.Equal(t, 100.0, c.PlaybackTempo(0))

	c.HalfSpeed = true
	assert.Equal(t, 90.0, c.PlaybackTempo(180))
	assert.Equal(t, 2.0, c.PlaybackSpeed())
}
