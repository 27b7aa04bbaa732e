package constants

import "os"

func GetSongDir() string {
	path := os.Getenv("SONG_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "notefall-songs"
}

const SongsFilename = "songs.dat"

// gaps shorter than this (in eighth notes) are jitter, not rests
const NoiseFloor = 0.05

// how far from an integer a scaled duration may be and still count as one
const IntegralTolerance = 0.05

var Multipliers = []int{1, 2, 3, 4}

// smallest interval a playhead will wait, in frames
const MinInterval = 1e-3

const (
	DefaultTempo          = 100.0
	DefaultSpeed          = 4.0
	DefaultTickRate       = 60.0
	DefaultThreshold      = 600.0
	DefaultJudgmentWindow = 40.0
	DefaultChordTolerance = 8.0
	DefaultGraceTicks     = 60
	DefaultRangeLow       = 36
	DefaultRangeHigh      = 96
)
