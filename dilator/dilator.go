// Package dilator implements wait mode: it slows the simulation so that no
// interactive note crosses the judgment threshold before it is resolved.
package dilator

import "github.com/jsphweid/notefall/util"

// EffectiveDelta limits raw so that no note with the given distances to the
// threshold moves past it at speed units per frame. Distances already past
// the threshold count as zero.
func EffectiveDelta(raw, speed float64, distances []float64) float64 {
	if raw <= 0 {
		return 0
	}
	if speed <= 0 || len(distances) == 0 {
		return raw
	}
	nearest := util.Max(distances[0], 0)
	for _, d := range distances[1:] {
		nearest = util.Min(nearest, util.Max(d, 0))
	}
	return util.Min(raw, nearest/speed)
}

type Dilator struct {
	Enabled bool
	Speed   float64
}

// Delta is EffectiveDelta when wait mode is on and raw otherwise.
func (d Dilator) Delta(raw float64, distances []float64) float64 {
	if !d.Enabled {
		return util.Max(raw, 0)
	}
	return EffectiveDelta(raw, d.Speed, distances)
}
