package model

// ActiveNote is a spawned note travelling toward the judgment threshold.
type ActiveNote struct {
	ID          uint64
	Part        Part
	Pitch       int
	Lane        int
	Duration    float64
	SpawnTick   uint64
	Interactive bool

	// distance travelled from the spawn line, same unit as the threshold
	Position float64
}

func (n ActiveNote) Distance(threshold float64) float64 {
	return threshold - n.Position
}

// LaneForPitch maps a pitch to its input lane. Lanes are pitch indexed.
func LaneForPitch(pitch int) int {
	return pitch
}
