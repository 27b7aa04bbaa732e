package pitch

import "github.com/pkg/errors"

// Range is an inclusive pitch window.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Validate rejects ranges that cannot hold every pitch class, since Clip
// would never converge for them.
func (r Range) Validate() error {
	if r.High-r.Low < 11 {
		return errors.Errorf("pitch range %d..%d spans less than an octave", r.Low, r.High)
	}
	return nil
}

func (r Range) Contains(p int) bool {
	return p >= r.Low && p <= r.High
}

// Clip moves p into the range by whole octaves.
func (r Range) Clip(p int) int {
	if r.Contains(p) {
		return p
	}
	for p < r.Low {
		p += 12
	}
	for p > r.High {
		p -= 12
	}
	return p
}
