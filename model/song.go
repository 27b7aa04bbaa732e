package model

// Song is the persisted unit: both parts in encoded text plus the tempo they
// should be played at.
type Song struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Tempo         float64 `json:"tempo"`
	Multiplier    int     `json:"multiplier"`
	Melody        string  `json:"melody"`
	Accompaniment string  `json:"accompaniment"`
}

func (s Song) Text(p Part) string {
	if p == Accompaniment {
		return s.Accompaniment
	}
	return s.Melody
}

type SongOverview struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Tempo float64 `json:"tempo"`
}

func (s Song) Overview() SongOverview {
	return SongOverview{ID: s.ID, Title: s.Title, Tempo: s.Tempo}
}
