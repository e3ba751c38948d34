package models

import "math"

const defaultGapText = "Analisis gap belum tersedia"

// OccupationCandidate is one ranked taxonomy entry returned by the match service.
type OccupationCandidate struct {
	ID    string  `json:"id"`
	Nama  string  `json:"nama"`
	Score float64 `json:"score"`
	Gap   string  `json:"gap"`
}

// MatchPercent renders the [0,1] score as a rounded percentage.
func (o OccupationCandidate) MatchPercent() int {
	return int(math.Round(o.Score * 100))
}

// GapText returns the skill gap, or a placeholder when the service sent none.
func (o OccupationCandidate) GapText() string {
	if o.Gap == "" {
		return defaultGapText
	}
	return o.Gap
}
