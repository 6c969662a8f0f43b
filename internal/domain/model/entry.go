// Package model contains domain models passed between layers.
package model

// Entry is one player's standing within one dataset.
// Rank is assigned upstream and is never recomputed here.
type Entry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Rank       int     `json:"rank"`
	MMR        float64 `json:"mmr"`
	PeakMMR    float64 `json:"peak_mmr"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalGames int     `json:"totalgames"`
	WinRate    float64 `json:"winrate"` // fraction in [0,1]
	Streak     int     `json:"streak"`  // >0 wins in a row, <0 losses in a row
}
