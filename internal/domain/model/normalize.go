package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeJSON turns one raw player-rank record into an Entry.
// Missing or non-numeric fields become their zero value so a malformed
// record still produces a visible row.
func NormalizeJSON(raw []byte) Entry {
	return normalize(gjson.ParseBytes(raw))
}

// NormalizeArray normalizes every element of a JSON array of records.
// A value that is not an array yields an empty (non-nil) slice.
func NormalizeArray(arr gjson.Result) []Entry {
	if !arr.IsArray() {
		return []Entry{}
	}
	out := make([]Entry, 0, int(arr.Get("#").Int()))
	arr.ForEach(func(_, v gjson.Result) bool {
		out = append(out, normalize(v))
		return true
	})
	return out
}

func normalize(r gjson.Result) Entry {
	if !r.IsObject() {
		return Entry{}
	}
	return Entry{
		ID:         textField(r.Get("id")),
		Name:       textField(r.Get("name")),
		Rank:       intField(r.Get("rank")),
		MMR:        numberField(r.Get("mmr")),
		PeakMMR:    numberField(r.Get("peak_mmr")),
		Wins:       intField(r.Get("wins")),
		Losses:     intField(r.Get("losses")),
		TotalGames: intField(r.Get("totalgames")),
		WinRate:    numberField(r.Get("winrate")),
		Streak:     intField(r.Get("streak")),
	}
}

// textField accepts strings and numbers (ids are often numeric upstream).
func textField(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

func numberField(r gjson.Result) float64 {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		f = v
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// maxSafeInt bounds integer fields to values a float64 represents exactly.
const maxSafeInt = 1 << 53

func intField(r gjson.Result) int {
	f := numberField(r)
	if f > maxSafeInt || f < -maxSafeInt {
		return 0
	}
	return int(f)
}
