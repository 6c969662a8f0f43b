package fixtures

import (
	"bytes"
	"fmt"

	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/tidwall/sjson"
)

// damage kinds applied to malformed records.
const (
	damageStringMMR = iota
	damageMissingWins
	damageNullWinRate
	damageStringStreak
	damageMissingName
	damageCount
)

// Encode renders ds as a dataset document. A fraction malformed of the
// records gets one damaged field; the number of damaged records is returned.
func (g *Generator) Encode(ds repository.Dataset, malformed float64) ([]byte, int, error) {
	doc := []byte(`{}`)
	damaged := 0
	for _, ch := range model.Channels() {
		var arr bytes.Buffer
		arr.WriteByte('[')
		for i, e := range ds[ch] {
			rec, err := encodeEntry(e)
			if err != nil {
				return nil, 0, fmt.Errorf("encode %s[%d]: %w", ch, i, err)
			}
			if malformed > 0 && g.rng.Float64() < malformed {
				if rec, err = damage(rec, g.rng.IntN(damageCount)); err != nil {
					return nil, 0, fmt.Errorf("damage %s[%d]: %w", ch, i, err)
				}
				damaged++
			}
			if i > 0 {
				arr.WriteByte(',')
			}
			arr.Write(rec)
		}
		arr.WriteByte(']')

		var err error
		if doc, err = sjson.SetRawBytes(doc, ch.String(), arr.Bytes()); err != nil {
			return nil, 0, fmt.Errorf("encode %s: %w", ch, err)
		}
	}
	return doc, damaged, nil
}

func encodeEntry(e model.Entry) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"id", e.ID},
		{"name", e.Name},
		{"rank", e.Rank},
		{"mmr", e.MMR},
		{"peak_mmr", e.PeakMMR},
		{"wins", e.Wins},
		{"losses", e.Losses},
		{"totalgames", e.TotalGames},
		{"winrate", e.WinRate},
		{"streak", e.Streak},
	}
	rec := []byte(`{}`)
	for _, f := range fields {
		var err error
		if rec, err = sjson.SetBytes(rec, f.path, f.value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func damage(rec []byte, kind int) ([]byte, error) {
	switch kind {
	case damageStringMMR:
		return sjson.SetBytes(rec, "mmr", "n/a")
	case damageMissingWins:
		return sjson.DeleteBytes(rec, "wins")
	case damageNullWinRate:
		return sjson.SetRawBytes(rec, "winrate", []byte("null"))
	case damageStringStreak:
		return sjson.SetBytes(rec, "streak", "hot")
	default:
		return sjson.DeleteBytes(rec, "name")
	}
}
