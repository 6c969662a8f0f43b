package fixtures

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/pkg/logger"
)

// MMR tiers, weighted towards the middle of the ladder.
const (
	tierAverage = iota
	tierHigh
	tierLow
	tierElite
	tierNewcomer
	tierCount
)

type mmrRange struct{ min, span float64 }

var tiers = [tierCount]mmrRange{
	tierAverage:  {min: 1200, span: 600},
	tierHigh:     {min: 1800, span: 400},
	tierLow:      {min: 800, span: 400},
	tierElite:    {min: 2200, span: 600},
	tierNewcomer: {min: 500, span: 300},
}

// tierWeights must sum to 100.
var tierWeights = [tierCount]int{
	tierAverage:  45,
	tierHigh:     20,
	tierLow:      20,
	tierElite:    5,
	tierNewcomer: 10,
}

const (
	maxGames      = 400
	maxPeakBonus  = 250
	maxStreak     = 8
	baseWinRate   = 0.5
	winRateSpread = 0.00025 // per MMR point away from 1500
)

var (
	syllables = []string{"ka", "ri", "to", "mi", "zo", "an", "el", "ur", "shi", "no", "va", "lek", "dra", "fen", "quo"}
	suffixes  = []string{"", "", "", "_x", "99", "Pro", "TV", "ぴ", "ö"}
)

// Generator produces deterministic player lists for a seed.
type Generator struct {
	rng  *rand.Rand
	ids  *rand.ChaCha8
	seed uint64
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	ids := rand.NewChaCha8(key)
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ids:  ids,
		seed: seed,
	}
}

// Seed returns the generator seed.
func (g *Generator) Seed() uint64 { return g.seed }

// Dataset generates both channels.
func (g *Generator) Dataset(ctx context.Context, ranked, vanilla int) (repository.Dataset, error) {
	sizes := map[model.Channel]int{model.ChannelRanked: ranked, model.ChannelVanilla: vanilla}
	ds := repository.Dataset{}
	for _, ch := range model.Channels() {
		entries, err := g.Players(ctx, sizes[ch])
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", ch, err)
		}
		ds[ch] = entries
	}
	return ds, nil
}

// Players generates n players ranked by MMR, highest first.
func (g *Generator) Players(ctx context.Context, n int) ([]model.Entry, error) {
	out := make([]model.Entry, 0, max(0, n))
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		e, err := g.player()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b model.Entry) int {
		return cmp.Compare(b.MMR, a.MMR)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (g *Generator) player() (model.Entry, error) {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		return model.Entry{}, fmt.Errorf("player id: %w", err)
	}

	mmr := g.mmr()
	games := g.rng.IntN(maxGames + 1)
	rate := math.Max(0, math.Min(1, baseWinRate+(mmr-1500)*winRateSpread+(g.rng.Float64()-0.5)*0.1))
	wins := int(math.Round(float64(games) * rate))
	losses := games - wins

	var winRate float64
	if games > 0 {
		winRate = float64(wins) / float64(games)
	}

	return model.Entry{
		ID:         id.String(),
		Name:       g.name(),
		MMR:        math.Round(mmr*10) / 10,
		PeakMMR:    math.Round((mmr+g.rng.Float64()*maxPeakBonus)*10) / 10,
		Wins:       wins,
		Losses:     losses,
		TotalGames: games,
		WinRate:    winRate,
		Streak:     g.rng.IntN(2*maxStreak+1) - maxStreak,
	}, nil
}

func (g *Generator) mmr() float64 {
	roll := g.rng.IntN(100)
	for t, w := range tierWeights {
		if roll < w {
			return tiers[t].min + g.rng.Float64()*tiers[t].span
		}
		roll -= w
	}
	return tiers[tierAverage].min + g.rng.Float64()*tiers[tierAverage].span
}

func (g *Generator) name() string {
	var b strings.Builder
	parts := 2 + g.rng.IntN(2)
	for i := 0; i < parts; i++ {
		b.WriteString(syllables[g.rng.IntN(len(syllables))])
	}
	name := b.String()
	return strings.ToUpper(name[:1]) + name[1:] + suffixes[g.rng.IntN(len(suffixes))]
}

// logDataset reports channel sizes and the top player of each channel.
func logDataset(ctx context.Context, ds repository.Dataset, verbose bool) {
	for _, ch := range model.Channels() {
		entries := ds[ch]
		fields := []logger.Field{logger.String("channel", ch.String()), logger.Int("players", len(entries))}
		if verbose && len(entries) > 0 {
			fields = append(fields,
				logger.String("top", entries[0].Name),
				logger.Float64("topMMR", entries[0].MMR),
			)
		}
		logger.Get().Info(ctx, "generated channel", fields...)
	}
}
