package rotation

import (
	"fmt"
	"sort"

	"github.com/etnz/rotation/date"
)

// Weights blends the three candidate sub-scores. They may be any
// non-negative reals; Score renormalizes them to sum to 1, and treats
// all-zero as equal weights.
type Weights struct {
	Yield     float64
	Liquidity float64
	Proximity float64
}

// DefaultWeights favors yield, then proximity, then liquidity.
func DefaultWeights() Weights { return Weights{Yield: 0.4, Liquidity: 0.25, Proximity: 0.35} }

func (w Weights) normalize() (Weights, error) {
	if w.Yield < 0 || w.Liquidity < 0 || w.Proximity < 0 {
		return Weights{}, fmt.Errorf("negative scoring weight %+v", w)
	}
	sum := w.Yield + w.Liquidity + w.Proximity
	if sum == 0 {
		// All zero is defined as "no preference": equal thirds.
		return Weights{Yield: 1. / 3, Liquidity: 1. / 3, Proximity: 1. / 3}, nil
	}
	return Weights{Yield: w.Yield / sum, Liquidity: w.Liquidity / sum, Proximity: w.Proximity / sum}, nil
}

// Score ranks the instrument universe by the weighted blend of normalized
// yield, liquidity and ex-date proximity.
//
// Yield and liquidity are min-max normalized over the candidate set; a
// dimension where all candidates tie scores 1.0 for everyone. Proximity is
// 1 - days/lookaheadDays clamped to [0,1], with 0 for unknown, past, or
// boundary ex-dates. Output is sorted descending by composite score, ties
// broken by input order, so two runs over the same snapshot rank
// identically.
func Score(instruments []Instrument, w Weights, lookaheadDays int, today date.Date) ([]ScoredCandidate, error) {
	if len(instruments) == 0 {
		return nil, ErrEmptyUniverse
	}
	wn, err := w.normalize()
	if err != nil {
		return nil, err
	}

	yields := make([]float64, len(instruments))
	volumes := make([]float64, len(instruments))
	for i, in := range instruments {
		yields[i] = in.Yield
		volumes[i] = in.AvgVolume
	}
	yieldOf := minMax(yields)
	liquidityOf := minMax(volumes)

	scored := make([]ScoredCandidate, len(instruments))
	for i, in := range instruments {
		c := ScoredCandidate{Instrument: in}
		c.YieldScore = yieldOf(in.Yield)
		c.LiquidityScore = liquidityOf(in.AvgVolume)
		c.ProximityScore = proximity(in, lookaheadDays, today)
		c.Composite = wn.Yield*c.YieldScore + wn.Liquidity*c.LiquidityScore + wn.Proximity*c.ProximityScore
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Composite > scored[j].Composite })
	return scored, nil
}

// TopK returns the first k candidates of an already ranked list.
func TopK(candidates []ScoredCandidate, k int) []ScoredCandidate {
	if k < 0 {
		k = 0
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k]
}

// minMax returns the min-max normalizer for one dimension of the candidate
// set. A degenerate dimension (all values equal) maps everything to 1.0:
// "all tied" reads as "all maximal".
func minMax(values []float64) func(float64) float64 {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return func(float64) float64 { return 1.0 }
	}
	span := hi - lo
	return func(v float64) float64 {
		n := (v - lo) / span
		if n < 0 {
			return 0
		}
		if n > 1 {
			return 1
		}
		return n
	}
}

// proximity scores how soon the next ex-date falls: 1.0 today, linearly down
// to 0.0 at the lookahead boundary. Unknown, past, or out-of-window ex-dates
// score 0.
func proximity(in Instrument, lookaheadDays int, today date.Date) float64 {
	if !in.HasUpcomingDividend() || lookaheadDays <= 0 {
		return 0
	}
	days := today.DaysUntil(in.NextExDate)
	if days < 0 || days >= lookaheadDays {
		return 0
	}
	return 1 - float64(days)/float64(lookaheadDays)
}
