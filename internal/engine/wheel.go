// Package engine implements the weighted-random prize draw. The wheel is a
// pure function over its static weight table, a catalog snapshot and an
// injected random source, so it is fully deterministic under test.
package engine

import (
	"errors"

	"github.com/promokit/lucky-wheel/internal/domain"
)

// DefaultRetryCap bounds how many times an exhausted gift draw is re-rolled
// before the spin degrades to the no-win outcome.
const DefaultRetryCap = 10

// WeightedPrize is one segment of the wheel. Weights need not sum to 100;
// they are normalized against the running total at draw time.
type WeightedPrize struct {
	Value  string
	Weight float64
}

type Wheel struct {
	entries    []WeightedPrize
	cumulative []float64
	total      float64
	retryCap   int
}

var ErrEmptyTable = errors.New("weight table has no positive entries")

// NewWheel builds the cumulative distribution once. Entries with non-positive
// weights are rejected rather than skipped so a bad deploy fails loudly.
func NewWheel(entries []WeightedPrize, retryCap int) (*Wheel, error) {
	if retryCap <= 0 {
		retryCap = DefaultRetryCap
	}

	w := &Wheel{
		entries:    make([]WeightedPrize, 0, len(entries)),
		cumulative: make([]float64, 0, len(entries)),
		retryCap:   retryCap,
	}
	for _, e := range entries {
		if e.Weight <= 0 {
			return nil, errors.New("weight must be > 0 for " + e.Value)
		}
		w.total += e.Weight
		w.entries = append(w.entries, e)
		w.cumulative = append(w.cumulative, w.total)
	}
	if len(w.entries) == 0 {
		return nil, ErrEmptyTable
	}
	return w, nil
}

// Draw selects one prize value against a live catalog snapshot. rnd must
// return values in [0, 1).
//
// An exhausted gift is not removed from the distribution: the full table is
// simply re-rolled, up to the retry cap. This keeps the static table immutable
// and the draw O(attempts), at the cost of a small bias toward no-win when
// gift stock is broadly exhausted.
func (w *Wheel) Draw(catalog map[string]domain.Prize, rnd func() float64) string {
	for attempt := 0; attempt < w.retryCap; attempt++ {
		value := w.pick(rnd())

		prize, ok := catalog[value]
		if !ok {
			// Misconfigured segment: tolerate it as a losing spin.
			return domain.NoWinValue
		}

		if domain.IsGift(value) && prize.Stock != nil && *prize.Stock <= 0 {
			continue
		}
		return value
	}
	return domain.NoWinValue
}

// pick walks the cumulative list and returns the first entry whose cumulative
// weight exceeds the drawn point. The last entry absorbs any floating-point
// overrun past the total.
func (w *Wheel) pick(r float64) string {
	point := r * w.total
	for i, c := range w.cumulative {
		if point < c {
			return w.entries[i].Value
		}
	}
	return w.entries[len(w.entries)-1].Value
}

// RetryCap exposes the configured attempt bound.
func (w *Wheel) RetryCap() int {
	return w.retryCap
}
