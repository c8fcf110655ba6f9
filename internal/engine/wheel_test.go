package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promokit/lucky-wheel/internal/domain"
)

func stock(n int32) *int32 {
	return &n
}

func unlimitedCatalog() map[string]domain.Prize {
	return map[string]domain.Prize{
		"nothing": {Value: "nothing", Name: "Pas de gain"},
		"-10%":    {Value: "-10%", Name: "Bon -10%"},
		"CADEAU1": {Value: "CADEAU1", Name: "Mug", Stock: stock(1000)},
	}
}

func TestNewWheel_RejectsNonPositiveWeight(t *testing.T) {
	_, err := NewWheel([]WeightedPrize{{Value: "nothing", Weight: 0}}, 10)
	require.Error(t, err)

	_, err = NewWheel([]WeightedPrize{{Value: "nothing", Weight: -3}}, 10)
	require.Error(t, err)
}

func TestNewWheel_RejectsEmptyTable(t *testing.T) {
	_, err := NewWheel(nil, 10)
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestNewWheel_DefaultsRetryCap(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{{Value: "nothing", Weight: 1}}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRetryCap, w.RetryCap())
}

func TestDraw_DistributionConvergesToWeights(t *testing.T) {
	// Weights deliberately do not sum to 100.
	w, err := NewWheel([]WeightedPrize{
		{Value: "nothing", Weight: 50},
		{Value: "-10%", Weight: 30},
		{Value: "CADEAU1", Weight: 20},
	}, 10)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	catalog := unlimitedCatalog()

	const n = 200000
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		counts[w.Draw(catalog, rng.Float64)]++
	}

	assert.InDelta(t, 0.50, float64(counts["nothing"])/n, 0.01)
	assert.InDelta(t, 0.30, float64(counts["-10%"])/n, 0.01)
	assert.InDelta(t, 0.20, float64(counts["CADEAU1"])/n, 0.01)
}

func TestDraw_ExhaustedGiftNeverWins(t *testing.T) {
	// The gift dominates the table, yet with stock at zero it must never be
	// the outcome.
	w, err := NewWheel([]WeightedPrize{
		{Value: "CADEAU1", Weight: 95},
		{Value: "nothing", Weight: 5},
	}, 10)
	require.NoError(t, err)

	catalog := map[string]domain.Prize{
		"nothing": {Value: "nothing", Name: "Pas de gain"},
		"CADEAU1": {Value: "CADEAU1", Name: "Mug", Stock: stock(0)},
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		assert.NotEqual(t, "CADEAU1", w.Draw(catalog, rng.Float64))
	}
}

func TestDraw_RetryCapYieldsNoWin(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{{Value: "CADEAU1", Weight: 1}}, 10)
	require.NoError(t, err)

	catalog := map[string]domain.Prize{
		"CADEAU1": {Value: "CADEAU1", Name: "Mug", Stock: stock(0)},
	}

	calls := 0
	rnd := func() float64 {
		calls++
		return 0.5
	}

	assert.Equal(t, domain.NoWinValue, w.Draw(catalog, rnd))
	assert.Equal(t, 10, calls, "each attempt re-rolls the full table")
}

func TestDraw_UnlimitedGiftStockIsNotChecked(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{{Value: "CADEAU1", Weight: 1}}, 10)
	require.NoError(t, err)

	// nil stock means unlimited supply even for a gift-named prize.
	catalog := map[string]domain.Prize{
		"CADEAU1": {Value: "CADEAU1", Name: "Mug"},
	}
	assert.Equal(t, "CADEAU1", w.Draw(catalog, func() float64 { return 0.3 }))
}

func TestDraw_MissingCatalogEntryIsNoWin(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{{Value: "-10%", Weight: 1}}, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.NoWinValue, w.Draw(map[string]domain.Prize{}, func() float64 { return 0.5 }))
}

func TestDraw_DiscountIgnoresStockColumn(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{{Value: "-10%", Weight: 1}}, 10)
	require.NoError(t, err)

	// A discount row with a (misconfigured) zero stock is still accepted:
	// only gifts are subject to the stock check.
	catalog := map[string]domain.Prize{
		"-10%": {Value: "-10%", Name: "Bon -10%", Stock: stock(0)},
	}
	assert.Equal(t, "-10%", w.Draw(catalog, func() float64 { return 0.5 }))
}

func TestPick_FloatOverrunFallsBackToLastEntry(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{
		{Value: "nothing", Weight: 1},
		{Value: "-10%", Weight: 1},
	}, 10)
	require.NoError(t, err)

	assert.Equal(t, "-10%", w.pick(1.0))
}

func TestPick_TieBrokenByListOrder(t *testing.T) {
	w, err := NewWheel([]WeightedPrize{
		{Value: "a", Weight: 1},
		{Value: "b", Weight: 1},
	}, 10)
	require.NoError(t, err)

	// A point exactly on the boundary between two segments belongs to the
	// later one (strict < against the cumulative weight).
	assert.Equal(t, "a", w.pick(0.0))
	assert.Equal(t, "b", w.pick(0.5))
}
