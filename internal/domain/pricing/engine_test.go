//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"vehicle-reservation/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickup = time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	table, err := pricing.ParseDiscountTable(map[string]string{
		"WELCOME10": "10%",
		"FLAT500":   "500",
		"HUGE":      "1000000",
	})
	require.NoError(t, err)
	return pricing.NewEngine(750, table)
}

func mustExtra(t *testing.T, spec map[string]string, code string) pricing.Extra {
	t.Helper()
	catalog, err := pricing.ParseExtrasCatalog(spec)
	require.NoError(t, err)
	x, ok := catalog.Lookup(code)
	require.True(t, ok)
	return x
}

func assertIdentity(t *testing.T, b pricing.Breakdown) {
	t.Helper()
	assert.Equal(t, b.Base-b.Discount+b.Extras+b.Tax, b.Total)
	assert.False(t, b.Base.IsNegative())
	assert.False(t, b.Discount.IsNegative())
	assert.False(t, b.Tax.IsNegative())
	assert.False(t, b.Total.IsNegative())
}

func TestEngine_ComputeTotal(t *testing.T) {
	t.Run("three days at 7.5% tax", func(t *testing.T) {
		got := newEngine(t).ComputeTotal(pricing.Input{
			DailyRate: 1000,
			Pickup:    pickup,
			Dropoff:   pickup.Add(72 * time.Hour),
		})

		want := pricing.Breakdown{
			Days:       3,
			DailyRate:  1000,
			Base:       3000,
			ExtraLines: []pricing.ExtraLine{},
			Taxable:    3000,
			TaxRate:    750,
			Tax:        225,
			Total:      3225,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Breakdown mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("same input yields same output", func(t *testing.T) {
		e := newEngine(t)
		in := pricing.Input{
			DailyRate:    4321,
			Pickup:       pickup,
			Dropoff:      pickup.Add(50 * time.Hour),
			DiscountCode: "welcome10",
			Extras:       []pricing.Extra{mustExtra(t, map[string]string{"EXTRA_DRIVER": "500/day"}, "EXTRA_DRIVER")},
		}
		first := e.ComputeTotal(in)
		for range 5 {
			if diff := cmp.Diff(first, e.ComputeTotal(in)); diff != "" {
				t.Fatalf("ComputeTotal is not deterministic (-first +again):\n%s", diff)
			}
		}
	})

	t.Run("identity holds across inputs", func(t *testing.T) {
		e := newEngine(t)
		driver := mustExtra(t, map[string]string{"EXTRA_DRIVER": "500/day"}, "EXTRA_DRIVER")
		premium := mustExtra(t, map[string]string{"INSURANCE_PREMIUM": "15%"}, "INSURANCE_PREMIUM")
		flat := mustExtra(t, map[string]string{"CHILD_SEAT": "777"}, "CHILD_SEAT")

		for _, rate := range []pricing.Money{0, 1, 333, 999, 12345} {
			for _, hours := range []int{1, 23, 24, 25, 71, 240} {
				for _, code := range []string{"", "WELCOME10", "FLAT500", "HUGE", "NOPE"} {
					b := e.ComputeTotal(pricing.Input{
						DailyRate:    rate,
						Pickup:       pickup,
						Dropoff:      pickup.Add(time.Duration(hours) * time.Hour),
						DiscountCode: code,
						Extras:       []pricing.Extra{driver, premium, flat},
					})
					assertIdentity(t, b)
				}
			}
		}
	})

	t.Run("partial days round up", func(t *testing.T) {
		cases := []struct {
			dur  time.Duration
			days int64
		}{
			{time.Minute, 1},
			{24 * time.Hour, 1},
			{24*time.Hour + time.Second, 2},
			{48 * time.Hour, 2},
			{49 * time.Hour, 3},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.days, pricing.DayCount(pickup, pickup.Add(tc.dur)), tc.dur.String())
		}
	})

	t.Run("percentage discount applies to base", func(t *testing.T) {
		b := newEngine(t).ComputeTotal(pricing.Input{
			DailyRate:    1000,
			Pickup:       pickup,
			Dropoff:      pickup.Add(72 * time.Hour),
			DiscountCode: "WELCOME10",
		})
		assert.Equal(t, "WELCOME10", b.DiscountCode)
		assert.Equal(t, pricing.Money(300), b.Discount)
		assert.Equal(t, pricing.Money(203), b.Tax) // 2700 * 7.5% = 202.5
		assert.Equal(t, pricing.Money(2903), b.Total)
		assert.Empty(t, b.Warnings)
	})

	t.Run("unknown discount code is ignored", func(t *testing.T) {
		b := newEngine(t).ComputeTotal(pricing.Input{
			DailyRate:    1000,
			Pickup:       pickup,
			Dropoff:      pickup.Add(24 * time.Hour),
			DiscountCode: "NOT_A_CODE",
		})
		assert.Zero(t, b.Discount)
		assert.Empty(t, b.DiscountCode)
		assert.Contains(t, b.Warnings, pricing.WarningUnknownDiscount)
		assert.Equal(t, pricing.Money(1075), b.Total)
	})

	t.Run("oversized discount is capped", func(t *testing.T) {
		b := newEngine(t).ComputeTotal(pricing.Input{
			DailyRate:    1000,
			Pickup:       pickup,
			Dropoff:      pickup.Add(24 * time.Hour),
			DiscountCode: "HUGE",
		})
		assert.Equal(t, pricing.Money(1000), b.Discount)
		assert.Zero(t, b.Total)
		assert.Contains(t, b.Warnings, pricing.WarningDiscountCapped)
		assertIdentity(t, b)
	})

	t.Run("negative daily rate is clamped", func(t *testing.T) {
		b := newEngine(t).ComputeTotal(pricing.Input{
			DailyRate: -500,
			Pickup:    pickup,
			Dropoff:   pickup.Add(48 * time.Hour),
		})
		assert.Zero(t, b.Base)
		assert.Zero(t, b.Total)
		assert.Contains(t, b.Warnings, pricing.WarningNegativeDailyRate)
	})

	t.Run("extras are summed", func(t *testing.T) {
		driver := mustExtra(t, map[string]string{"EXTRA_DRIVER": "500/day"}, "EXTRA_DRIVER")
		premium := mustExtra(t, map[string]string{"INSURANCE_PREMIUM": "15%"}, "INSURANCE_PREMIUM")

		b := newEngine(t).ComputeTotal(pricing.Input{
			DailyRate: 1000,
			Pickup:    pickup,
			Dropoff:   pickup.Add(48 * time.Hour),
			Extras:    []pricing.Extra{driver, premium},
		})
		assert.Equal(t, []pricing.ExtraLine{
			{Code: "EXTRA_DRIVER", Amount: 1000},
			{Code: "INSURANCE_PREMIUM", Amount: 300},
		}, b.ExtraLines)
		assert.Equal(t, pricing.Money(1300), b.Extras)
		assert.Equal(t, pricing.Money(3300), b.Taxable)
		assert.Equal(t, pricing.Money(248), b.Tax) // 247.5
		assertIdentity(t, b)
	})
}

func TestParseDiscountTable(t *testing.T) {
	t.Run("rejects malformed specs", func(t *testing.T) {
		for _, spec := range []map[string]string{
			{"BAD CODE": "10%"},
			{"OK_CODE": "abc"},
			{"OK_CODE": "-5"},
			{"OK_CODE": "150%"},
		} {
			_, err := pricing.ParseDiscountTable(spec)
			assert.Error(t, err, spec)
		}
	})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		table, err := pricing.ParseDiscountTable(map[string]string{"WELCOME10": "10%"})
		require.NoError(t, err)
		d, ok := table.Lookup(" welcome10 ")
		require.True(t, ok)
		assert.True(t, d.IsPercentage())
		assert.Equal(t, pricing.BasisPoints(1000), d.PercentOff())
	})
}
