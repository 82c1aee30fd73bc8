//go:build unit

package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngine_ComputeTotal_ClampsNegativeAmounts(t *testing.T) {
	pickup := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(750, StaticDiscountTable{
		"BROKEN": {code: "BROKEN", amountOff: -300},
	})

	b := engine.ComputeTotal(Input{
		DailyRate:    1000,
		Pickup:       pickup,
		Dropoff:      pickup.Add(24 * time.Hour),
		DiscountCode: "BROKEN",
		Extras:       []Extra{{code: "REBATE", amount: -200}},
	})

	assert.Zero(t, b.Discount)
	assert.Zero(t, b.Extras)
	assert.Equal(t, []ExtraLine{{Code: "REBATE", Amount: 0}}, b.ExtraLines)
	assert.Equal(t, Money(1075), b.Total)
	assert.Equal(t, b.Base-b.Discount+b.Extras+b.Tax, b.Total)
	assert.ElementsMatch(t, []Warning{WarningNegativeExtra, WarningNegativeDiscount}, b.Warnings)
}
