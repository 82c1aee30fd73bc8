package pricing

import (
	"time"
)

const day = 24 * time.Hour

type Warning string

const (
	WarningNegativeDailyRate Warning = "negative daily rate clamped to zero"
	WarningDiscountCapped    Warning = "discount exceeds subtotal and was capped"
	WarningUnknownDiscount   Warning = "discount code not recognized and ignored"
	WarningNegativeExtra     Warning = "negative extra clamped to zero"
	WarningNegativeDiscount  Warning = "negative discount clamped to zero"
)

type Input struct {
	DailyRate    Money
	Pickup       time.Time
	Dropoff      time.Time
	DiscountCode string
	Extras       []Extra
}

type ExtraLine struct {
	Code   string `json:"code"`
	Amount Money  `json:"amount"`
}

type Breakdown struct {
	Days         int64       `json:"days"`
	DailyRate    Money       `json:"dailyRate"`
	Base         Money       `json:"base"`
	DiscountCode string      `json:"discountCode,omitempty"`
	Discount     Money       `json:"discount"`
	ExtraLines   []ExtraLine `json:"extraLines,omitempty"`
	Extras       Money       `json:"extras"`
	Taxable      Money       `json:"taxable"`
	TaxRate      BasisPoints `json:"taxRateBps"`
	Tax          Money       `json:"tax"`
	Total        Money       `json:"total"`
	Warnings     []Warning   `json:"warnings,omitempty"`
}

func (b Breakdown) HasWarnings() bool { return len(b.Warnings) > 0 }

// Engine computes rental totals. It holds only immutable tables so
// ComputeTotal is a pure function of its input.
type Engine struct {
	taxRate   BasisPoints
	discounts DiscountTable
}

func NewEngine(taxRate BasisPoints, discounts DiscountTable) *Engine {
	if taxRate < 0 {
		taxRate = 0
	}
	if discounts == nil {
		discounts = StaticDiscountTable{}
	}
	return &Engine{taxRate: taxRate, discounts: discounts}
}

func (e *Engine) TaxRate() BasisPoints { return e.taxRate }

// DayCount is ceil((dropoff - pickup) / 24h) with a minimum of one day.
func DayCount(pickup, dropoff time.Time) int64 {
	d := dropoff.Sub(pickup)
	if d <= 0 {
		return 1
	}
	days := int64(d / day)
	if d%day != 0 {
		days++
	}
	return max(days, 1)
}

func (e *Engine) ComputeTotal(in Input) Breakdown {
	var warnings []Warning

	rate := in.DailyRate
	if rate.IsNegative() {
		rate = 0
		warnings = append(warnings, WarningNegativeDailyRate)
	}

	days := DayCount(in.Pickup, in.Dropoff)
	base := rate.Times(days)

	var extras Money
	lines := make([]ExtraLine, 0, len(in.Extras))
	for _, x := range in.Extras {
		amount := x.AmountFor(base, days)
		if amount.IsNegative() {
			amount = 0
			warnings = append(warnings, WarningNegativeExtra)
		}
		lines = append(lines, ExtraLine{Code: x.Code(), Amount: amount})
		extras += amount
	}

	var (
		discount     Money
		discountCode string
	)
	if code := NormalizeCode(in.DiscountCode); code != "" {
		if d, ok := e.discounts.Lookup(code); ok {
			discountCode = d.Code()
			discount = d.AmountFor(base)
		} else {
			warnings = append(warnings, WarningUnknownDiscount)
		}
	}
	if discount.IsNegative() {
		discount = 0
		warnings = append(warnings, WarningNegativeDiscount)
	}
	if discount > base+extras {
		discount = base + extras
		warnings = append(warnings, WarningDiscountCapped)
	}

	taxable := base - discount + extras
	tax := taxable.ApplyRate(e.taxRate)

	return Breakdown{
		Days:         days,
		DailyRate:    rate,
		Base:         base,
		DiscountCode: discountCode,
		Discount:     discount,
		ExtraLines:   lines,
		Extras:       extras,
		Taxable:      taxable,
		TaxRate:      e.taxRate,
		Tax:          tax,
		Total:        taxable + tax,
		Warnings:     warnings,
	}
}
