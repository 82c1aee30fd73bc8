package pricing

import "strconv"

// Money is an amount in the minor unit of the configured currency.
type Money int64

// BasisPoints expresses a rate in hundredths of a percent; 750 is 7.5%.
type BasisPoints int64

const fullBPS BasisPoints = 10000

func (m Money) Int64() int64 { return int64(m) }

func (m Money) String() string { return strconv.FormatInt(int64(m), 10) }

func (m Money) IsNegative() bool { return m < 0 }

// ApplyRate returns m × rate rounded half away from zero.
func (m Money) ApplyRate(rate BasisPoints) Money {
	p := int64(m) * int64(rate)
	half := int64(fullBPS) / 2
	if p >= 0 {
		return Money((p + half) / int64(fullBPS))
	}
	return Money((p - half) / int64(fullBPS))
}

func (m Money) Times(n int64) Money { return Money(int64(m) * n) }

func (b BasisPoints) Percent() float64 { return float64(b) / 100 }
