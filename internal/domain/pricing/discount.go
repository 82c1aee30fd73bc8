package pricing

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidCode            = errors.New("invalid pricing code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrInvalidRateSpec        = errors.New("invalid rate specification")
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9_]{3,32}$`)

// NormalizeCode upper-cases and trims a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCode(code string) (string, error) {
	code = NormalizeCode(code)
	if !codeRegex.MatchString(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}

type Discount struct {
	code       string
	amountOff  Money
	percentOff BasisPoints
	percentage bool
}

func NewFixedDiscount(code string, amountOff Money) (Discount, error) {
	c, err := validateCode(code)
	if err != nil {
		return Discount{}, err
	}
	if amountOff < 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{code: c, amountOff: amountOff}, nil
}

func NewPercentageDiscount(code string, percentOff BasisPoints) (Discount, error) {
	c, err := validateCode(code)
	if err != nil {
		return Discount{}, err
	}
	if percentOff < 0 || percentOff > fullBPS {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{code: c, percentOff: percentOff, percentage: true}, nil
}

func (d Discount) Code() string            { return d.code }
func (d Discount) IsPercentage() bool      { return d.percentage }
func (d Discount) AmountOff() Money        { return d.amountOff }
func (d Discount) PercentOff() BasisPoints { return d.percentOff }

// AmountFor is the discount for the given base before any capping.
func (d Discount) AmountFor(base Money) Money {
	if d.percentage {
		return base.ApplyRate(d.percentOff)
	}
	return d.amountOff
}

// DiscountTable resolves discount codes. Unknown codes are not an error.
type DiscountTable interface {
	Lookup(code string) (Discount, bool)
}

type StaticDiscountTable map[string]Discount

func (t StaticDiscountTable) Lookup(code string) (Discount, bool) {
	d, ok := t[NormalizeCode(code)]
	return d, ok
}

// ParseDiscountTable builds a table from CODE -> "10%" or "5000" entries.
func ParseDiscountTable(specs map[string]string) (StaticDiscountTable, error) {
	table := make(StaticDiscountTable, len(specs))
	for code, spec := range specs {
		amount, bps, isPercent, err := parseRate(spec)
		if err != nil {
			return nil, errors.Join(err, errors.New("discount "+code))
		}

		var d Discount
		if isPercent {
			d, err = NewPercentageDiscount(code, bps)
		} else {
			d, err = NewFixedDiscount(code, amount)
		}
		if err != nil {
			return nil, errors.Join(err, errors.New("discount "+code))
		}
		table[d.Code()] = d
	}
	return table, nil
}

// parseRate accepts "12.5%" or a plain minor-unit integer.
func parseRate(spec string) (Money, BasisPoints, bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, false, ErrInvalidRateSpec
	}

	if pct, ok := strings.CutSuffix(spec, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, 0, false, ErrInvalidRateSpec
		}
		return 0, BasisPoints(v*100 + 0.5), true, nil
	}

	v, err := strconv.ParseInt(spec, 10, 64)
	if err != nil {
		return 0, 0, false, ErrInvalidRateSpec
	}
	return Money(v), 0, false, nil
}
