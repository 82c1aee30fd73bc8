package pricing

import (
	"errors"
	"strings"
)

var ErrNegativeExtra = errors.New("extra amount cannot be negative")

// Extra is an add-on such as an additional driver or an insurance tier.
type Extra struct {
	code       string
	amount     Money
	perDay     bool
	percent    BasisPoints
	percentage bool
}

func NewFixedExtra(code string, amount Money, perDay bool) (Extra, error) {
	c, err := validateCode(code)
	if err != nil {
		return Extra{}, err
	}
	if amount < 0 {
		return Extra{}, ErrNegativeExtra
	}
	return Extra{code: c, amount: amount, perDay: perDay}, nil
}

// NewPercentageExtra charges a share of the base price.
func NewPercentageExtra(code string, percent BasisPoints) (Extra, error) {
	c, err := validateCode(code)
	if err != nil {
		return Extra{}, err
	}
	if percent < 0 {
		return Extra{}, ErrNegativeExtra
	}
	return Extra{code: c, percent: percent, percentage: true}, nil
}

func (e Extra) Code() string { return e.code }

func (e Extra) AmountFor(base Money, days int64) Money {
	switch {
	case e.percentage:
		return base.ApplyRate(e.percent)
	case e.perDay:
		return e.amount.Times(days)
	default:
		return e.amount
	}
}

type ExtrasCatalog interface {
	Lookup(code string) (Extra, bool)
}

type StaticExtrasCatalog map[string]Extra

func (c StaticExtrasCatalog) Lookup(code string) (Extra, bool) {
	e, ok := c[NormalizeCode(code)]
	return e, ok
}

// ParseExtrasCatalog builds a catalog from CODE -> "500", "500/day" or "15%".
func ParseExtrasCatalog(specs map[string]string) (StaticExtrasCatalog, error) {
	catalog := make(StaticExtrasCatalog, len(specs))
	for code, spec := range specs {
		raw, perDay := strings.CutSuffix(strings.TrimSpace(spec), "/day")

		amount, bps, isPercent, err := parseRate(raw)
		if err != nil {
			return nil, errors.Join(err, errors.New("extra "+code))
		}

		var e Extra
		if isPercent {
			e, err = NewPercentageExtra(code, bps)
		} else {
			e, err = NewFixedExtra(code, amount, perDay)
		}
		if err != nil {
			return nil, errors.Join(err, errors.New("extra "+code))
		}
		catalog[e.Code()] = e
	}
	return catalog, nil
}
