package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultDenominations are the note values counted when nothing else is configured.
var DefaultDenominations = []string{"50", "20", "10", "5"}

// DenominationSet is the ordered list of recognized note values, largest first.
type DenominationSet struct {
	values []decimal.Decimal
}

// NewDenominationSet builds a set from positive, distinct unit values.
func NewDenominationSet(values []decimal.Decimal) (DenominationSet, error) {
	if len(values) == 0 {
		return DenominationSet{}, fmt.Errorf("%w: at least one denomination is required", apperrors.ErrValidation)
	}
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		if !v.IsPositive() {
			return DenominationSet{}, fmt.Errorf("%w: denomination %s must be positive", apperrors.ErrInvalidAmount, v.String())
		}
		if v.Exponent() < -CurrencyPrecision && !v.Equal(v.Truncate(CurrencyPrecision)) {
			return DenominationSet{}, fmt.Errorf("%w: denomination %s has more than %d decimal places", apperrors.ErrInvalidAmount, v.String(), CurrencyPrecision)
		}
		for _, seen := range out {
			if seen.Equal(v) {
				return DenominationSet{}, fmt.Errorf("%w: denomination %s listed twice", apperrors.ErrValidation, v.String())
			}
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GreaterThan(out[j]) })
	return DenominationSet{values: out}, nil
}

// ParseDenominationSet parses values such as ["50", "20", "10", "5"] or a single
// comma-separated string entry.
func ParseDenominationSet(raw []string) (DenominationSet, error) {
	values := make([]decimal.Decimal, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := decimal.NewFromString(part)
			if err != nil {
				return DenominationSet{}, fmt.Errorf("%w: denomination %q is not a number", apperrors.ErrValidation, part)
			}
			values = append(values, v)
		}
	}
	return NewDenominationSet(values)
}

// MustDefaultDenominationSet returns the set built from DefaultDenominations.
func MustDefaultDenominationSet() DenominationSet {
	set, err := ParseDenominationSet(DefaultDenominations)
	if err != nil {
		panic(err)
	}
	return set
}

// Values returns a copy of the unit values, largest first.
func (s DenominationSet) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of denominations.
func (s DenominationSet) Len() int {
	return len(s.values)
}

// IndexOf returns the slot index of unitValue, or -1.
func (s DenominationSet) IndexOf(unitValue decimal.Decimal) int {
	for i, v := range s.values {
		if v.Equal(unitValue) {
			return i
		}
	}
	return -1
}
