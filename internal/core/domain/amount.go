package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CurrencyPrecision is the number of fraction digits carried by every amount.
const CurrencyPrecision int32 = 2

// MaxAmount is the exclusive upper bound of any stored amount or total. It matches the
// NUMERIC(14, 2) columns of the ledger tables.
var MaxAmount = decimal.New(1, 12)

// CheckAmountBound fails with ErrInvalidAmount when x cannot be stored.
func CheckAmountBound(what string, x decimal.Decimal) error {
	if x.Abs().GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("%w: %s %s exceeds the maximum of %s", apperrors.ErrInvalidAmount, what, x.String(), MaxAmount.Sub(decimal.New(1, -CurrencyPrecision)).StringFixed(CurrencyPrecision))
	}
	return nil
}

// FundChannel identifies a payment channel that is entered as a single total
// rather than counted by denomination.
type FundChannel string

const (
	Coins   FundChannel = "COINS"
	Cheques FundChannel = "CHEQUES"
	Card    FundChannel = "CARD"
)

// FundChannels is the fixed, ordered set of fund slots on every draft.
var FundChannels = []FundChannel{Coins, Cheques, Card}

// Label returns the printable name of the channel.
func (c FundChannel) Label() string {
	switch c {
	case Coins:
		return "Coins"
	case Cheques:
		return "Cheques"
	case Card:
		return "Card terminal"
	default:
		return string(c)
	}
}

// IsValid reports whether c is one of the known fund channels.
func (c FundChannel) IsValid() bool {
	for _, known := range FundChannels {
		if c == known {
			return true
		}
	}
	return false
}

// ParseFundChannel accepts the channel code in any letter case.
func ParseFundChannel(s string) (FundChannel, error) {
	c := FundChannel(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown fund channel %q", apperrors.ErrValidation, s)
	}
	return c, nil
}

// DenominationLine is a counted note denomination: unit value times count.
type DenominationLine struct {
	UnitValue decimal.Decimal `json:"unitValue"`
	Count     int64           `json:"count"`
}

// Subtotal returns UnitValue × Count.
func (l DenominationLine) Subtotal() (decimal.Decimal, error) {
	if l.Count < 0 {
		return decimal.Zero, fmt.Errorf("%w: count must not be negative, got %d", apperrors.ErrInvalidAmount, l.Count)
	}
	if !l.UnitValue.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: unit value must be positive, got %s", apperrors.ErrInvalidAmount, l.UnitValue.String())
	}
	sub := l.UnitValue.Mul(decimal.NewFromInt(l.Count))
	if err := CheckAmountBound("subtotal", sub); err != nil {
		return decimal.Zero, err
	}
	return sub, nil
}

// FundLine is a directly entered amount for a non-denominated channel.
type FundLine struct {
	Channel FundChannel     `json:"channel"`
	Amount  decimal.Decimal `json:"amount"`
}

// Label returns the printable name of the line's channel.
func (l FundLine) Label() string {
	return l.Channel.Label()
}

// Validate rejects negative amounts and unknown channels.
func (l FundLine) Validate() error {
	if !l.Channel.IsValid() {
		return fmt.Errorf("%w: unknown fund channel %q", apperrors.ErrValidation, l.Channel)
	}
	if l.Amount.IsNegative() {
		return fmt.Errorf("%w: %s amount must not be negative, got %s", apperrors.ErrInvalidAmount, l.Channel.Label(), l.Amount.String())
	}
	return CheckAmountBound(l.Channel.Label()+" amount", l.Amount)
}

// SumDenominations returns the exact total of all line subtotals. No rounding is applied.
func SumDenominations(lines []DenominationLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		sub, err := l.Subtotal()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(sub)
	}
	if err := CheckAmountBound("notes subtotal", total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SumFunds returns the exact total of all fund amounts.
func SumFunds(lines []FundLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(l.Amount)
	}
	if err := CheckAmountBound("funds total", total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// RoundCurrency applies banker's rounding to two fraction digits.
// Only formatting code should call it; sums stay exact.
func RoundCurrency(x decimal.Decimal) decimal.Decimal {
	return x.RoundBank(CurrencyPrecision)
}

// FormatCurrency renders x as e.g. "£73.50".
func FormatCurrency(symbol string, x decimal.Decimal) string {
	rounded := RoundCurrency(x)
	if rounded.IsNegative() {
		return "-" + symbol + rounded.Neg().StringFixedBank(CurrencyPrecision)
	}
	return symbol + rounded.StringFixedBank(CurrencyPrecision)
}

// ParseAmount parses operator input such as "12.45". Negative values and values with
// more than two fraction digits are rejected, as is anything not below MaxAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrInvalidAmount, d.String())
	}
	if d.Exponent() < -CurrencyPrecision && !d.Equal(d.Truncate(CurrencyPrecision)) {
		return decimal.Zero, fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrInvalidAmount, d.String(), CurrencyPrecision)
	}
	if err := CheckAmountBound("amount", d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
