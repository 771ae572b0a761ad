package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a currency-tagged decimal amount. Binary operations require both
// operands to carry the same currency; sign is never checked here.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// ParseMoney builds Money from a decimal string such as "100.50".
func ParseMoney(amount, currency string) (Money, error) {
	if currency == "" {
		return Money{}, NewMissingRequiredFieldError("currency")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewInvalidAmountError(amount, err)
	}
	return Money{Amount: d, Currency: currency}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

func (m Money) IsLessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount.LessThan(other.Amount), nil
}

// Max returns the larger of the two amounts.
func (m Money) Max(other Money) (Money, error) {
	less, err := m.IsLessThan(other)
	if err != nil {
		return Money{}, err
	}
	if less {
		return other, nil
	}
	return m, nil
}

// Equal compares currency and numeric value; 10 and 10.00 are equal.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return NewCurrencyMismatchError(m.Currency, other.Currency)
	}
	return nil
}
