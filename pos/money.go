/*
Package pos provides the order processing and sales aggregation engine.

PURPOSE:
  This package validates cash sales, computes change, records each sale as an
  immutable Transaction in an append-only log, and derives windowed revenue and
  popularity statistics from that log. Transport, authentication and the menu
  catalog live in other packages and only hand structured values to this one.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: an exact decimal amount in the store's single currency

DESIGN PRINCIPLES:
  1. Precision: Money wraps decimal.Decimal, never float64
  2. Immutability: Transactions are created once and never modified
  3. Explicit boundaries: stores own the only encoding/decoding step

SEE ALSO:
  - register.go: Transaction record builder
  - log.go: Transaction log over a Store
  - aggregate.go: Windowed summaries
  - report.go: Daily / all-time views
*/
package pos

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Exact decimal amount
// =============================================================================

// Money is an exact decimal amount. The zero value is 0.
type Money struct {
	d decimal.Decimal
}

func NewMoney(units int64) Money { return Money{d: decimal.NewFromInt(units)} }

// ParseMoney parses a decimal string such as "25000" or "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Times(qty int) Money { return Money{d: m.d.Mul(decimal.NewFromInt(int64(qty)))} }
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) IsZero() bool { return m.d.IsZero() }
func (m Money) Decimal() decimal.Decimal { return m.d }
func (m Money) InexactFloat64() float64 { return m.d.InexactFloat64() }

// String renders the amount with at least two fraction digits. Trailing
// zeros beyond the second digit are dropped, so 30000.000 and 30000 both
// render as 30000.00.
func (m Money) String() string {
	s := m.d.String()
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 < 2 {
		return m.d.StringFixed(2)
	}
	return s
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		m.d = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	m.d = d
	return nil
}
