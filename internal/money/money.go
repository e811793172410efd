// Package money holds the integer minor-unit representation used for every
// stored or derived amount.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
)

// Cents is an amount in minor units (centavos).
type Cents int64

// Int64 returns the raw minor-unit count.
func (c Cents) Int64() int64 { return int64(c) }

// Times multiplies by a quantity.
func (c Cents) Times(qty int) Cents { return c * Cents(qty) }

// Min returns the smaller amount.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger amount.
func Max(a, b Cents) Cents {
	if a > b {
		return a
	}
	return b
}

// String renders the amount in BRL.
func (c Cents) String() string { return FormatBRL(c) }

// FormatBRL renders cents the way pt-BR displays reais: "R$ 1.234,56".
func FormatBRL(c Cents) string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	major, minor := v/100, v%100

	digits := strconv.FormatInt(major, 10)
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3 + 8)
	b.WriteString(sign)
	b.WriteString("R$ ")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	if minor < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(minor, 10))
	return b.String()
}

// ParseMajor converts an admin-entered decimal amount ("19.99", "19,99",
// "1.234,50") to cents, rounding half away from zero.
func ParseMajor(raw string) (Cents, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount is required")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "amount must be a decimal number")
	}
	return Cents(d.Shift(2).Round(0).IntPart()), nil
}

// Major returns the amount as a decimal in reais.
func (c Cents) Major() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Shift(-2)
}
