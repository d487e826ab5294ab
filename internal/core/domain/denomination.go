package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Denomination is a physical cash count per face value: five bill values and
// six coin values. Counts are non-negative integers; the total is the sum of
// count times face value over all eleven denominations.
type Denomination struct {
	Bills200 int64 `json:"bills200"`
	Bills100 int64 `json:"bills100"`
	Bills50  int64 `json:"bills50"`
	Bills20  int64 `json:"bills20"`
	Bills10  int64 `json:"bills10"`
	Coins5   int64 `json:"coins5"`
	Coins2   int64 `json:"coins2"`
	Coins1   int64 `json:"coins1"`
	Coins050 int64 `json:"coins050"`
	Coins020 int64 `json:"coins020"`
	Coins010 int64 `json:"coins010"`
}

var (
	faceValue200 = decimal.NewFromInt(200)
	faceValue100 = decimal.NewFromInt(100)
	faceValue50  = decimal.NewFromInt(50)
	faceValue20  = decimal.NewFromInt(20)
	faceValue10  = decimal.NewFromInt(10)
	faceValue5   = decimal.NewFromInt(5)
	faceValue2   = decimal.NewFromInt(2)
	faceValue1   = decimal.NewFromInt(1)
	faceValue050 = decimal.New(50, -2) // 0.50
	faceValue020 = decimal.New(20, -2) // 0.20
	faceValue010 = decimal.New(10, -2) // 0.10
)

// Validate rejects negative counts.
func (d Denomination) Validate() error {
	counts := []struct {
		name  string
		count int64
	}{
		{"bills200", d.Bills200}, {"bills100", d.Bills100}, {"bills50", d.Bills50},
		{"bills20", d.Bills20}, {"bills10", d.Bills10},
		{"coins5", d.Coins5}, {"coins2", d.Coins2}, {"coins1", d.Coins1},
		{"coins050", d.Coins050}, {"coins020", d.Coins020}, {"coins010", d.Coins010},
	}
	for _, c := range counts {
		if c.count < 0 {
			return fmt.Errorf("denomination count %s is negative: %d", c.name, c.count)
		}
	}
	return nil
}

// Total sums count times face value over all denominations. Pure: two calls
// on the same breakdown always yield the same total.
func (d Denomination) Total() decimal.Decimal {
	total := decimal.Zero
	total = total.Add(decimal.NewFromInt(d.Bills200).Mul(faceValue200))
	total = total.Add(decimal.NewFromInt(d.Bills100).Mul(faceValue100))
	total = total.Add(decimal.NewFromInt(d.Bills50).Mul(faceValue50))
	total = total.Add(decimal.NewFromInt(d.Bills20).Mul(faceValue20))
	total = total.Add(decimal.NewFromInt(d.Bills10).Mul(faceValue10))
	total = total.Add(decimal.NewFromInt(d.Coins5).Mul(faceValue5))
	total = total.Add(decimal.NewFromInt(d.Coins2).Mul(faceValue2))
	total = total.Add(decimal.NewFromInt(d.Coins1).Mul(faceValue1))
	total = total.Add(decimal.NewFromInt(d.Coins050).Mul(faceValue050))
	total = total.Add(decimal.NewFromInt(d.Coins020).Mul(faceValue020))
	total = total.Add(decimal.NewFromInt(d.Coins010).Mul(faceValue010))
	return total
}

// IsZero reports whether every count is zero.
func (d Denomination) IsZero() bool {
	return d == Denomination{}
}
