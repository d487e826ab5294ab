package dto

import "github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"

// DenominationBreakdown is the wire shape of a physical cash count: five bill
// counts and six coin counts, all non-negative.
type DenominationBreakdown struct {
	Bills200 int64 `json:"bills200" binding:"min=0"`
	Bills100 int64 `json:"bills100" binding:"min=0"`
	Bills50  int64 `json:"bills50" binding:"min=0"`
	Bills20  int64 `json:"bills20" binding:"min=0"`
	Bills10  int64 `json:"bills10" binding:"min=0"`
	Coins5   int64 `json:"coins5" binding:"min=0"`
	Coins2   int64 `json:"coins2" binding:"min=0"`
	Coins1   int64 `json:"coins1" binding:"min=0"`
	Coins050 int64 `json:"coins050" binding:"min=0"`
	Coins020 int64 `json:"coins020" binding:"min=0"`
	Coins010 int64 `json:"coins010" binding:"min=0"`
}

// ToDomain converts the wire breakdown to its domain shape.
func (b DenominationBreakdown) ToDomain() domain.Denomination {
	return domain.Denomination{
		Bills200: b.Bills200,
		Bills100: b.Bills100,
		Bills50:  b.Bills50,
		Bills20:  b.Bills20,
		Bills10:  b.Bills10,
		Coins5:   b.Coins5,
		Coins2:   b.Coins2,
		Coins1:   b.Coins1,
		Coins050: b.Coins050,
		Coins020: b.Coins020,
		Coins010: b.Coins010,
	}
}

// FromDomainDenomination converts a domain breakdown to the wire shape.
func FromDomainDenomination(d domain.Denomination) DenominationBreakdown {
	return DenominationBreakdown{
		Bills200: d.Bills200,
		Bills100: d.Bills100,
		Bills50:  d.Bills50,
		Bills20:  d.Bills20,
		Bills10:  d.Bills10,
		Coins5:   d.Coins5,
		Coins2:   d.Coins2,
		Coins1:   d.Coins1,
		Coins050: d.Coins050,
		Coins020: d.Coins020,
		Coins010: d.Coins010,
	}
}
