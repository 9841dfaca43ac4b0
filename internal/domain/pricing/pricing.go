// Package pricing は明細の金額計算。
// 丸めは表示時だけ（Display）。保存する値は丸めない。
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be >= 1")
	ErrInvalidSpice    = errors.New("spice must be between 0 and 1")
	ErrNegativePrice   = errors.New("price must be >= 0")
)

// 1明細の計算に必要な値
type LineInput struct {
	UnitPrice        decimal.Decimal
	Quantity         int64
	ToppingPrices    []decimal.Decimal
	SideOptionPrices []decimal.Decimal
	Spice            decimal.Decimal
}

// LineTotal は明細合計を返す。
// 順番: 本体*数量 → トッピング*数量 → サイド*数量 → (ここまでの合計)*辛さ を加算。
func LineTotal(in LineInput) (decimal.Decimal, error) {
	if err := ValidateSpice(in.Spice); err != nil {
		return decimal.Zero, err
	}
	if in.Quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if in.UnitPrice.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}

	qty := decimal.NewFromInt(in.Quantity)
	total := in.UnitPrice.Mul(qty)

	for _, p := range in.ToppingPrices {
		if p.IsNegative() {
			return decimal.Zero, ErrNegativePrice
		}
		total = total.Add(p.Mul(qty))
	}
	for _, p := range in.SideOptionPrices {
		if p.IsNegative() {
			return decimal.Zero, ErrNegativePrice
		}
		total = total.Add(p.Mul(qty))
	}

	if in.Spice.IsPositive() {
		total = total.Add(total.Mul(in.Spice))
	}
	return total, nil
}

func ValidateSpice(spice decimal.Decimal) error {
	if spice.IsNegative() || spice.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidSpice
	}
	return nil
}

// EffectiveUnitPrice は注文明細に保存する1個あたり価格。
func EffectiveUnitPrice(lineTotal decimal.Decimal, quantity int64) decimal.Decimal {
	if quantity < 1 {
		return lineTotal
	}
	return lineTotal.Div(decimal.NewFromInt(quantity))
}

// CartTotal は明細合計の総和。
func CartTotal(totals ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum
}

// 表示用（小数2桁）
func Display(v decimal.Decimal) string {
	return v.StringFixed(2)
}
