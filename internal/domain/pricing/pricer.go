// Package pricing は商品の支払額を計算する。
package pricing

import (
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 1単価ごとに足す固定額（数量や地域に依存しない）
var DefaultSurcharge = decimal.NewFromInt(50)

type Pricer struct {
	surcharge decimal.Decimal
}

// DI
func NewPricer(surcharge decimal.Decimal) *Pricer {
	return &Pricer{surcharge: surcharge}
}

func (p *Pricer) Surcharge() decimal.Decimal {
	return p.surcharge
}

// price + surcharge - discount。
// 割引が大きいとマイナスになるが丸めない。
func (p *Pricer) FinalPrice(product model.Product) decimal.Decimal {
	return product.Price.Add(p.surcharge).Sub(product.Discount)
}

// FinalPrice × quantity
func (p *Pricer) LineTotal(product model.Product, quantity int64) decimal.Decimal {
	return p.FinalPrice(product).Mul(decimal.NewFromInt(quantity))
}
