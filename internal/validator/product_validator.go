package validator

import "github.com/shopspring/decimal"

const (
	MsgNameRequired     = "name is required"
	MsgNameTooLong      = "name must be at most 100 characters"
	MsgPriceNegative    = "price must be >= 0"
	MsgDiscountNegative = "discount must be >= 0"
)

const ProductNameMaxLength = 100

type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Discount decimal.Decimal
}

func ValidateProduct(in ProductInput) Violations {
	var v Violations

	if isBlank(in.Name) {
		v.Add(MsgNameRequired)
	} else if runeLen(in.Name) > ProductNameMaxLength {
		v.Add(MsgNameTooLong)
	}
	if in.Price.IsNegative() {
		v.Add(MsgPriceNegative)
	}
	if in.Discount.IsNegative() {
		v.Add(MsgDiscountNegative)
	}

	return v
}
