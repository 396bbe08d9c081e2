package validator

import (
	"strings"

	"storefront/internal/domain/model"
)

const (
	MobileMinDigits = 10
	MobileMaxDigits = 15
)

const (
	MsgCustomerNameRequired = "customer name is required"
	MsgMobileInvalid        = "mobile must be 10 to 15 digits"
	MsgEmailInvalid         = "email must contain @"
	MsgQuantityOutOfRange   = "quantity must be between 1 and 10"
)

// 注文者情報（buy now とカートのチェックアウトで共通）
type OrderContact struct {
	CustomerName string
	Mobile       string
	Email        string
}

func ValidateOrderContact(in OrderContact) Violations {
	var v Violations

	if isBlank(in.CustomerName) {
		v.Add(MsgCustomerNameRequired)
	}
	if !IsValidMobile(in.Mobile) {
		v.Add(MsgMobileInvalid)
	}
	if !strings.Contains(in.Email, "@") {
		v.Add(MsgEmailInvalid)
	}

	return v
}

// buy now の入力（連絡先 + 数量）
func ValidatePlaceOrder(in OrderContact, quantity int64) Violations {
	v := ValidateOrderContact(in)
	if quantity < model.OrderMinQuantity || quantity > model.OrderMaxQuantity {
		v.Add(MsgQuantityOutOfRange)
	}
	return v
}

// 数字だけで10〜15桁
func IsValidMobile(mobile string) bool {
	if len(mobile) < MobileMinDigits || len(mobile) > MobileMaxDigits {
		return false
	}
	for _, r := range mobile {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const MsgCartEmpty = "cart is empty"
