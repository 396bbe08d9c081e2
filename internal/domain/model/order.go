package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// 1回で買える数量
const (
	OrderMinQuantity int64 = 1
	OrderMaxQuantity int64 = 10
)

// 注文（作成後のtotal_amountは変えない）
type Order struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64           `gorm:"not null;index" json:"user_id"`
	ProductID    int64           `gorm:"not null;index" json:"product_id"`
	Product      Product         `gorm:"constraint:OnDelete:RESTRICT" json:"product"`
	CustomerName string          `gorm:"type:varchar(100);not null" json:"customer_name"`
	Email        string          `gorm:"type:varchar(254);not null" json:"email"`
	Mobile       string          `gorm:"type:varchar(15);not null" json:"mobile"`
	Address      *string         `gorm:"type:text" json:"address"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
