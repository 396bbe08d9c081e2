package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品（カタログ）
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	//カテゴリは任意
	Category  *string   `gorm:"type:varchar(100);index" json:"category"`
	IsNew     bool      `gorm:"not null;default:false;index" json:"is_new"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
