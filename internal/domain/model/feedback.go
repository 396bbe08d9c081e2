package model

import "time"

const (
	FeedbackMinRating        = 1
	FeedbackMaxRating        = 5
	FeedbackMinCommentLength = 10
)

// 商品レビュー（1ユーザー×1商品につき1件）
type Feedback struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_feedback_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_feedback_user_product;index" json:"product_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
