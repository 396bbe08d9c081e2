package validator

import (
	"strings"

	"storefront/internal/domain/model"
)

const (
	MsgCommentRequired  = "comment is required"
	MsgCommentTooShort  = "comment must be at least 10 characters"
	MsgRatingOutOfRange = "rating must be between 1 and 5"
	MsgAlreadyReviewed  = "you have already reviewed this product"
)

// 重複レビューのチェックはDBが要るので usecase 側で足す
func ValidateFeedback(comment string, rating int) Violations {
	var v Violations

	c := strings.TrimSpace(comment)
	switch {
	case c == "":
		v.Add(MsgCommentRequired)
	case runeLen(c) < model.FeedbackMinCommentLength:
		v.Add(MsgCommentTooShort)
	}

	if rating < model.FeedbackMinRating || rating > model.FeedbackMaxRating {
		v.Add(MsgRatingOutOfRange)
	}

	return v
}
