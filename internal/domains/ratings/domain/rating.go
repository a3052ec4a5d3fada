package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTarget       = errors.New("target_id is required")
	ErrInvalidTargetType = errors.New("target_type must be product or seller")
	ErrScoreOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrEmptyCustomer     = errors.New("customer_id is required")
	ErrReviewTooLong     = errors.New("review must be at most 2000 characters")
)

const (
	MinScore        = 1
	MaxScore        = 5
	maxReviewLength = 2000
)

// TargetType names what a rating is about.
type TargetType string

const (
	TargetProduct TargetType = "product"
	TargetSeller  TargetType = "seller"
)

// ParseTargetType accepts product or seller in any case.
func ParseTargetType(raw string) (TargetType, error) {
	switch t := TargetType(strings.ToLower(strings.TrimSpace(raw))); t {
	case TargetProduct, TargetSeller:
		return t, nil
	default:
		return "", ErrInvalidTargetType
	}
}

// Rating is one customer's score for a product or a seller.
type Rating struct {
	ID         string
	TargetID   string
	TargetType TargetType
	Score      int
	Review     string
	CustomerID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewRating(targetID string, targetType TargetType, score int, review, customerID string) (*Rating, error) {
	r := &Rating{
		TargetID:   targetID,
		TargetType: targetType,
		Score:      score,
		Review:     review,
		CustomerID: customerID,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate normalises the rating and enforces the score range.
func (r *Rating) Validate() error {
	r.TargetID = strings.TrimSpace(r.TargetID)
	if r.TargetID == "" {
		return ErrEmptyTarget
	}
	targetType, err := ParseTargetType(string(r.TargetType))
	if err != nil {
		return err
	}
	r.TargetType = targetType
	if r.Score < MinScore || r.Score > MaxScore {
		return ErrScoreOutOfRange
	}
	r.Review = strings.TrimSpace(r.Review)
	if len([]rune(r.Review)) > maxReviewLength {
		return ErrReviewTooLong
	}
	r.CustomerID = strings.TrimSpace(r.CustomerID)
	if r.CustomerID == "" {
		return ErrEmptyCustomer
	}
	return nil
}

// Summary is the aggregate score of one target.
type Summary struct {
	Average float64
	Total   int
}

// Summarize averages the scores, rounded half away from zero to two decimals.
func Summarize(ratings []*Rating) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	sum := int64(0)
	for _, r := range ratings {
		sum += int64(r.Score)
	}
	avg, _ := decimal.NewFromInt(sum).
		DivRound(decimal.NewFromInt(int64(len(ratings))), 4).
		Round(2).
		Float64()
	return Summary{Average: avg, Total: len(ratings)}
}
