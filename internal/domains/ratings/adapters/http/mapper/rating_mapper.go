package mapper

import (
	"time"

	ratingdomain "github.com/Apurer/petify-api/internal/domains/ratings/domain"
	ratingports "github.com/Apurer/petify-api/internal/domains/ratings/ports"
)

// Rating is the transport shape of a rating.
type Rating struct {
	ID         string    `json:"_id"`
	TargetID   string    `json:"target_id"`
	TargetType string    `json:"target_type"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Summary is the aggregate score of one target.
type Summary struct {
	TargetID     string  `json:"target_id"`
	TargetType   string  `json:"target_type"`
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int     `json:"total_reviews"`
}

// CreateRating is the POST /ratings body.
type CreateRating struct {
	TargetID   string `json:"target_id"`
	TargetType string `json:"target_type"`
	Rating     int    `json:"rating"`
	Review     string `json:"review"`
	CustomerID string `json:"customer_id"`
}

// UpdateRating is the PUT /ratings/:id body.
type UpdateRating struct {
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}

// SummaryTarget names the target of a summary refresh.
type SummaryTarget struct {
	TargetID   string `json:"target_id" binding:"required"`
	TargetType string `json:"target_type" binding:"required"`
}

func ToCreateInput(body CreateRating) ratingports.CreateInput {
	return ratingports.CreateInput{
		TargetID:   body.TargetID,
		TargetType: body.TargetType,
		Score:      body.Rating,
		Review:     body.Review,
		CustomerID: body.CustomerID,
	}
}

func ToUpdateInput(id string, body UpdateRating, actor ratingports.Actor) ratingports.UpdateInput {
	return ratingports.UpdateInput{ID: id, Score: body.Rating, Review: body.Review, Actor: actor}
}

func FromRating(r *ratingdomain.Rating) Rating {
	if r == nil {
		return Rating{}
	}
	return Rating{
		ID:         r.ID,
		TargetID:   r.TargetID,
		TargetType: string(r.TargetType),
		Rating:     r.Score,
		Review:     r.Review,
		CustomerID: r.CustomerID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromRatings(list []*ratingdomain.Rating) []Rating {
	out := make([]Rating, 0, len(list))
	for _, r := range list {
		out = append(out, FromRating(r))
	}
	return out
}

func FromSummary(targetType, targetID string, s ratingdomain.Summary) Summary {
	return Summary{TargetID: targetID, TargetType: targetType, AvgRating: s.Average, TotalReviews: s.Total}
}
