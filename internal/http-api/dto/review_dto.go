package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text,omitempty"`
	Score *int    `json:"score,omitempty"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	Author    string    `json:"author"`
	TitleID   int64     `json:"title_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromReviewModel(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Text:      r.Text,
		Score:     r.Score,
		Author:    r.Author.Username,
		TitleID:   r.TitleID,
		CreatedAt: r.CreatedAt,
	}
}
