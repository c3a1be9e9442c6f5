package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text,omitempty"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	ReviewID  int64     `json:"review_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromCommentModel(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Author:    c.Author.Username,
		ReviewID:  c.ReviewID,
		CreatedAt: c.CreatedAt,
	}
}
