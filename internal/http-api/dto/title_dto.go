package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

// CreateTitleRequest used for POST /api/v1/titles. Category and genres are
// referenced by slug, matching the write shape of the catalog endpoints.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// UpdateTitleRequest used for PUT/PATCH (partial updates allowed).
type UpdateTitleRequest struct {
	Name        *string   `json:"name,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Genres      *[]string `json:"genres,omitempty"`
}

// TitleResponse carries nested category/genres and the computed rating
// (null until the first review lands).
type TitleResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *float64       `json:"rating"`
	Description *string        `json:"description,omitempty"`
	Category    *SlugResponse  `json:"category"`
	Genres      []SlugResponse `json:"genres"`
	CreatedAt   time.Time      `json:"created_at"`
}

func FromTitleModel(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genres:      make([]SlugResponse, 0, len(t.Genres)),
		CreatedAt:   t.CreatedAt,
	}
	if t.Category != nil {
		resp.Category = &SlugResponse{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	for _, g := range t.Genres {
		resp.Genres = append(resp.Genres, SlugResponse{Name: g.Name, Slug: g.Slug})
	}
	return resp
}
