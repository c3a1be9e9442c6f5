package dto

// Categories and genres share the same shape: a display name plus a
// URL-safe unique slug.

type CreateSlugRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type UpdateSlugRequest struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
}

type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
