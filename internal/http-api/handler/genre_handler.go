package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/access"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/service"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)
		genres.GET("/:slug", h.Get)
		genres.POST("", h.Create)
		genres.PUT("/:slug", h.Update)
		genres.PATCH("/:slug", h.Update)
		genres.DELETE("/:slug", h.Delete)
	}
}

// GET /api/v1/genres?search=&page=&page_size=
func (h *GenreHandler) List(c *gin.Context) {
	if !authorize(c, access.KindGenre, access.List, "") {
		return
	}

	page, pageSize := pagination(c)
	genres, total, err := h.genreService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]dto.SlugResponse, 0, len(genres))
	for _, genre := range genres {
		items = append(items, dto.SlugResponse{Name: genre.Name, Slug: genre.Slug})
	}
	c.JSON(http.StatusOK, dto.NewPaginated(items, total, page, pageSize))
}

// GET /api/v1/genres/:slug
func (h *GenreHandler) Get(c *gin.Context) {
	if !authorize(c, access.KindGenre, access.Retrieve, "") {
		return
	}

	genre, err := h.genreService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SlugResponse{Name: genre.Name, Slug: genre.Slug})
}

// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	if !authorize(c, access.KindGenre, access.Create, "") {
		return
	}

	var req dto.CreateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SlugResponse{Name: genre.Name, Slug: genre.Slug})
}

// PUT/PATCH /api/v1/genres/:slug
func (h *GenreHandler) Update(c *gin.Context) {
	if !authorize(c, access.KindGenre, access.Update, "") {
		return
	}

	var req dto.UpdateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Update(c.Request.Context(), c.Param("slug"), req.Name, req.Slug)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SlugResponse{Name: genre.Name, Slug: genre.Slug})
}

// DELETE /api/v1/genres/:slug
// Titles keep their remaining genres; the link rows go with the genre.
func (h *GenreHandler) Delete(c *gin.Context) {
	if !authorize(c, access.KindGenre, access.Destroy, "") {
		return
	}

	if err := h.genreService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
