package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/access"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category routes; reads are public, writes go
// through the admin-only catalog rule.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/:slug", h.Get)
		categories.POST("", h.Create)
		categories.PUT("/:slug", h.Update)
		categories.PATCH("/:slug", h.Update)
		categories.DELETE("/:slug", h.Delete)
	}
}

// List returns categories, optionally filtered by name.
// GET /api/v1/categories?search=&page=&page_size=
func (h *CategoryHandler) List(c *gin.Context) {
	if !authorize(c, access.KindCategory, access.List, "") {
		return
	}

	page, pageSize := pagination(c)
	categories, total, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]dto.SlugResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.SlugResponse{Name: category.Name, Slug: category.Slug})
	}
	c.JSON(http.StatusOK, dto.NewPaginated(items, total, page, pageSize))
}

// GET /api/v1/categories/:slug
func (h *CategoryHandler) Get(c *gin.Context) {
	if !authorize(c, access.KindCategory, access.Retrieve, "") {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SlugResponse{Name: category.Name, Slug: category.Slug})
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	if !authorize(c, access.KindCategory, access.Create, "") {
		return
	}

	var req dto.CreateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SlugResponse{Name: category.Name, Slug: category.Slug})
}

// PUT/PATCH /api/v1/categories/:slug
func (h *CategoryHandler) Update(c *gin.Context) {
	if !authorize(c, access.KindCategory, access.Update, "") {
		return
	}

	var req dto.UpdateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), c.Param("slug"), req.Name, req.Slug)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SlugResponse{Name: category.Name, Slug: category.Slug})
}

// DELETE /api/v1/categories/:slug
// Titles in the deleted category survive with a nulled category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if !authorize(c, access.KindCategory, access.Destroy, "") {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
