package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/access"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes registers title routes. The path parameter is named
// title_id everywhere so the nested review routes share the same segment.
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.GET("/:title_id", h.Get)
		titles.POST("", h.Create)
		titles.PUT("/:title_id", h.Update)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

// List returns titles filtered by name substring, exact year, category
// slug and genre slug, all combinable.
// GET /api/v1/titles?name=&year=&category=&genre=&page=&page_size=
func (h *TitleHandler) List(c *gin.Context) {
	if !authorize(c, access.KindTitle, access.List, "") {
		return
	}

	filter := repository.TitleFilter{
		Name:         c.Query("name"),
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filter.Year = year
	}

	page, pageSize := pagination(c)
	titles, total, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		items = append(items, dto.FromTitleModel(&titles[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(items, total, page, pageSize))
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	if !authorize(c, access.KindTitle, access.Retrieve, "") {
		return
	}
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitleModel(title))
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	if !authorize(c, access.KindTitle, access.Create, "") {
		return
	}

	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTitleModel(title))
}

// PUT/PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	if !authorize(c, access.KindTitle, access.Update, "") {
		return
	}
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitleModel(title))
}

// DELETE /api/v1/titles/:title_id
// Reviews and comments under the title cascade away with it.
func (h *TitleHandler) Delete(c *gin.Context) {
	if !authorize(c, access.KindTitle, access.Destroy, "") {
		return
	}
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
