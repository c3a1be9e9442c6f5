package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/access"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the admin account CRUD plus the self-service
// "me" endpoints. The me routes take a strict auth middleware so an
// anonymous caller gets 401 before any handler logic runs.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, strictAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("/me", strictAuth, h.GetMe)
		users.PATCH("/me", strictAuth, h.UpdateMe)

		users.GET("", h.List)
		users.GET("/:username", h.Get)
		users.POST("", h.Create)
		users.PUT("/:username", h.Update)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// GET /api/v1/users?search=&page=&page_size=
func (h *UserHandler) List(c *gin.Context) {
	if !authorize(c, access.KindUser, access.List, "") {
		return
	}

	page, pageSize := pagination(c)
	users, total, err := h.userService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.FromUserModel(&users[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(items, total, page, pageSize))
}

// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	if !authorize(c, access.KindUser, access.Retrieve, "") {
		return
	}

	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(user))
}

// POST /api/v1/users
// Admin-side creation; the account still confirms through email before it
// can obtain a token.
func (h *UserHandler) Create(c *gin.Context) {
	if !authorize(c, access.KindUser, access.Create, "") {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUserModel(user))
}

// PUT/PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	if !authorize(c, access.KindUser, access.Update, "") {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(user))
}

// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if !authorize(c, access.KindUser, access.Destroy, "") {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(user))
}

// PATCH /api/v1/users/me
// Any role in the payload is discarded, not rejected.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), middleware.Actor(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(user))
}
