package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/service"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, authorID, text string, score int) (*models.Review, error) {
	args := m.Called(ctx, titleID, authorID, text, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, review *models.Review, text *string, score *int) (*models.Review, error) {
	args := m.Called(ctx, review, text, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func moderatorClaims() *service.Claims {
	return &service.Claims{UserID: "mod-1", Username: "mod", Role: models.RoleModerator}
}

func storedReview() *models.Review {
	return &models.Review{ID: 42, Text: "fine", Score: 7, TitleID: 7, AuthorID: "u-1"}
}

func TestCreateReview_AnonymousGets401(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(nil)
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	body, _ := json.Marshal(map[string]any{"text": "fine", "score": 7})
	req, _ := http.NewRequest("POST", "/api/v1/titles/7/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReview_AuthorIsTheCaller(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(userClaims())
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	created := storedReview()
	mockService.On("Create", mock.Anything, int64(7), "u-1", "fine", 7).Return(created, nil)

	body, _ := json.Marshal(map[string]any{"text": "fine", "score": 7})
	req, _ := http.NewRequest("POST", "/api/v1/titles/7/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateReview_DuplicateIsConflict(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(userClaims())
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	mockService.On("Create", mock.Anything, int64(7), "u-1", "again", 5).Return(nil, service.ErrDuplicateReview)

	body, _ := json.Marshal(map[string]any{"text": "again", "score": 5})
	req, _ := http.NewRequest("POST", "/api/v1/titles/7/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateReview_OwnerAllowed(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(userClaims())
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	existing := storedReview()
	mockService.On("Get", mock.Anything, int64(7), int64(42)).Return(existing, nil)
	mockService.On("Update", mock.Anything, existing, mock.Anything, mock.Anything).Return(existing, nil)

	body, _ := json.Marshal(map[string]any{"text": "edited"})
	req, _ := http.NewRequest("PATCH", "/api/v1/titles/7/reviews/42", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateReview_StrangerGets403(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(&service.Claims{UserID: "u-2", Username: "other", Role: models.RoleUser})
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	mockService.On("Get", mock.Anything, int64(7), int64(42)).Return(storedReview(), nil)

	body, _ := json.Marshal(map[string]any{"text": "hijack"})
	req, _ := http.NewRequest("PATCH", "/api/v1/titles/7/reviews/42", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReview_ModeratorAllowed(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(moderatorClaims())
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	existing := storedReview()
	mockService.On("Get", mock.Anything, int64(7), int64(42)).Return(existing, nil)
	mockService.On("Delete", mock.Anything, existing).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/titles/7/reviews/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetReview_WrongParentIs404(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(nil)
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	mockService.On("Get", mock.Anything, int64(8), int64(42)).Return(nil, service.ErrReviewNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/titles/8/reviews/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReviews_BadTitleIDIs400(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupRouter(nil)
	NewReviewHandler(mockService).RegisterRoutes(router.Group("/api/v1"))

	req, _ := http.NewRequest("GET", "/api/v1/titles/abc/reviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
