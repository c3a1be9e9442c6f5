package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/cache"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/validation"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("a review for this title by this author already exists")
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, titleID int64, authorID, text string, score int) (*models.Review, error)
	Update(ctx context.Context, review *models.Review, text *string, score *int) (*models.Review, error)
	Delete(ctx context.Context, review *models.Review) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	ratings *cache.RatingCache,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
		logger:     logger,
	}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
}

// Get fetches a review and checks it actually belongs to the title in the
// URL, so nested routes cannot address a review through the wrong parent.
func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// Create enforces the one-review-per-(author, title) rule twice: a
// pre-check for the common case and the unique constraint for races.
func (s *reviewService) Create(ctx context.Context, titleID int64, authorID, text string, score int) (*models.Review, error) {
	if err := validation.Score(score); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, authorID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		Text:     text,
		Score:    score,
		TitleID:  titleID,
		AuthorID: authorID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	s.invalidateRating(ctx, titleID)
	return s.reviewRepo.GetByID(ctx, review.ID)
}

func (s *reviewService) Update(ctx context.Context, review *models.Review, text *string, score *int) (*models.Review, error) {
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		if err := validation.Score(*score); err != nil {
			return nil, err
		}
		review.Score = *score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateRating(ctx, review.TitleID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, review *models.Review) error {
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.invalidateRating(ctx, review.TitleID)
	return nil
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) invalidateRating(ctx context.Context, titleID int64) {
	if err := s.ratings.Invalidate(ctx, titleID); err != nil {
		s.logger.Warn("invalidate rating cache", "title_id", titleID, "error", err)
	}
}
