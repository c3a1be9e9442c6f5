package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Get(ctx context.Context, slug string) (*models.Genre, error)
	Create(ctx context.Context, name, slug string) (*models.Genre, error)
	Update(ctx context.Context, slug string, name, newSlug *string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *genreService) Get(ctx context.Context, slug string) (*models.Genre, error) {
	genre, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Create(ctx context.Context, name, slug string) (*models.Genre, error) {
	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Update(ctx context.Context, slug string, name, newSlug *string) (*models.Genre, error) {
	genre, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if name != nil {
		genre.Name = *name
	}
	if newSlug != nil {
		genre.Slug = *newSlug
	}
	if err := s.repo.Update(ctx, genre); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
