package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// ReviewSvc implémente ports.ReviewService : CRUD des reviews plus le
// ledger des ratings (+1/-1) dont la somme est l'agrégat useful.
// La sérialisation par review (upsert + recalcul de l'agrégat) est portée
// par le repository.
type ReviewSvc struct {
	repo      ports.ReviewRepository
	directory ports.EntityDirectory
	publisher ports.ActivityPublisher
}

func NewReviewService(
	repo ports.ReviewRepository,
	directory ports.EntityDirectory,
	publisher ports.ActivityPublisher,
) *ReviewSvc {
	return &ReviewSvc{repo: repo, directory: directory, publisher: publisher}
}

// --- CRUD ---

func (s *ReviewSvc) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := s.checkFilm(ctx, review.FilmID); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, review.UserID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.record(ctx, created.UserID, domain.OpAdd, created.ID)
	return created, nil
}

func (s *ReviewSvc) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	// Seuls content et is_positive sont modifiables ; l'auteur et le film
	// de la review restent ceux d'origine.
	updated, err := s.repo.Update(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("update review %d: %w", review.ID, err)
	}

	s.record(ctx, updated.UserID, domain.OpUpdate, updated.ID)
	return updated, nil
}

func (s *ReviewSvc) Delete(ctx context.Context, reviewID int64) error {
	removed, err := s.repo.Delete(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", reviewID, err)
	}

	s.record(ctx, removed.UserID, domain.OpRemove, reviewID)
	return nil
}

func (s *ReviewSvc) GetByID(ctx context.Context, reviewID int64) (*domain.Review, error) {
	return s.repo.GetByID(ctx, reviewID)
}

func (s *ReviewSvc) List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	if filmID != 0 {
		if err := s.checkFilm(ctx, filmID); err != nil {
			return nil, err
		}
	}
	if count <= 0 {
		count = DefaultTopCount
	}
	return s.repo.ListByFilm(ctx, filmID, count)
}

// --- RATINGS ---

func (s *ReviewSvc) Rate(ctx context.Context, reviewID, userID int64, value int) error {
	if err := validateRating(value); err != nil {
		return err
	}
	if err := s.checkReview(ctx, reviewID); err != nil {
		return err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}

	if err := s.repo.Rate(ctx, reviewID, userID, value); err != nil {
		return fmt.Errorf("rate review %d by user %d: %w", reviewID, userID, err)
	}

	// Un like/dislike de review part dans le feed comme un LIKE portant
	// sur la review.
	s.recordLike(ctx, userID, domain.OpAdd, reviewID)
	return nil
}

func (s *ReviewSvc) Unrate(ctx context.Context, reviewID, userID int64, value int) error {
	if err := validateRating(value); err != nil {
		return err
	}
	if err := s.checkReview(ctx, reviewID); err != nil {
		return err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}

	removed, err := s.repo.Unrate(ctx, reviewID, userID, value)
	if err != nil {
		return fmt.Errorf("unrate review %d by user %d: %w", reviewID, userID, err)
	}

	// "Remove dislike" quand le rating stocké est un like = no-op : rien
	// n'a muté, donc pas d'événement.
	if removed {
		s.recordLike(ctx, userID, domain.OpRemove, reviewID)
	}
	return nil
}

func (s *ReviewSvc) UsefulnessOf(ctx context.Context, reviewID int64) (int64, error) {
	return s.repo.Usefulness(ctx, reviewID)
}

// --- Helpers ---

func validateRating(value int) error {
	if value != domain.RatingLike && value != domain.RatingDislike {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidRating, value)
	}
	return nil
}

func (s *ReviewSvc) record(ctx context.Context, userID int64, op domain.Operation, reviewID int64) {
	if err := s.publisher.Record(ctx, userID, domain.EventReview, op, reviewID); err != nil {
		slog.Error("failed to publish review event", "user_id", userID, "op", op, "error", err)
	}
}

func (s *ReviewSvc) recordLike(ctx context.Context, userID int64, op domain.Operation, reviewID int64) {
	if err := s.publisher.Record(ctx, userID, domain.EventLike, op, reviewID); err != nil {
		slog.Error("failed to publish review rating event", "user_id", userID, "op", op, "error", err)
	}
}

func (s *ReviewSvc) checkReview(ctx context.Context, reviewID int64) error {
	if _, err := s.repo.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return err
		}
		return fmt.Errorf("check review %d: %w", reviewID, err)
	}
	return nil
}

func (s *ReviewSvc) checkUser(ctx context.Context, userID int64) error {
	ok, err := s.directory.Exists(ctx, domain.KindUser, userID)
	if err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}
	return nil
}

func (s *ReviewSvc) checkFilm(ctx context.Context, filmID int64) error {
	ok, err := s.directory.Exists(ctx, domain.KindFilm, filmID)
	if err != nil {
		return fmt.Errorf("check film %d: %w", filmID, err)
	}
	if !ok {
		return fmt.Errorf("film %d: %w", filmID, domain.ErrFilmNotFound)
	}
	return nil
}
