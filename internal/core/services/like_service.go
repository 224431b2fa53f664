package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// LikeSvc implémente ports.LikeService. L'idempotence (liker deux fois = un
// seul like) est garantie par l'upsert du repository.
type LikeSvc struct {
	repo      ports.LikeRepository
	directory ports.EntityDirectory
	publisher ports.ActivityPublisher
}

func NewLikeService(
	repo ports.LikeRepository,
	directory ports.EntityDirectory,
	publisher ports.ActivityPublisher,
) *LikeSvc {
	return &LikeSvc{repo: repo, directory: directory, publisher: publisher}
}

func (s *LikeSvc) LikeFilm(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	if err := s.repo.Like(ctx, filmID, userID); err != nil {
		return fmt.Errorf("like film %d by user %d: %w", filmID, userID, err)
	}

	s.record(ctx, userID, domain.OpAdd, filmID)
	return nil
}

func (s *LikeSvc) UnlikeFilm(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	if err := s.repo.Unlike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("unlike film %d by user %d: %w", filmID, userID, err)
	}

	s.record(ctx, userID, domain.OpRemove, filmID)
	return nil
}

func (s *LikeSvc) CountLikes(ctx context.Context, filmID int64) (int64, error) {
	if err := s.checkFilm(ctx, filmID); err != nil {
		return 0, err
	}
	return s.repo.CountLikes(ctx, filmID)
}

func (s *LikeSvc) record(ctx context.Context, userID int64, op domain.Operation, filmID int64) {
	if err := s.publisher.Record(ctx, userID, domain.EventLike, op, filmID); err != nil {
		slog.Error("failed to publish like event", "user_id", userID, "op", op, "error", err)
	}
}

func (s *LikeSvc) checkFilmAndUser(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilm(ctx, filmID); err != nil {
		return err
	}
	ok, err := s.directory.Exists(ctx, domain.KindUser, userID)
	if err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}
	return nil
}

func (s *LikeSvc) checkFilm(ctx context.Context, filmID int64) error {
	ok, err := s.directory.Exists(ctx, domain.KindFilm, filmID)
	if err != nil {
		return fmt.Errorf("check film %d: %w", filmID, err)
	}
	if !ok {
		return fmt.Errorf("film %d: %w", filmID, domain.ErrFilmNotFound)
	}
	return nil
}
