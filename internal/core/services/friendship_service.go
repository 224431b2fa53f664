package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

// FriendshipSvc implémente ports.FriendshipService.
// La logique mutual (read-check-then-write sur les deux arêtes) vit dans le
// repository, qui l'exécute atomiquement ; ici on fait la validation des
// ids et l'émission de l'événement feed.
type FriendshipSvc struct {
	repo      ports.FriendshipRepository
	directory ports.EntityDirectory
	publisher ports.ActivityPublisher
}

func NewFriendshipService(
	repo ports.FriendshipRepository,
	directory ports.EntityDirectory,
	publisher ports.ActivityPublisher,
) *FriendshipSvc {
	return &FriendshipSvc{repo: repo, directory: directory, publisher: publisher}
}

func (s *FriendshipSvc) AddFriend(ctx context.Context, ownerID, targetID int64) error {
	if ownerID == targetID {
		return domain.ErrSelfRelation
	}
	if err := s.checkUsers(ctx, ownerID, targetID); err != nil {
		return err
	}

	if err := s.repo.AddFriend(ctx, ownerID, targetID); err != nil {
		return fmt.Errorf("add friend %d -> %d: %w", ownerID, targetID, err)
	}

	s.record(ctx, ownerID, domain.OpAdd, targetID)
	return nil
}

func (s *FriendshipSvc) RemoveFriend(ctx context.Context, ownerID, targetID int64) error {
	if err := s.checkUsers(ctx, ownerID, targetID); err != nil {
		return err
	}

	if err := s.repo.RemoveFriend(ctx, ownerID, targetID); err != nil {
		return fmt.Errorf("remove friend %d -> %d: %w", ownerID, targetID, err)
	}

	s.record(ctx, ownerID, domain.OpRemove, targetID)
	return nil
}

func (s *FriendshipSvc) GetFriends(ctx context.Context, ownerID int64) ([]int64, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.FriendIDs(ctx, ownerID)
}

func (s *FriendshipSvc) GetCommonFriends(ctx context.Context, userID, otherID int64) ([]int64, error) {
	if err := s.checkUsers(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.repo.CommonFriendIDs(ctx, userID, otherID)
}

func (s *FriendshipSvc) CheckRelation(ctx context.Context, ownerID, targetID int64) (*domain.RelationStatus, error) {
	if err := s.checkUsers(ctx, ownerID, targetID); err != nil {
		return nil, err
	}
	return s.repo.RelationStatus(ctx, ownerID, targetID)
}

// record publie l'événement feed en best effort : la mutation a déjà réussi,
// on ne fait pas échouer la requête si le broker est lent/down.
func (s *FriendshipSvc) record(ctx context.Context, ownerID int64, op domain.Operation, targetID int64) {
	if err := s.publisher.Record(ctx, ownerID, domain.EventFriend, op, targetID); err != nil {
		slog.Error("failed to publish friend event", "owner_id", ownerID, "op", op, "error", err)
	}
}

func (s *FriendshipSvc) checkUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if err := s.checkUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *FriendshipSvc) checkUser(ctx context.Context, id int64) error {
	ok, err := s.directory.Exists(ctx, domain.KindUser, id)
	if err != nil {
		return fmt.Errorf("check user %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
	}
	return nil
}
