package ports

import (
	"context"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// --- DRIVING (Ce que le core expose à l'API) ---

// FriendshipService gère le graphe d'amitié (follows dirigés + flag mutual).
type FriendshipService interface {
	AddFriend(ctx context.Context, ownerID, targetID int64) error
	RemoveFriend(ctx context.Context, ownerID, targetID int64) error
	GetFriends(ctx context.Context, ownerID int64) ([]int64, error)
	GetCommonFriends(ctx context.Context, userID, otherID int64) ([]int64, error)
	CheckRelation(ctx context.Context, ownerID, targetID int64) (*domain.RelationStatus, error)
}

// LikeService gère la relation user<->film "liked".
type LikeService interface {
	LikeFilm(ctx context.Context, filmID, userID int64) error
	UnlikeFilm(ctx context.Context, filmID, userID int64) error
	CountLikes(ctx context.Context, filmID int64) (int64, error)
}

// RankingService dérive des classements de films depuis l'index de likes.
type RankingService interface {
	// TopByLikes renvoie les n films les plus likés. genreID/year à 0 = pas
	// de filtre. Les filtres restreignent les candidats AVANT classement,
	// mais le compteur reste le total de likes du film.
	TopByLikes(ctx context.Context, n int, genreID, year int64) ([]domain.FilmRank, error)

	// CommonFilms renvoie les films likés par les DEUX utilisateurs,
	// triés par nombre total de likes décroissant.
	CommonFilms(ctx context.Context, userID, otherID int64) ([]domain.FilmRank, error)
}

// RecommendationService suggère des films par voisinage collaboratif.
type RecommendationService interface {
	Recommend(ctx context.Context, userID int64) ([]int64, error)
}

// ReviewService gère les reviews et leur ledger de ratings (usefulness).
type ReviewService interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, reviewID int64) error
	GetByID(ctx context.Context, reviewID int64) (*domain.Review, error)
	// List renvoie les reviews triées par usefulness décroissante.
	// filmID à 0 = toutes les reviews.
	List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error)

	Rate(ctx context.Context, reviewID, userID int64, value int) error
	Unrate(ctx context.Context, reviewID, userID int64, value int) error
	UsefulnessOf(ctx context.Context, reviewID int64) (int64, error)
}

// FeedService gère le journal d'activité append-only par utilisateur.
type FeedService interface {
	// Append est appelé quand un événement social arrive (via NATS ou en direct).
	Append(ctx context.Context, userID int64, t domain.EventType, op domain.Operation, entityID int64) (*domain.Event, error)

	// GetFeed renvoie les événements de l'utilisateur, timestamp croissant.
	GetFeed(ctx context.Context, userID int64) ([]*domain.Event, error)
}
