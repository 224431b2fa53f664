package ports

import (
	"context"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// --- DRIVEN (Ce dont le core a besoin) ---

// FriendshipRepository est le port Driven du graphe d'amitié.
// AddFriend et RemoveFriend recalculent le flag mutual des deux arêtes de
// façon atomique (transaction ou lock interne) : c'est le point de
// sérialisation par paire exigé pour éviter un mutual incohérent.
type FriendshipRepository interface {
	// AddFriend insère l'arête owner->target si absente (idempotent), puis
	// passe les deux arêtes à mutual=true si l'arête inverse existe.
	AddFriend(ctx context.Context, ownerID, targetID int64) error

	// RemoveFriend supprime owner->target si présente (no-op sinon).
	// L'arête inverse, si présente, survit mais repasse à mutual=false.
	RemoveFriend(ctx context.Context, ownerID, targetID int64) error

	FriendIDs(ctx context.Context, ownerID int64) ([]int64, error)
	CommonFriendIDs(ctx context.Context, userID, otherID int64) ([]int64, error)
	RelationStatus(ctx context.Context, ownerID, targetID int64) (*domain.RelationStatus, error)
}

// LikeRepository est le port Driven de l'index de likes (sémantique de set).
type LikeRepository interface {
	Like(ctx context.Context, filmID, userID int64) error   // upsert, idempotent
	Unlike(ctx context.Context, filmID, userID int64) error // no-op si absent
	CountLikes(ctx context.Context, filmID int64) (int64, error)
	LikerIDs(ctx context.Context, filmID int64) ([]int64, error)
	LikedFilmIDs(ctx context.Context, userID int64) ([]int64, error)

	// CountByFilm renvoie le nombre de likes pour chaque film demandé
	// (0 inclus). Utilisé par le ranker pour classer un ensemble candidat.
	CountByFilm(ctx context.Context, filmIDs []int64) (map[int64]int64, error)
}

// ReviewRepository est le port Driven des reviews et de leurs ratings.
// Rate et Unrate recalculent l'agrégat useful dans la même unité atomique
// que l'upsert/delete du rating (sérialisation par review).
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, reviewID int64) (*domain.Review, error)
	GetByID(ctx context.Context, reviewID int64) (*domain.Review, error)
	ListByFilm(ctx context.Context, filmID int64, count int) ([]*domain.Review, error)

	// Rate fait l'upsert du rating (clé review+user, remplace l'ancien) et
	// recalcule useful.
	Rate(ctx context.Context, reviewID, userID int64, value int) error

	// Unrate supprime le rating uniquement si la valeur stockée correspond
	// à value ; renvoie true si une ligne a bien été supprimée.
	Unrate(ctx context.Context, reviewID, userID int64, value int) (bool, error)

	Usefulness(ctx context.Context, reviewID int64) (int64, error)
}

// FeedRepository est la source de vérité du feed (append-only).
type FeedRepository interface {
	// Append persiste l'événement et lui attribue un ID monotone croissant.
	Append(ctx context.Context, event *domain.Event) (*domain.Event, error)

	// EventsByUser renvoie le feed trié timestamp croissant, ordre
	// d'insertion stable à timestamp égal.
	EventsByUser(ctx context.Context, userID int64) ([]*domain.Event, error)
}

// FeedCache est le cache de lecture du feed (Redis). Optionnel : un miss
// déclenche un fallback sur le FeedRepository.
type FeedCache interface {
	Push(ctx context.Context, event *domain.Event) error
	// Timeline renvoie (events, true) si la timeline est en cache,
	// (nil, false) sur un miss.
	Timeline(ctx context.Context, userID int64) ([]*domain.Event, bool, error)
	Warm(ctx context.Context, userID int64, events []*domain.Event) error
}

// EntityDirectory est le collaborateur externe (catalogue) : vérification
// d'existence des ids référencés avant toute mutation.
type EntityDirectory interface {
	Exists(ctx context.Context, kind domain.EntityKind, id int64) (bool, error)

	// FilmIDs renvoie l'ensemble candidat pour le ranker. genreID/year à 0
	// = pas de filtre.
	FilmIDs(ctx context.Context, genreID, year int64) ([]int64, error)
}

// ActivityPublisher est le FeedSink : chaque action sociale mutante
// l'appelle exactement une fois APRÈS que sa propre mutation a réussi.
type ActivityPublisher interface {
	Record(ctx context.Context, userID int64, t domain.EventType, op domain.Operation, entityID int64) error
}
