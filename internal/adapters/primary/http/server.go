// Package http est l'adapter Driving REST : il traduit les routes de l'API
// publique vers les ports du core, sans aucune logique métier.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/flicknet/internal/core/ports"
)

type Server struct {
	friendships     ports.FriendshipService
	likes           ports.LikeService
	ranking         ports.RankingService
	recommendations ports.RecommendationService
	reviews         ports.ReviewService
	feed            ports.FeedService
}

func NewServer(
	friendships ports.FriendshipService,
	likes ports.LikeService,
	ranking ports.RankingService,
	recommendations ports.RecommendationService,
	reviews ports.ReviewService,
	feed ports.FeedService,
) *Server {
	return &Server{
		friendships:     friendships,
		likes:           likes,
		ranking:         ranking,
		recommendations: recommendations,
		reviews:         reviews,
		feed:            feed,
	}
}

// Router assemble les routes + la stack middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Default().Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/users/{id}", func(r chi.Router) {
		r.Put("/friends/{friendId}", s.handleAddFriend)
		r.Delete("/friends/{friendId}", s.handleRemoveFriend)
		r.Get("/friends", s.handleGetFriends)
		r.Get("/friends/common/{otherId}", s.handleCommonFriends)
		r.Get("/friends/{friendId}/status", s.handleRelationStatus)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/feed", s.handleFeed)
	})

	r.Route("/films", func(r chi.Router) {
		r.Get("/popular", s.handlePopular)
		r.Get("/common", s.handleCommonFilms)
		r.Put("/{id}/like/{userId}", s.handleLike)
		r.Delete("/{id}/like/{userId}", s.handleUnlike)
		r.Get("/{id}/likes", s.handleCountLikes)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", s.handleCreateReview)
		r.Put("/", s.handleUpdateReview)
		r.Get("/", s.handleListReviews)
		r.Get("/{id}", s.handleGetReview)
		r.Delete("/{id}", s.handleDeleteReview)
		r.Put("/{id}/like/{userId}", s.handleRateReview(1))
		r.Put("/{id}/dislike/{userId}", s.handleRateReview(-1))
		r.Delete("/{id}/like/{userId}", s.handleUnrateReview(1))
		r.Delete("/{id}/dislike/{userId}", s.handleUnrateReview(-1))
	})

	// Le wrapper otelhttp trace toutes les requêtes entrantes.
	return otelhttp.NewHandler(r, "http.server")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
