package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// --- DTOs (les tags JSON restent dans l'adapter, jamais dans le domaine) ---

type relationStatusDTO struct {
	IsFollowing  bool `json:"isFollowing"`
	IsFollowedBy bool `json:"isFollowedBy"`
	IsMutual     bool `json:"isMutual"`
}

type filmRankDTO struct {
	FilmID int64 `json:"filmId"`
	Likes  int64 `json:"likes"`
}

type eventDTO struct {
	EventID   int64  `json:"eventId"`
	Timestamp int64  `json:"timestamp"`
	UserID    int64  `json:"userId"`
	EventType string `json:"eventType"`
	Operation string `json:"operation"`
	EntityID  int64  `json:"entityId"`
}

// --- Friendships ---

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pathPair(r, "id", "friendId")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.friendships.AddFriend(r.Context(), userID, friendID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pathPair(r, "id", "friendId")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.friendships.RemoveFriend(r.Context(), userID, friendID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleGetFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	friends, err := s.friendships.GetFriends(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, friends)
}

func (s *Server) handleCommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, otherID, err := pathPair(r, "id", "otherId")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	common, err := s.friendships.GetCommonFriends(r.Context(), userID, otherID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, common)
}

func (s *Server) handleRelationStatus(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pathPair(r, "id", "friendId")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	status, err := s.friendships.CheckRelation(r.Context(), userID, friendID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, relationStatusDTO{
		IsFollowing:  status.IsFollowing,
		IsFollowedBy: status.IsFollowedBy,
		IsMutual:     status.IsMutual,
	})
}

// --- Likes ---

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := pathPair(r, "id", "userId")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.likes.LikeFilm(r.Context(), filmID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := pathPair(r, "id", "userId")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.likes.UnlikeFilm(r.Context(), filmID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCountLikes(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	count, err := s.likes.CountLikes(r.Context(), filmID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"filmId": filmID, "likes": count})
}

// --- Rankings ---

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 0)
	genreID := queryInt64(r, "genreId", 0)
	year := queryInt64(r, "year", 0)

	ranks, err := s.ranking.TopByLikes(r.Context(), count, genreID, year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRankDTOs(ranks))
}

func (s *Server) handleCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID := queryInt64(r, "userId", 0)
	friendID := queryInt64(r, "friendId", 0)

	ranks, err := s.ranking.CommonFilms(r.Context(), userID, friendID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRankDTOs(ranks))
}

// --- Recommendations ---

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	films, err := s.recommendations.Recommend(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, films)
}

// --- Feed ---

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	events, err := s.feed.GetFeed(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, eventDTO{
			EventID:   event.ID,
			Timestamp: event.Timestamp,
			UserID:    event.UserID,
			EventType: string(event.Type),
			Operation: string(event.Operation),
			EntityID:  event.EntityID,
		})
	}
	respondJSON(w, http.StatusOK, dtos)
}

// --- Helpers ---

func toRankDTOs(ranks []domain.FilmRank) []filmRankDTO {
	dtos := make([]filmRankDTO, 0, len(ranks))
	for _, rank := range ranks {
		dtos = append(dtos, filmRankDTO{FilmID: rank.FilmID, Likes: rank.Likes})
	}
	return dtos
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return id, nil
}

func pathPair(r *http.Request, firstKey, secondKey string) (int64, int64, error) {
	first, err := pathID(r, firstKey)
	if err != nil {
		return 0, 0, err
	}
	second, err := pathID(r, secondKey)
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return fallback
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	if raw := r.URL.Query().Get(key); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}
