package http

import (
	"encoding/json"
	"net/http"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

type reviewDTO struct {
	ReviewID   int64  `json:"reviewId"`
	FilmID     int64  `json:"filmId"`
	UserID     int64  `json:"userId"`
	Content    string `json:"content"`
	IsPositive bool   `json:"isPositive"`
	Useful     int64  `json:"useful"`
}

func toReviewDTO(review *domain.Review) reviewDTO {
	return reviewDTO{
		ReviewID:   review.ID,
		FilmID:     review.FilmID,
		UserID:     review.UserID,
		Content:    review.Content,
		IsPositive: review.IsPositive,
		Useful:     review.Useful,
	}
}

func (dto reviewDTO) toDomain() *domain.Review {
	return &domain.Review{
		ID:         dto.ReviewID,
		FilmID:     dto.FilmID,
		UserID:     dto.UserID,
		Content:    dto.Content,
		IsPositive: dto.IsPositive,
	}
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var dto reviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review payload"})
		return
	}

	created, err := s.reviews.Create(r.Context(), dto.toDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReviewDTO(created))
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var dto reviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review payload"})
		return
	}

	updated, err := s.reviews.Update(r.Context(), dto.toDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReviewDTO(updated))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	review, err := s.reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReviewDTO(review))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.reviews.Delete(r.Context(), reviewID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// handleListReviews : ?filmId= limite à un film, ?count= borne le résultat.
// Toujours trié par usefulness décroissante.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	filmID := queryInt64(r, "filmId", 0)
	count := queryInt(r, "count", 0)

	reviews, err := s.reviews.List(r.Context(), filmID, count)
	if err != nil {
		respondError(w, err)
		return
	}

	dtos := make([]reviewDTO, 0, len(reviews))
	for _, review := range reviews {
		dtos = append(dtos, toReviewDTO(review))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleRateReview(value int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, userID, err := pathPair(r, "id", "userId")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if err := s.reviews.Rate(r.Context(), reviewID, userID, value); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) handleUnrateReview(value int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, userID, err := pathPair(r, "id", "userId")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if err := s.reviews.Unrate(r.Context(), reviewID, userID, value); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}
