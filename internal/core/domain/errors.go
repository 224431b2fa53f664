package domain

import "errors"

// --- ERREURS MÉTIER (Sentinel errors) ---
// Les adapters traduisent les erreurs techniques (pgx.ErrNoRows, etc.)
// vers ces sentinelles ; la couche HTTP les mappe vers des codes status.

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrFilmNotFound   = errors.New("film not found")
	ErrReviewNotFound = errors.New("review not found")

	// ErrSelfRelation : on ne peut pas se suivre soi-même.
	ErrSelfRelation = errors.New("cannot befriend yourself")

	// ErrInvalidRating : un rating de review vaut +1 ou -1, rien d'autre.
	ErrInvalidRating = errors.New("rating value must be +1 or -1")

	// ErrSaveFailed : échec de persistance (génération d'ID, etc.).
	// Retryable côté appelant.
	ErrSaveFailed = errors.New("failed to save data")
)
