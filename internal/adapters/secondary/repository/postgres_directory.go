package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// PostgresDirectory : l'annuaire d'entités adossé au catalogue (tables
// users / films / reviews gérées par le CRUD hors périmètre). Le core ne
// lit jamais les entités complètes, seulement l'existence des ids et
// l'ensemble candidat pour le ranker.
type PostgresDirectory struct {
	db *pgxpool.Pool
}

func NewPostgresDirectory(db *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) Exists(ctx context.Context, kind domain.EntityKind, id int64) (bool, error) {
	var q string
	switch kind {
	case domain.KindUser:
		q = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`
	case domain.KindFilm:
		q = `SELECT EXISTS (SELECT 1 FROM films WHERE film_id = $1)`
	case domain.KindReview:
		q = `SELECT EXISTS (SELECT 1 FROM reviews WHERE review_id = $1)`
	default:
		return false, nil
	}

	var exists bool
	if err := d.db.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (d *PostgresDirectory) FilmIDs(ctx context.Context, genreID, year int64) ([]int64, error) {
	// Filtres optionnels neutralisés par les paramètres à 0 : une seule
	// requête préparée quel que soit le combo genre/année.
	q := `
		SELECT DISTINCT f.film_id
		FROM films f
		LEFT JOIN film_genres fg ON fg.film_id = f.film_id
		WHERE (@genreId = 0 OR fg.genre_id = @genreId)
		  AND (@year = 0 OR EXTRACT(YEAR FROM f.release_date) = @year)
		ORDER BY f.film_id
	`

	rows, err := d.db.Query(ctx, q, pgx.NamedArgs{"genreId": genreID, "year": year})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
