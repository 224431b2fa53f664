package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLikeRepo : index de likes en Postgres, table film_likes
// (film_id, user_id) avec clé primaire composite.
type PostgresLikeRepo struct {
	db *pgxpool.Pool
}

func NewPostgresLikeRepo(db *pgxpool.Pool) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// Like : ON CONFLICT DO NOTHING = l'équivalent du MERGE, idempotent.
func (r *PostgresLikeRepo) Like(ctx context.Context, filmID, userID int64) error {
	q := `
		INSERT INTO film_likes (film_id, user_id)
		VALUES (@filmId, @userId)
		ON CONFLICT (film_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"filmId": filmID, "userId": userID})
	return err
}

func (r *PostgresLikeRepo) Unlike(ctx context.Context, filmID, userID int64) error {
	q := `DELETE FROM film_likes WHERE film_id = @filmId AND user_id = @userId`
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"filmId": filmID, "userId": userID})
	return err
}

func (r *PostgresLikeRepo) CountLikes(ctx context.Context, filmID int64) (int64, error) {
	q := `SELECT COUNT(*) FROM film_likes WHERE film_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, q, filmID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresLikeRepo) LikerIDs(ctx context.Context, filmID int64) ([]int64, error) {
	q := `SELECT user_id FROM film_likes WHERE film_id = $1 ORDER BY user_id`
	return r.queryIDs(ctx, q, filmID)
}

func (r *PostgresLikeRepo) LikedFilmIDs(ctx context.Context, userID int64) ([]int64, error) {
	q := `SELECT film_id FROM film_likes WHERE user_id = $1 ORDER BY film_id`
	return r.queryIDs(ctx, q, userID)
}

// CountByFilm : batch en une seule requête via ANY($1).
func (r *PostgresLikeRepo) CountByFilm(ctx context.Context, filmIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(filmIDs))
	for _, filmID := range filmIDs {
		counts[filmID] = 0 // les films sans like restent classés
	}

	q := `
		SELECT film_id, COUNT(user_id)
		FROM film_likes
		WHERE film_id = ANY($1)
		GROUP BY film_id
	`
	rows, err := r.db.Query(ctx, q, filmIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filmID, count int64
		if err := rows.Scan(&filmID, &count); err != nil {
			return nil, err
		}
		counts[filmID] = count
	}
	return counts, rows.Err()
}

func (r *PostgresLikeRepo) queryIDs(ctx context.Context, q string, arg int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, q, arg)
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
