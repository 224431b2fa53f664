package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// PostgresReviewRepo : reviews + ratings en Postgres. L'upsert du rating et
// le recalcul de useful s'exécutent dans la MÊME transaction : la ligne de
// la review est verrouillée par l'UPDATE, ce qui sérialise les ratings
// concurrents sur la même review.
type PostgresReviewRepo struct {
	db *pgxpool.Pool
}

func NewPostgresReviewRepo(db *pgxpool.Pool) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

func (r *PostgresReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	q := `
		INSERT INTO reviews (film_id, user_id, content, is_positive, useful)
		VALUES (@filmId, @userId, @content, @isPositive, 0)
		RETURNING review_id
	`
	args := pgx.NamedArgs{
		"filmId":     review.FilmID,
		"userId":     review.UserID,
		"content":    review.Content,
		"isPositive": review.IsPositive,
	}

	created := *review
	created.Useful = 0
	if err := r.db.QueryRow(ctx, q, args).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return &created, nil
}

func (r *PostgresReviewRepo) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	q := `
		UPDATE reviews
		SET content = @content, is_positive = @isPositive
		WHERE review_id = @reviewId
	`
	args := pgx.NamedArgs{
		"content":    review.Content,
		"isPositive": review.IsPositive,
		"reviewId":   review.ID,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("review %d: %w", review.ID, domain.ErrReviewNotFound)
	}
	return r.GetByID(ctx, review.ID)
}

func (r *PostgresReviewRepo) Delete(ctx context.Context, reviewID int64) (*domain.Review, error) {
	existing, err := r.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	// review_ratings a un ON DELETE CASCADE sur reviews.
	if _, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE review_id = $1`, reviewID); err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *PostgresReviewRepo) GetByID(ctx context.Context, reviewID int64) (*domain.Review, error) {
	q := `
		SELECT review_id, film_id, user_id, content, is_positive, useful
		FROM reviews
		WHERE review_id = $1
	`

	var review domain.Review
	err := r.db.QueryRow(ctx, q, reviewID).Scan(
		&review.ID, &review.FilmID, &review.UserID,
		&review.Content, &review.IsPositive, &review.Useful,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
		}
		return nil, err
	}
	return &review, nil
}

func (r *PostgresReviewRepo) ListByFilm(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	q := `
		SELECT review_id, film_id, user_id, content, is_positive, useful
		FROM reviews
		WHERE (@filmId = 0 OR film_id = @filmId)
		ORDER BY useful DESC, review_id
		LIMIT @count
	`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"filmId": filmID, "count": count})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(
			&review.ID, &review.FilmID, &review.UserID,
			&review.Content, &review.IsPositive, &review.Useful,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}

func (r *PostgresReviewRepo) Rate(ctx context.Context, reviewID, userID int64, value int) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO review_ratings (review_id, user_id, rating)
			VALUES (@reviewId, @userId, @rating)
			ON CONFLICT (review_id, user_id) DO UPDATE SET rating = EXCLUDED.rating
		`
		args := pgx.NamedArgs{"reviewId": reviewID, "userId": userID, "rating": value}
		if _, err := tx.Exec(ctx, upsert, args); err != nil {
			return err
		}
		return recomputeUseful(ctx, tx, reviewID)
	})
}

func (r *PostgresReviewRepo) Unrate(ctx context.Context, reviewID, userID int64, value int) (bool, error) {
	var removed bool
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		// Le filtre sur rating fait du "remove dislike" d'un like un no-op.
		del := `
			DELETE FROM review_ratings
			WHERE review_id = @reviewId AND user_id = @userId AND rating = @rating
		`
		args := pgx.NamedArgs{"reviewId": reviewID, "userId": userID, "rating": value}
		tag, err := tx.Exec(ctx, del, args)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected() > 0
		if !removed {
			return nil
		}
		return recomputeUseful(ctx, tx, reviewID)
	})
	return removed, err
}

func (r *PostgresReviewRepo) Usefulness(ctx context.Context, reviewID int64) (int64, error) {
	q := `SELECT useful FROM reviews WHERE review_id = $1`

	var useful int64
	if err := r.db.QueryRow(ctx, q, reviewID).Scan(&useful); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
		}
		return 0, err
	}
	return useful, nil
}

func (r *PostgresReviewRepo) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// recomputeUseful persiste l'agrégat dénormalisé dans la ligne de review.
func recomputeUseful(ctx context.Context, tx pgx.Tx, reviewID int64) error {
	q := `
		UPDATE reviews
		SET useful = COALESCE((
			SELECT SUM(rating) FROM review_ratings WHERE review_id = $1
		), 0)
		WHERE review_id = $1
	`
	tag, err := tx.Exec(ctx, q, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review %d: %w", reviewID, domain.ErrReviewNotFound)
	}
	return nil
}
