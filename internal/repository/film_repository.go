package repository

import (
	"context"
	"database/sql"

	"github.com/karim076/dvd-rental/internal/model"
)

// FilmRepo reads film reference data. The rental engine only ever needs the
// title, the canonical rate and the rental window; it never writes films.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo returns a new FilmRepo bound to the given database.
func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

// GetByID loads a film. Returns sql.ErrNoRows when the film does not exist.
func (r *FilmRepo) GetByID(ctx context.Context, filmID int64) (*model.Film, error) {
	const q = `SELECT film_id, title, rental_rate, rental_duration FROM film WHERE film_id = ?`
	var f model.Film
	err := r.db.QueryRowContext(ctx, q, filmID).Scan(&f.FilmID, &f.Title, &f.RentalRate, &f.RentalDuration)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
