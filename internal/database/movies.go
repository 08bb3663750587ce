// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/database/query"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

const movieColumns = `id, title, description, release_date, runtime, director,
	cast_members, poster_url, trailer_url, average_rating, rating_count`

// ListMovies returns the whole catalog with genres, ordered by id.
func (db *DB) ListMovies(ctx context.Context) (movies []models.Movie, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "movies", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer closeWithLog(rows, "movie rows")

	movies = []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	genres, err := db.genresByMovie(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		movies[i].Genres = genres[movies[i].ID]
	}
	return movies, nil
}

// GetMovie returns one movie with its genres. A missing movie returns an
// error wrapping ErrNotFound.
func (db *DB) GetMovie(ctx context.Context, id int64) (movie *models.Movie, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "movies", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	movie, err = scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	genres, err := db.genresByMovie(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	movie.Genres = genres[id]
	return movie, nil
}

// UpsertMovie inserts or replaces a catalog entry and its genre list. A zero
// ID assigns the next free id and stores it back into m. Genres are matched
// by name case-insensitively and created when missing; m.Genres is updated
// with the stored ids and names. The rating aggregate is only written on
// insert; afterwards it belongs to the rating write path.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) (err error) {
	if verr := validation.ValidateStruct(m); verr != nil {
		return fmt.Errorf("movie %q: %w: %w", m.Title, ErrInvalidInput, verr)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "movies", time.Now(), &err)

	castJSON, err := json.Marshal(nonNilStrings(m.Cast))
	if err != nil {
		return fmt.Errorf("failed to marshal cast: %w", err)
	}

	db.catalogMu.Lock()
	defer db.catalogMu.Unlock()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		id := m.ID
		if id == 0 {
			if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM movies`).Scan(&id); err != nil {
				return fmt.Errorf("failed to allocate movie id: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO movies (
				id, title, description, release_date, runtime, director,
				cast_members, poster_url, trailer_url, average_rating, rating_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				release_date = EXCLUDED.release_date,
				runtime = EXCLUDED.runtime,
				director = EXCLUDED.director,
				cast_members = EXCLUDED.cast_members,
				poster_url = EXCLUDED.poster_url,
				trailer_url = EXCLUDED.trailer_url,
				updated_at = CURRENT_TIMESTAMP`,
			id, m.Title, m.Description, nullableDate(m.ReleaseDate), m.Runtime, m.Director,
			string(castJSON), m.PosterURL, m.TrailerURL, m.AverageRating, m.RatingCount,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert movie %d: %w", id, err)
		}

		genres, err := replaceMovieGenres(ctx, tx, id, m.GenreNames())
		if err != nil {
			return err
		}

		m.ID = id
		m.Genres = genres
		return nil
	})
}

// replaceMovieGenres rewrites the genre membership of a movie and returns
// the stored genres in order. Duplicate names (case-insensitive) keep their
// first position.
func replaceMovieGenres(ctx context.Context, tx *sql.Tx, movieID int64, names []string) ([]models.Genre, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = ?`, movieID); err != nil {
		return nil, fmt.Errorf("failed to clear genres of movie %d: %w", movieID, err)
	}

	seen := models.NewGenreSet()
	genres := make([]models.Genre, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen.Contains(name) {
			continue
		}
		seen.Add(name)

		g, err := ensureGenre(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movie_genres (movie_id, genre_id, position) VALUES (?, ?, ?)`,
			movieID, g.ID, len(genres),
		); err != nil {
			return nil, fmt.Errorf("failed to link genre %q to movie %d: %w", name, movieID, err)
		}
		genres = append(genres, g)
	}
	return genres, nil
}

// ensureGenre finds a genre by name, case-insensitively, creating it when
// missing.
func ensureGenre(ctx context.Context, tx *sql.Tx, name string) (models.Genre, error) {
	var g models.Genre
	err := tx.QueryRowContext(ctx,
		`SELECT id, name FROM genres WHERE lower(name) = lower(?) ORDER BY id LIMIT 1`, name,
	).Scan(&g.ID, &g.Name)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("failed to look up genre %q: %w", name, err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM genres`).Scan(&g.ID); err != nil {
		return g, fmt.Errorf("failed to allocate genre id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO genres (id, name) VALUES (?, ?)`, g.ID, name); err != nil {
		return g, fmt.Errorf("failed to insert genre %q: %w", name, err)
	}
	g.Name = name
	return g, nil
}

// genresByMovie loads ordered genres for the given movies, or for every
// movie when ids is empty.
func (db *DB) genresByMovie(ctx context.Context, ids []int64) (map[int64][]models.Genre, error) {
	wb := query.NewWhereBuilder().AddIDs("mg.movie_id", ids)
	where, args := wb.BuildWithPrefix()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT mg.movie_id, g.id, g.name
		FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		`+where+`
		ORDER BY mg.movie_id, mg.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movie genres: %w", err)
	}
	defer closeWithLog(rows, "genre rows")

	out := make(map[int64][]models.Genre)
	for rows.Next() {
		var movieID int64
		var g models.Genre
		if err := rows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan movie genre: %w", err)
		}
		out[movieID] = append(out[movieID], g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movie genres: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m           models.Movie
		releaseDate sql.NullTime
		castJSON    string
	)
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &releaseDate, &m.Runtime, &m.Director,
		&castJSON, &m.PosterURL, &m.TrailerURL, &m.AverageRating, &m.RatingCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	if releaseDate.Valid {
		m.ReleaseDate = releaseDate.Time.UTC()
	}
	if castJSON != "" {
		if err := json.Unmarshal([]byte(castJSON), &m.Cast); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cast of movie %d: %w", m.ID, err)
		}
	}
	if len(m.Cast) == 0 {
		m.Cast = nil
	}
	return &m, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
