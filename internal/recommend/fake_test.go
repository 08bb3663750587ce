// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/models"
)

// fakeStore is an in-memory DataProvider.
type fakeStore struct {
	mu      sync.Mutex
	movies  []models.Movie
	ratings []models.Rating
	watched []models.WatchEntry
	prefs   map[int64]*models.Preferences

	listErr       error
	allRatingsErr error
	saves         int
}

func newFakeStore(movies ...models.Movie) *fakeStore {
	return &fakeStore{
		movies: movies,
		prefs:  make(map[int64]*models.Preferences),
	}
}

func (s *fakeStore) ListMovies(_ context.Context) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := append([]models.Movie(nil), s.movies...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetMovie(_ context.Context, id int64) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.movies {
		if s.movies[i].ID == id {
			m := s.movies[i]
			return &m, nil
		}
	}
	return nil, fmt.Errorf("movie %d: %w", id, models.ErrNotFound)
}

func (s *fakeStore) UserRatings(_ context.Context, userID int64) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) AllRatings(_ context.Context) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allRatingsErr != nil {
		return nil, s.allRatingsErr
	}
	return append([]models.Rating(nil), s.ratings...), nil
}

func (s *fakeStore) RatingsSince(_ context.Context, since time.Time) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) UpsertRating(_ context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := false
	for i := range s.ratings {
		if s.ratings[i].UserID == r.UserID && s.ratings[i].MovieID == r.MovieID {
			s.ratings[i].Score = r.Score
			replaced = true
		}
	}
	if !replaced {
		s.ratings = append(s.ratings, *r)
	}
	return nil
}

func (s *fakeStore) UsersWithRatings(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{})
	var out []int64
	for _, r := range s.ratings {
		if _, ok := seen[r.UserID]; !ok {
			seen[r.UserID] = struct{}{}
			out = append(out, r.UserID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *fakeStore) WatchHistory(_ context.Context, userID int64) ([]models.WatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WatchEntry
	for _, w := range s.watched {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *fakeStore) RecordWatch(_ context.Context, e *models.WatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watched = append(s.watched, *e)
	return nil
}

func (s *fakeStore) GetOrCreatePreferences(_ context.Context, userID int64) (*models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		p = models.DefaultPreferences(userID)
		s.prefs[userID] = p
	}
	return p.Clone(), nil
}

func (s *fakeStore) SavePreferences(_ context.Context, p *models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[p.UserID] = p.Clone()
	s.saves++
	return nil
}

func (s *fakeStore) rate(userID, movieID int64, score float64, at time.Time) {
	s.ratings = append(s.ratings, models.Rating{
		UserID: userID, MovieID: movieID, Score: score, CreatedAt: at, UpdatedAt: at,
	})
}

func (s *fakeStore) watch(userID, movieID int64) {
	s.watched = append(s.watched, models.WatchEntry{UserID: userID, MovieID: movieID, CompletionPercentage: 100})
}

func (s *fakeStore) dislike(userID int64, genres ...string) {
	p := models.DefaultPreferences(userID)
	p.DislikedGenres = genres
	s.prefs[userID] = p
}

// fakeCache is an in-memory ResponseCache ignoring TTLs.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func movie(id int64, title string, avg float64, count int, genres ...string) models.Movie {
	m := models.Movie{ID: id, Title: title, AverageRating: avg, RatingCount: count}
	for i, g := range genres {
		m.Genres = append(m.Genres, models.Genre{ID: int64(i + 1), Name: g})
	}
	return m
}

func withCredits(m models.Movie, director, description string, cast ...string) models.Movie {
	m.Director = director
	m.Description = description
	m.Cast = cast
	return m
}

// crimeCatalog is a small catalog with two directors who recur.
func crimeCatalog() []models.Movie {
	return []models.Movie{
		withCredits(movie(1, "Heat", 8.2, 300, "Crime", "Thriller"), "Michael Mann",
			"A detective hunts a crew of professional thieves in Los Angeles", "Al Pacino", "Robert De Niro"),
		withCredits(movie(2, "Collateral", 7.6, 200, "Crime", "Thriller"), "Michael Mann",
			"A cab driver is held hostage by a hitman in Los Angeles", "Tom Cruise", "Jamie Foxx"),
		withCredits(movie(3, "The Notebook", 7.0, 150, "Romance", "Drama"), "Nick Cassavetes",
			"A poor young man falls in love with a rich young woman", "Ryan Gosling", "Rachel McAdams"),
		withCredits(movie(4, "Scream", 7.9, 400, "Horror", "Thriller"), "Wes Craven",
			"A masked killer stalks teenagers in a quiet town", "Neve Campbell"),
		withCredits(movie(5, "Hereditary", 8.5, 250, "Horror", "Drama"), "Ari Aster",
			"A grieving family uncovers dark secrets about their ancestry", "Toni Collette"),
		withCredits(movie(6, "Ronin", 7.1, 90, "Action", "Thriller"), "John Frankenheimer",
			"Mercenaries chase a mysterious briefcase across France", "Robert De Niro", "Jean Reno"),
		withCredits(movie(7, "Thief", 7.3, 40, "Crime", "Drama"), "Michael Mann",
			"A professional safecracker plans one last heist", "James Caan"),
		withCredits(movie(8, "Notting Hill", 6.9, 120, "Romance", "Comedy"), "Roger Michell",
			"A bookshop owner falls in love with a famous actress", "Hugh Grant", "Julia Roberts"),
		withCredits(movie(9, "Se7en", 8.6, 500, "Crime", "Mystery"), "David Fincher",
			"Two detectives hunt a serial killer who uses the seven deadly sins", "Brad Pitt", "Morgan Freeman"),
		withCredits(movie(10, "Zodiac", 7.7, 60, "Crime", "Mystery"), "David Fincher",
			"A cartoonist becomes obsessed with hunting an elusive killer", "Jake Gyllenhaal"),
	}
}

// warmStore returns a store where user 1 is warm, dislikes Horror, has
// rated movies 1-3 and watched movie 9. User 5 is cold and dislikes Horror.
func warmStore() *fakeStore {
	s := newFakeStore(crimeCatalog()...)
	at := testNow.Add(-48 * time.Hour)

	s.rate(1, 1, 9, at)
	s.rate(1, 2, 8, at)
	s.rate(1, 3, 3, at)
	s.watch(1, 9)
	s.dislike(1, "horror")

	s.rate(2, 1, 9, at)
	s.rate(2, 2, 9, at)
	s.rate(2, 6, 8, at)
	s.rate(2, 7, 9, at)
	s.rate(2, 9, 8, at)

	s.rate(3, 3, 9, at)
	s.rate(3, 8, 9, at)
	s.rate(3, 5, 7, at)
	s.rate(3, 4, 6, at)

	s.rate(4, 1, 8, at)
	s.rate(4, 7, 8, at)
	s.rate(4, 10, 9, at)
	s.rate(4, 6, 7, at)

	s.dislike(5, "Horror")
	return s
}

func newTestEngine(t *testing.T, store DataProvider, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	return newTestEngineWithConfig(t, store, cfg, opts...)
}

func newTestEngineWithConfig(t *testing.T, store DataProvider, cfg *Config, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	e, err := NewEngine(store, cfg, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func ids(movies []models.Movie) []int64 {
	out := make([]int64, len(movies))
	for i := range movies {
		out[i] = movies[i].ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
