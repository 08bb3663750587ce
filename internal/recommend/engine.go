// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Engine produces movie recommendations from a DataProvider.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	data   DataProvider
	cache  ResponseCache
	now    func() time.Time

	collaborative *algorithms.Collaborative
	content       *algorithms.ContentScorer
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache enables response caching through c.
func WithCache(c ResponseCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithClock replaces time.Now for recency and trending windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(data DataProvider, cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if data == nil {
		return nil, ErrNoDataProvider
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		data:   data,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.collaborative = algorithms.NewCollaborative(e.config.Collaborative, e.logger)
	e.content = algorithms.NewContentScorer(e.config.Content, e.now, e.logger)
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend returns up to limit movies for the viewer. A zero limit selects
// the configured default and limits above the maximum are clamped.
func (e *Engine) Recommend(ctx context.Context, viewer models.Viewer, limit int) (resp *Response, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("recommend", time.Since(start), err) }()

	limit, err = e.resolveLimit(limit)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		viewer = models.Anonymous{}
	}

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("viewer", viewer.String()).
		Int("limit", limit).
		Logger()

	// The viewer's own history is read before the cache so that the key
	// changes whenever a rating, a watch or a preference changes.
	var h *history
	if v, ok := viewer.(models.Authenticated); ok {
		if h, err = e.loadHistory(ctx, v.UserID); err != nil {
			return nil, err
		}
	}

	key := cacheKey(viewer, limit, h)
	if cached := e.cachedResponse(ctx, key); cached != nil {
		cached.Metadata.RequestID = requestID
		cached.Metadata.CacheHit = true
		cached.Metadata.LatencyMS = time.Since(start).Milliseconds()
		logger.Debug().Msg("cache hit")
		return cached, nil
	}

	catalog, err := e.data.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	resp = &Response{
		Metadata: ResponseMetadata{
			RequestID: requestID,
			Viewer:    viewer.String(),
		},
	}

	switch v := viewer.(type) {
	case models.Authenticated:
		if err := e.personalized(ctx, v.UserID, h, catalog, limit, resp, logger); err != nil {
			return nil, err
		}
	default:
		resp.Metadata.State = StateAnonymous
		resp.Movies = Popular(catalog, limit, nil, nil)
		resp.Metadata.Backfilled = len(resp.Movies)
	}

	if resp.Movies == nil {
		resp.Movies = []models.Movie{}
	}
	resp.Metadata.Timestamp = e.now()
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()

	metrics.RecordRecommendation(resp.Metadata.State.String(),
		resp.Metadata.Collaborative, resp.Metadata.ContentBased, resp.Metadata.Backfilled)
	e.storeResponse(ctx, key, resp)

	logger.Debug().
		Str("state", resp.Metadata.State.String()).
		Int("candidates", resp.Metadata.Candidates).
		Int("returned", len(resp.Movies)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// personalized handles the cold and warm states.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) personalized(ctx context.Context, userID int64, h *history, catalog []models.Movie, limit int, resp *Response, logger zerolog.Logger) error {
	disliked := h.prefs.Disliked()

	if len(h.ratings) == 0 && len(h.watched) == 0 {
		resp.Metadata.State = StateCold
		resp.Movies = Popular(catalog, limit, nil, disliked)
		resp.Metadata.Backfilled = len(resp.Movies)
		return nil
	}

	resp.Metadata.State = StateWarm
	candidates := Eligible(catalog, h.rated, h.watched, disliked)
	resp.Metadata.Candidates = len(candidates)

	// Engine failures are contained inside each list; only cancellation of
	// the caller's context is returned, and it stops the other engine.
	var cf, cbf []models.Movie
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cf, err = e.collaborativeList(gctx, userID, candidates, limit, logger)
		return err
	})
	g.Go(func() (err error) {
		cbf, err = e.contentList(gctx, catalog, candidates, h, limit, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("recommend aborted: %w", err)
	}

	resp.Metadata.Collaborative = len(cf)
	resp.Metadata.ContentBased = len(cbf)

	movies := Combine(cf, cbf, limit, e.config.Weights)
	if short := limit - len(movies); short > 0 {
		excluded := make(models.MovieIDSet, len(h.rated)+len(h.watched)+len(movies))
		for id := range h.rated {
			excluded.Add(id)
		}
		for id := range h.watched {
			excluded.Add(id)
		}
		for i := range movies {
			excluded.Add(movies[i].ID)
		}
		fill := Popular(catalog, short, excluded, disliked)
		resp.Metadata.Backfilled = len(fill)
		movies = append(movies, fill...)
	}

	resp.Movies = movies
	return nil
}

// history is the viewer's own data, loaded once per call.
type history struct {
	ratings []models.Rating
	entries []models.WatchEntry
	rated   models.MovieIDSet
	watched models.MovieIDSet
	prefs   *models.Preferences
}

func (e *Engine) loadHistory(ctx context.Context, userID int64) (*history, error) {
	ratings, err := e.data.UserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user ratings: %w", err)
	}
	entries, err := e.data.WatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	prefs, err := e.data.GetOrCreatePreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	if prefs == nil {
		prefs = models.DefaultPreferences(userID)
	}

	h := &history{
		ratings: ratings,
		entries: entries,
		rated:   make(models.MovieIDSet, len(ratings)),
		watched: make(models.MovieIDSet, len(entries)),
		prefs:   prefs,
	}
	for i := range ratings {
		h.rated.Add(ratings[i].MovieID)
	}
	for i := range entries {
		h.watched.Add(entries[i].MovieID)
	}
	return h, nil
}

// collaborativeList runs the collaborative engine. Failures are logged,
// counted and yield an empty list; the error is non-nil only when ctx is
// done.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) collaborativeList(ctx context.Context, userID int64, candidates []models.Movie, limit int, logger zerolog.Logger) (out []models.Movie, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("collaborative filtering panicked")
			metrics.RecordEngineFailure("collaborative")
			out, err = []models.Movie{}, nil
		}
	}()

	all, err := e.data.AllRatings(ctx)
	if err == nil {
		out, err = e.collaborative.Recommend(ctx, userID, all, candidates, limit)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn().Err(err).Msg("collaborative filtering unavailable")
		metrics.RecordEngineFailure("collaborative")
		return []models.Movie{}, nil
	}
	return out, nil
}

// contentList scores every candidate against the viewer's profile and
// returns those with a positive score, best first, ties by id ascending.
// The error is non-nil only when ctx is done.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) contentList(ctx context.Context, catalog, candidates []models.Movie, h *history, limit int, logger zerolog.Logger) (out []models.Movie, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("content scoring panicked")
			metrics.RecordEngineFailure("content")
			out, err = []models.Movie{}, nil
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile := algorithms.BuildProfile(e.likedMovies(catalog, h.ratings), e.config.Content.MaxVocabularyTerms)
	if profile == nil {
		return []models.Movie{}, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if s := e.content.Score(&candidates[i], profile, h.prefs); s > 0 {
			ranked = append(ranked, scored{idx: i, score: s})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return candidates[ranked[i].idx].ID < candidates[ranked[j].idx].ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out = make([]models.Movie, len(ranked))
	for i, r := range ranked {
		out[i] = candidates[r.idx]
	}
	return out, nil
}

// likedMovies resolves the viewer's liked ratings against the catalog.
func (e *Engine) likedMovies(catalog []models.Movie, ratings []models.Rating) []models.Movie {
	byID := indexCatalog(catalog)
	liked := make([]models.Movie, 0, len(ratings))
	for i := range ratings {
		if ratings[i].Score < e.config.Behavior.LikedThreshold {
			continue
		}
		if m, ok := byID[ratings[i].MovieID]; ok {
			liked = append(liked, *m)
		}
	}
	return liked
}

func indexCatalog(catalog []models.Movie) map[int64]*models.Movie {
	byID := make(map[int64]*models.Movie, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}
	return byID
}

// resolveLimit applies the default and maximum result sizes.
func (e *Engine) resolveLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, ErrInvalidLimit
	case limit == 0:
		return e.config.Limits.DefaultLimit, nil
	case limit > e.config.Limits.MaxLimit:
		return e.config.Limits.MaxLimit, nil
	default:
		return limit, nil
	}
}

// viewerDisliked returns the disliked genres of an authenticated viewer
// and nil for anonymous viewers.
func (e *Engine) viewerDisliked(ctx context.Context, viewer models.Viewer) (models.GenreSet, error) {
	v, ok := viewer.(models.Authenticated)
	if !ok {
		return nil, nil
	}
	prefs, err := e.data.GetOrCreatePreferences(ctx, v.UserID)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	if prefs == nil {
		return nil, nil
	}
	return prefs.Disliked(), nil
}

// cacheKey identifies a response. Authenticated keys carry a fingerprint
// of the viewer's history, so a cached list never outlives a rating, a
// watch or a preference change. Other viewers' activity is bounded by TTL.
func cacheKey(viewer models.Viewer, limit int, h *history) string {
	key := "recommend:" + viewer.String() + ":" + strconv.Itoa(limit)
	if h != nil {
		key += ":" + strconv.FormatUint(h.fingerprint(), 16)
	}
	return key
}

// fingerprint digests every rating, watch entry and preference of the
// viewer independently of the order the store returned them in.
func (h *history) fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	putString := func(s string) {
		put(uint64(len(s)))
		_, _ = d.WriteString(s)
	}

	ratings := append([]models.Rating(nil), h.ratings...)
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].MovieID < ratings[j].MovieID })
	put(uint64(len(ratings)))
	for i := range ratings {
		put(uint64(ratings[i].MovieID))
		put(math.Float64bits(ratings[i].Score))
		put(uint64(ratings[i].UpdatedAt.UnixNano()))
	}

	entries := append([]models.WatchEntry(nil), h.entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].MovieID < entries[j].MovieID })
	put(uint64(len(entries)))
	for i := range entries {
		put(uint64(entries[i].MovieID))
		put(math.Float64bits(entries[i].CompletionPercentage))
		put(uint64(entries[i].WatchedAt.UnixNano()))
	}

	for _, set := range []models.GenreSet{h.prefs.Favorites(), h.prefs.Disliked()} {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		put(uint64(len(names)))
		for _, name := range names {
			putString(name)
		}
	}
	w := h.prefs.Normalized()
	for _, v := range []float64{w.Genre, w.Rating, w.Popularity, w.Recency} {
		put(math.Float64bits(v))
	}
	return d.Sum64()
}

// cachedResponse returns a decoded cached response or nil.
func (e *Engine) cachedResponse(ctx context.Context, key string) *Response {
	if e.cache == nil || !e.config.Cache.Enabled {
		return nil
	}
	data, ok := e.cache.Get(ctx, key)
	if !ok {
		return nil
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil
	}
	if resp.Movies == nil {
		resp.Movies = []models.Movie{}
	}
	return &resp
}

func (e *Engine) storeResponse(ctx context.Context, key string, resp *Response) {
	if e.cache == nil || !e.config.Cache.Enabled {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("failed to encode response for cache")
		return
	}
	e.cache.Set(ctx, key, data, e.config.Cache.TTL)
}
