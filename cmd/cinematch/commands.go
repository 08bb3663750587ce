// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// errUsage marks invalid invocations; run exits with status 2.
var errUsage = errors.New("usage error")

// command is one subcommand. setup registers its flags and returns the
// action to run once they are parsed.
type command struct {
	name    string
	summary string
	setup   func(fs *flag.FlagSet) func(ctx context.Context, a *app, out io.Writer) error
}

var commands []command

func init() {
	commands = []command{
		{"recommend", "hybrid recommendations for a viewer", recommendCmd},
		{"trending", "movies rated well in the trending window", trendingCmd},
		{"similar", "movies similar to a given movie", similarCmd},
		{"explain", "explain why a movie would be recommended", explainCmd},
		{"refresh", "re-derive preferences from rating history", refreshCmd},
		{"rate", "store a rating and refresh the movie aggregate", rateCmd},
		{"watch", "record a watch", watchCmd},
		{"stats", "catalog totals", statsCmd},
		{"load", "import a JSON dataset", loadCmd},
		{"serve", "run the supervised background services", serveCmd},
	}
}

// dispatch runs the named command against a freshly opened app.
func dispatch(ctx context.Context, cfg *config.Config, name string, args []string, stdout, stderr io.Writer) error {
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		printUsage(stderr)
		return errUsage
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	runCmd := cmd.setup(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "%s: unexpected arguments %v\n", name, fs.Args())
		return errUsage
	}

	a, err := newApp(cfg, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	return runCmd(ctx, a, stdout)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requirePositive(name string, v int64) error {
	if v <= 0 {
		return fmt.Errorf("%w: -%s must be a positive id", errUsage, name)
	}
	return nil
}

func recommendCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id (0 = anonymous)")
	limit := fs.Int("limit", 0, "number of movies (0 = configured default)")
	return func(ctx context.Context, a *app, out io.Writer) error {
		resp, err := a.engine.Recommend(ctx, models.ViewerFor(*user), *limit)
		if err != nil {
			return err
		}
		return writeJSON(out, resp)
	}
}

// movieList is the output of list-returning commands.
type movieList struct {
	Viewer string         `json:"viewer"`
	Movies []models.Movie `json:"movies"`
}

func trendingCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id (0 = anonymous)")
	limit := fs.Int("limit", 0, "number of movies (0 = configured default)")
	return func(ctx context.Context, a *app, out io.Writer) error {
		viewer := models.ViewerFor(*user)
		movies, err := a.engine.Trending(ctx, viewer, *limit)
		if err != nil {
			return err
		}
		return writeJSON(out, movieList{Viewer: viewer.String(), Movies: movies})
	}
}

func similarCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id whose disliked genres are excluded (0 = anonymous)")
	movie := fs.Int64("movie", 0, "target movie id")
	limit := fs.Int("limit", 0, "number of movies (0 = configured default)")
	return func(ctx context.Context, a *app, out io.Writer) error {
		if err := requirePositive("movie", *movie); err != nil {
			return err
		}
		viewer := models.ViewerFor(*user)
		movies, err := a.engine.Similar(ctx, viewer, *movie, *limit)
		if err != nil {
			return err
		}
		return writeJSON(out, movieList{Viewer: viewer.String(), Movies: movies})
	}
}

func explainCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id (0 = anonymous)")
	movie := fs.Int64("movie", 0, "movie id")
	return func(ctx context.Context, a *app, out io.Writer) error {
		if err := requirePositive("movie", *movie); err != nil {
			return err
		}
		viewer := models.ViewerFor(*user)
		text, err := a.engine.Explain(ctx, viewer, *movie)
		if err != nil {
			return err
		}
		return writeJSON(out, struct {
			Viewer      string `json:"viewer"`
			MovieID     int64  `json:"movie_id"`
			Explanation string `json:"explanation"`
		}{viewer.String(), *movie, text})
	}
}

func refreshCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id (0 = every user with ratings)")
	return func(ctx context.Context, a *app, out io.Writer) error {
		if *user > 0 {
			prefs, err := a.engine.RefreshPreferences(ctx, *user)
			if err != nil {
				return err
			}
			return writeJSON(out, prefs)
		}

		refreshed, failed, err := a.engine.RefreshAll(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, struct {
			Refreshed int `json:"refreshed"`
			Failed    int `json:"failed"`
		}{refreshed, failed})
	}
}

func rateCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id")
	movie := fs.Int64("movie", 0, "movie id")
	score := fs.Float64("score", -1, "score from 0 to 10")
	review := fs.String("review", "", "optional review text")
	return func(ctx context.Context, a *app, out io.Writer) error {
		if err := requirePositive("user", *user); err != nil {
			return err
		}
		if err := requirePositive("movie", *movie); err != nil {
			return err
		}
		if *score < 0 {
			return fmt.Errorf("%w: -score is required", errUsage)
		}

		rating := &models.Rating{UserID: *user, MovieID: *movie, Score: *score, Review: *review}
		if err := a.db.UpsertRating(ctx, rating); err != nil {
			return err
		}
		return writeJSON(out, rating)
	}
}

func watchCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	user := fs.Int64("user", 0, "user id")
	movie := fs.Int64("movie", 0, "movie id")
	completion := fs.Float64("completion", 100, "completion percentage")
	return func(ctx context.Context, a *app, out io.Writer) error {
		if err := requirePositive("user", *user); err != nil {
			return err
		}
		if err := requirePositive("movie", *movie); err != nil {
			return err
		}

		entry := &models.WatchEntry{
			UserID:               *user,
			MovieID:              *movie,
			CompletionPercentage: *completion,
			WatchedAt:            time.Now().UTC(),
		}
		if err := a.db.RecordWatch(ctx, entry); err != nil {
			return err
		}
		return writeJSON(out, entry)
	}
}

func statsCmd(*flag.FlagSet) func(context.Context, *app, io.Writer) error {
	return func(ctx context.Context, a *app, out io.Writer) error {
		stats, err := a.db.Stats(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, stats)
	}
}

func loadCmd(fs *flag.FlagSet) func(context.Context, *app, io.Writer) error {
	path := fs.String("file", "", "dataset JSON file (- for stdin)")
	return func(ctx context.Context, a *app, out io.Writer) error {
		if *path == "" {
			return fmt.Errorf("%w: -file is required", errUsage)
		}

		var r io.Reader = os.Stdin
		if *path != "-" {
			f, err := os.Open(*path)
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}
			defer f.Close()
			r = f
		}

		ds, err := database.ReadDataset(r)
		if err != nil {
			return err
		}
		res, err := a.db.Import(ctx, ds)
		if err != nil {
			return err
		}
		a.logger.Info().
			Int("movies", res.Movies).
			Int("ratings", res.Ratings).
			Dur("duration", res.Duration).
			Msg("Dataset imported")
		return writeJSON(out, res)
	}
}
