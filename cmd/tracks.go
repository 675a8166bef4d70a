package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/formatter"
	"github.com/Lalka12235/TuneWave/internal/shared"
)

// TracksSearch queries the backend's catalog proxy. Requires a session.
func (r *Runner) TracksSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	r.logger.Info("searching tracks", "query", query)

	result, err := r.client.SearchTracks(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	tracks := result.Tracks.Items
	if len(tracks) == 0 {
		return r.writePlain("no tracks found for %q\n", query)
	}
	return r.writePlain("%s", formatter.TracksToText(tracks))
}
