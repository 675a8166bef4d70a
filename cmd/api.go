package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/shared"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: a request path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	body, status, err := r.client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, status, string(body))
	}

	return r.writeBody(body, cmd.Bool("json"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: a request path is required", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info("POST request", "path", path)

	body, status, err := r.client.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, status, string(body))
	}

	return r.writeBody(body, false)
}

// writeBody prints a raw response, pretty-printing JSON bodies unless
// compact output was requested.
func (r *Runner) writeBody(body []byte, compact bool) error {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return r.writeJSON(decoded, !compact)
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}
