package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/services"
	"github.com/Lalka12235/TuneWave/internal/shared"
)

const loginTimeout = 5 * time.Minute

// AuthLogin signs in through an OAuth provider. The backend performs the
// code exchange on its own redirect URI and hands the session token back by
// redirecting the browser to this process's loopback listener, which is why
// no client secret ever touches this machine. With --token the browser flow
// is skipped entirely.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if token := cmd.String("token"); token != "" {
		if err := r.session.Set(token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		return r.greet(ctx)
	}

	provider := cmd.String("provider")

	providers, err := r.client.AuthProviders(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not load provider configuration: %v", shared.ErrServiceUnavailable, err)
	}

	state := shared.GenerateID()
	authURL, err := services.AuthURL(provider, providers, state)
	if err != nil {
		return err
	}

	token, err := r.waitForCallback(ctx, authURL)
	if err != nil {
		return err
	}

	if err := r.session.Set(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	return r.greet(ctx)
}

// waitForCallback serves one request on the configured loopback address and
// extracts the session token from its query parameters.
func (r *Runner) waitForCallback(ctx context.Context, authURL string) (string, error) {
	addr := fmt.Sprintf("%s:%d", r.config.Auth.CallbackHost, r.config.Auth.CallbackPort)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	type callbackResult struct {
		token string
		err   error
	}
	results := make(chan callbackResult, 1)

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token, err := services.TokenFromCallback(req.URL.Query())
			if err != nil {
				http.Error(w, "Sign-in failed. You can close this window.", http.StatusBadRequest)
			} else {
				fmt.Fprint(w, "Signed in. You can close this window.")
			}
			select {
			case results <- callbackResult{token: token, err: err}:
			default:
			}
		}),
	}

	go server.Serve(listener)
	defer server.Close()

	r.writePlain("Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
	r.writePlain("Waiting for the callback on %s...\n", addr)

	timeout, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	select {
	case <-timeout.Done():
		return "", fmt.Errorf("%w: no callback received", shared.ErrAuthFailed)
	case result := <-results:
		return result.token, result.err
	}
}

// greet fetches and prints the signed-in user's profile.
func (r *Runner) greet(ctx context.Context) error {
	user, err := r.client.CurrentUser(ctx)
	if err != nil {
		// A 401 has already cleared the stored token.
		if _, ok := r.session.Get(); !ok {
			return fmt.Errorf("%w: the stored token was rejected", shared.ErrAuthFailed)
		}
		return err
	}
	return r.writePlain("Signed in as %s (%s)\n", user.Username, user.Email)
}

// AuthStatus shows whether a session token is stored and still accepted.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if _, ok := r.session.Get(); !ok {
		return r.writePlain("✗ Not signed in\n")
	}

	user, err := r.client.CurrentUser(ctx)
	if err != nil {
		// A 401 has already cleared the stored token.
		if _, ok := r.session.Get(); !ok {
			return r.writePlain("✗ Session expired, sign in again\n")
		}
		return err
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email: %s\n", user.Email)
	return nil
}

// AuthLogout clears the stored session token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Signed out\n")
}
