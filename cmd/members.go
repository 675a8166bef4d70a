package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/formatter"
	"github.com/Lalka12235/TuneWave/internal/tasks"
	"github.com/Lalka12235/TuneWave/internal/ws"
)

// RoomsJoin adds the user to a room. Private rooms suspend for a password,
// supplied with --password or collected interactively.
func (r *Runner) RoomsJoin(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	password := cmd.String("password")

	room, err := r.client.RoomByID(ctx, id)
	if err != nil {
		return err
	}

	r.logger.Info("joining room", "id", id, "private", room.IsPrivate)

	err = r.engine.Join(ctx, id, room.IsPrivate)
	if !errors.Is(err, tasks.ErrPasswordRequired) {
		return err
	}

	if password == "" {
		r.writePlain("Room %q is private. Password (empty to cancel): ", room.Name)
		reader := bufio.NewReader(r.input)
		line, readErr := reader.ReadString('\n')
		if readErr != nil {
			r.engine.CancelJoin()
			return fmt.Errorf("failed to read password: %w", readErr)
		}
		password = strings.TrimSpace(line)
	}

	if password == "" {
		r.engine.CancelJoin()
		return r.writePlain("join cancelled\n")
	}

	return r.engine.ResumeJoin(ctx, password)
}

// RoomsLeave removes the user from a room, prompting unless --yes.
func (r *Runner) RoomsLeave(ctx context.Context, cmd *cli.Command) error {
	r.skipConfirm = cmd.Bool("yes")
	return r.engine.Leave(ctx, cmd.String("id"))
}

// RoomsMembers lists a room's members. No authentication required.
func (r *Runner) RoomsMembers(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	members, err := r.engine.Members(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		repo, err := r.openDatabase()
		if err != nil {
			return err
		}
		if err := repo.ReplaceMembers(id, members); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(members, true)
	}
	return r.writePlain("%s", formatter.MembersToText(members))
}

// RoomsWatch subscribes to a room's socket and prints events as they
// arrive, until interrupted.
func (r *Runner) RoomsWatch(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	user, err := r.client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	listener, err := ws.Dial(ctx, ws.ListenerOpts{
		BaseURL: r.config.Server.WebsocketURL,
		RoomID:  id,
		UserID:  user.ID,
		Logger:  r.logger,
	})
	if err != nil {
		return err
	}
	defer listener.Close()

	r.writePlain("watching room %s (ctrl+c to stop)\n", id)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-listener.Events():
			if !ok {
				return r.writePlain("connection closed\n")
			}
			if text := event.Text(); text != "" {
				r.writePlain("[%s] %s\n", event.Action, text)
			} else {
				r.writePlain("[%s]\n", event.Action)
			}
		}
	}
}
