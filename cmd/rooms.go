package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/formatter"
	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/shared"
	"github.com/Lalka12235/TuneWave/internal/tasks"
)

// RoomsList fetches one room collection and renders it.
func (r *Runner) RoomsList(ctx context.Context, cmd *cli.Command) error {
	target := tasks.TargetGlobal
	if cmd.Bool("mine") {
		target = tasks.TargetMine
	}

	r.logger.Info("listing rooms", "target", target.String())

	if err := r.engine.Refresh(ctx, target); err != nil {
		return err
	}
	view := r.engine.View(target)

	if cmd.Bool("save") {
		repo, err := r.openDatabase()
		if err != nil {
			return err
		}
		if err := repo.ReplaceView(target.String(), view.Rooms); err != nil {
			return err
		}
		r.writePlain("✓ Snapshot saved (%d rooms)\n", len(view.Rooms))
	}

	if path := cmd.String("csv"); path != "" {
		result, err := formatter.WriteRoomsCSV(view.Rooms, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Listing written to %s\n", result.RoomsFile)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view.Rooms, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.RoomsToText(view.Rooms))
}

// RoomsGet shows a single room looked up by id or by exact name.
func (r *Runner) RoomsGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	name := cmd.String("name")

	if id == "" && name == "" {
		return fmt.Errorf("%w: --id or --name is required", shared.ErrMissingArgument)
	}

	room, err := func() (any, error) {
		if id != "" {
			return r.client.RoomByID(ctx, id)
		}
		return r.client.RoomByName(ctx, name)
	}()
	if err != nil {
		return err
	}

	return r.writeJSON(room, !cmd.Bool("json"))
}

// RoomsCreate creates a room through the engine, which enforces the
// privacy/password invariant before any request is sent.
func (r *Runner) RoomsCreate(ctx context.Context, cmd *cli.Command) error {
	data := roomCreateFromFlags(cmd)

	r.logger.Info("creating room", "name", data.Name, "private", data.IsPrivate)

	_, err := r.engine.Create(ctx, data)
	return err
}

// RoomsUpdate applies a partial update to a room.
func (r *Runner) RoomsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	data := roomUpdateFromFlags(cmd)

	r.logger.Info("updating room", "id", id)

	_, err := r.engine.Update(ctx, id, data)
	return err
}

// RoomsDelete removes a room, prompting for confirmation unless --yes.
func (r *Runner) RoomsDelete(ctx context.Context, cmd *cli.Command) error {
	r.skipConfirm = cmd.Bool("yes")
	return r.engine.Delete(ctx, cmd.String("id"))
}

func roomCreateFromFlags(cmd *cli.Command) models.RoomCreate {
	return models.RoomCreate{
		Name:       cmd.String("name"),
		MaxMembers: int(cmd.Int("max-members")),
		IsPrivate:  cmd.Bool("private"),
		Password:   cmd.String("password"),
	}
}

func roomUpdateFromFlags(cmd *cli.Command) models.RoomUpdate {
	var data models.RoomUpdate
	if cmd.IsSet("name") {
		name := cmd.String("name")
		data.Name = &name
	}
	if cmd.IsSet("max-members") {
		maxMembers := int(cmd.Int("max-members"))
		data.MaxMembers = &maxMembers
	}
	data.IsPrivate = cmd.Bool("private")
	if cmd.IsSet("password") {
		password := cmd.String("password")
		data.Password = &password
	}
	return data
}
