package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/formatter"
	"github.com/Lalka12235/TuneWave/internal/shared"
	"github.com/Lalka12235/TuneWave/internal/tasks"
)

// Setup creates a config file and initializes the snapshot database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warnf("config file not created: %v", err)
	} else {
		r.writePlain("✓ Config file created at %s\n", configPath)
	}

	if _, err := r.openDatabase(); err != nil {
		return err
	}

	r.writePlain("✓ Snapshot database ready at %s\n", r.config.Database.Path)
	return nil
}

// CacheSync fetches both room collections and stores them locally.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openDatabase()
	if err != nil {
		return err
	}

	if err := r.engine.Refresh(ctx, tasks.TargetGlobal); err != nil {
		return err
	}
	global := r.engine.View(tasks.TargetGlobal)
	if err := repo.ReplaceView(tasks.TargetGlobal.String(), global.Rooms); err != nil {
		return err
	}

	// The personal view needs a session; skip it quietly when signed out.
	if _, ok := r.session.Get(); ok {
		if err := r.engine.Refresh(ctx, tasks.TargetMine); err != nil {
			return err
		}
		mine := r.engine.View(tasks.TargetMine)
		if err := repo.ReplaceView(tasks.TargetMine.String(), mine.Rooms); err != nil {
			return err
		}
	}

	return r.writePlain("✓ Snapshots stored\n")
}

// CacheShow prints the stored snapshot for one view target.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openDatabase()
	if err != nil {
		return err
	}

	target := tasks.TargetGlobal
	if cmd.Bool("mine") {
		target = tasks.TargetMine
	}

	rooms, fetchedAt, err := repo.View(target.String())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rooms, true)
	}

	if fetchedAt.IsZero() {
		return r.writePlain("no snapshot stored, run 'tunewave cache sync'\n")
	}

	r.writePlain("snapshot from %s\n\n", fetchedAt.Format("2006-01-02 15:04:05"))
	return r.writePlain("%s", formatter.RoomsToText(rooms))
}

// CacheMembers prints the stored member list for one room.
func (r *Runner) CacheMembers(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openDatabase()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	members, err := repo.Members(id)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return r.writePlain("no members stored for this room\n")
	}

	if room, err := repo.Get(id); err == nil && room != nil {
		r.writePlain("members of %q\n\n", room.Name)
	}
	return r.writePlain("%s", formatter.MembersToText(members))
}

// CachePurge drops all stored snapshots.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openDatabase()
	if err != nil {
		return err
	}

	if err := repo.Purge(); err != nil {
		return fmt.Errorf("failed to purge snapshots: %w", err)
	}

	return r.writePlain("✓ Snapshots purged\n")
}
