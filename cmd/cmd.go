// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// roomsCommand handles room collection and membership operations
func roomsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "rooms",
		Aliases: []string{"room"},
		Usage:   "Browse, create, and join listening rooms",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List rooms",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "mine",
						Usage: "Show only rooms you are a member of",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Write the listing to {path}_rooms.csv",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Store the listing in the local snapshot database",
					},
				},
				Action: r.RoomsList,
			},
			{
				Name:  "get",
				Usage: "Show one room by id or name",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Room ID",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Room name",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RoomsGet,
			},
			{
				Name:  "create",
				Usage: "Create a room",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Room name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-members",
						Usage: "Member capacity",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Make the room private (requires --password)",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Password for a private room",
					},
				},
				Action: r.RoomsCreate,
			},
			{
				Name:  "update",
				Usage: "Update a room you own",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "New room name",
					},
					&cli.IntFlag{
						Name:  "max-members",
						Usage: "New member capacity",
					},
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Make the room private (requires --password)",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "New password when making the room private",
					},
				},
				Action: r.RoomsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a room you own",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.RoomsDelete,
			},
			{
				Name:  "join",
				Usage: "Join a room",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Password for a private room",
					},
				},
				Action: r.RoomsJoin,
			},
			{
				Name:  "leave",
				Usage: "Leave a room",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.RoomsLeave,
			},
			{
				Name:  "members",
				Usage: "List a room's members",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Store the member list in the local snapshot database",
					},
				},
				Action: r.RoomsMembers,
			},
			{
				Name:  "watch",
				Usage: "Stream realtime events for a room",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
				},
				Action: r.RoomsWatch,
			},
		},
	}
}

// authCommand handles login, logout, and session inspection
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the backend session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in through an OAuth provider",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   "OAuth provider (google or spotify)",
						Value:   "google",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Store a session token directly, skipping the browser flow",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current session and user profile",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session token",
				Action: r.AuthLogout,
			},
		},
	}
}

// tracksCommand handles catalog search via the backend's Spotify proxy
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Search the music catalog",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search tracks by name",
				ArgsUsage: "<query>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TracksSearch,
			},
		},
	}
}

// apiCommand provides raw request access to the backend
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Make raw requests against the backend",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a backend path",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a backend path",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data",
						Usage: "JSON request body",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// cacheCommand manages the local snapshot database
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage local room snapshots",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Fetch both room collections and store them locally",
				Action: r.CacheSync,
			},
			{
				Name:  "show",
				Usage: "Show the stored snapshot",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "mine",
						Usage: "Show the personal collection snapshot",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheShow,
			},
			{
				Name:  "members",
				Usage: "Show stored members for a room",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Room ID",
						Required: true,
					},
				},
				Action: r.CacheMembers,
			},
			{
				Name:   "purge",
				Usage:  "Drop all stored snapshots",
				Action: r.CachePurge,
			},
		},
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive room browser",
		Action: r.TUI,
	}
}
