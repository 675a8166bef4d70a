package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/repositories"
	"github.com/Lalka12235/TuneWave/internal/services"
	"github.com/Lalka12235/TuneWave/internal/session"
	"github.com/Lalka12235/TuneWave/internal/shared"
	"github.com/Lalka12235/TuneWave/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	session    session.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	engine     *tasks.Engine
	db         *sql.DB
	repo       *repositories.RoomRepository

	// skipConfirm answers every confirmation prompt with yes, set by the
	// --yes flag on destructive commands.
	skipConfirm bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Session    session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Session == nil {
		opts.Session = session.NewMemoryStore("")
	}
	if opts.Client == nil {
		opts.Client = services.NewClient(opts.Config.Server.BaseURL, opts.HTTPClient, opts.Session)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}

	r.engine = tasks.NewEngine(tasks.EngineOpts{
		API:     opts.Client,
		Session: opts.Session,
		Status:  tasks.StatusFunc(r.reportStatus),
		Confirm: r.confirmPrompt,
		Logger:  opts.Logger,
	})

	return r
}

// SetLogger swaps the runner and engine logger, used when the TUI redirects
// log output to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, roomsCommand, tracksCommand, apiCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reportStatus renders engine reports as terminal lines.
func (r *Runner) reportStatus(message string, isErr bool) {
	if isErr {
		r.writePlain("✗ %s\n", message)
	} else {
		r.writePlain("✓ %s\n", message)
	}
}

// confirmPrompt asks for a y/N answer on the runner's input stream.
func (r *Runner) confirmPrompt(prompt string) bool {
	if r.skipConfirm {
		return true
	}
	r.writePlain("%s [y/N]: ", prompt)
	reader := bufio.NewReader(r.input)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// openDatabase opens the snapshot database and applies migrations. The
// handle is cached on the runner for the remainder of the command.
func (r *Runner) openDatabase() (*repositories.RoomRepository, error) {
	if r.repo != nil {
		return r.repo, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.repo = repositories.NewRoomRepository(db)
	return r.repo, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
