package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"eventbook/internal/config"
	"eventbook/internal/gateway"
	"eventbook/internal/session"
	"eventbook/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is everything a command needs.
type app struct {
	timeout time.Duration
	cfg     *config.Config
	db      *storage.DB
	session *session.Store
	api     *gateway.Client
	stdin   io.Reader
	stdout  io.Writer
}

// withTimeout bounds the network work of a single command.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

// Commands with prompts set may read stdin and start their own request
// deadline once input is complete.
type command struct {
	usage   string
	run     func(ctx context.Context, a *app, args []string) error
	prompts bool
}

var commands = map[string]command{
	"login":           {"login -email <email> [-password <password>]", cmdLogin, true},
	"register":        {"register -name <name> -email <email> [-password <password>]", cmdRegister, true},
	"logout":          {"logout", cmdLogout, false},
	"whoami":          {"whoami", cmdWhoami, false},
	"events":          {"events", cmdEvents, false},
	"event":           {"event <id>", cmdEvent, false},
	"book":            {"book <event-id>", cmdBook, false},
	"bookings":        {"bookings", cmdBookings, false},
	"categories":      {"categories", cmdCategories, false},
	"tags":            {"tags", cmdTags, false},
	"lang":            {"lang [code]", cmdLang, false},
	"create-category": {"create-category <name>", cmdCreateCategory, false},
	"delete-category": {"delete-category <id>", cmdDeleteCategory, false},
	"create-tag":      {"create-tag <name>", cmdCreateTag, false},
	"delete-tag":      {"delete-tag <id>", cmdDeleteTag, false},
	"create-event":    {"create-event -name <name> -date <iso> -price <n> -category <id> -tag <id>... [-venue] [-description] [-image <file> | -image-url <url>]", cmdCreateEvent, false},
	"update-event":    {"update-event <id> [-name] [-date] [-price] [-venue] [-description] [-category] [-tag <id>...] [-image-url]", cmdUpdateEvent, false},
	"delete-event":    {"delete-event <id>", cmdDeleteEvent, false},
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eventbook", flag.ContinueOnError)
	fs.SetOutput(stderr)

	apiURL := fs.String("api", "", "API base URL (overrides API_URL)")
	dbPath := fs.String("db", "", "Path to the local state database (overrides DB_PATH)")
	envFile := fs.String("env", ".env", "Optional dotenv file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		printUsage(stdout, fs)
		return fmt.Errorf("missing command")
	}
	name, cmdArgs := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		printUsage(stdout, fs)
		return fmt.Errorf("unknown command %q", name)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	client := gateway.New(cfg.APIURL, gateway.WithTimeout(cfg.RequestTimeout), gateway.WithLogger(logger))
	store := session.NewStore(db, client, logger)
	store.Restore()

	a := &app{
		timeout: cfg.RequestTimeout,
		cfg:     cfg,
		db:      db,
		session: store,
		api:     client.WithTokens(store),
		stdin:   stdin,
		stdout:  stdout,
	}

	if !cmd.prompts {
		var cancel context.CancelFunc
		ctx, cancel = a.withTimeout(ctx)
		defer cancel()
	}
	return cmd.run(ctx, a, cmdArgs)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: eventbook [-api <url>] [-db <path>] <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}

	fmt.Fprintln(w, "\nFlags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
