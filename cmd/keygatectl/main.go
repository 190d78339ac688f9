// Command keygatectl runs operator tasks directly against the keygate
// database: first admin creation, key and invite issuance, cleanup and a
// one-off reconciliation pass.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/app"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name string
	help string
	run  func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"create-admin", "Create the first admin identity", runCreateAdmin},
	{"issue-key", "Issue license keys", runIssueKey},
	{"issue-invite", "Issue invite codes on behalf of a staff identity", runIssueInvite},
	{"cleanup-keys", "Delete old expired or revoked keys", runCleanupKeys},
	{"stats", "Print key statistics", runStats},
	{"set-limits", "Replace the monthly invite limits", runSetLimits},
	{"reconcile", "Run one role reconciliation pass", runReconcile},
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return errors.New("subcommand required")
	}

	name := args[0]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage(out)
		return nil
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(ctx, out)
		if err != nil {
			return err
		}
		defer e.close()

		return c.run(ctx, e, args[1:])
	}

	printUsage(os.Stderr)
	return fmt.Errorf("unknown subcommand: %q", name)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: keygatectl <subcommand> [flags]\n\nSubcommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-14s %s\n", c.name, c.help)
	}
	fmt.Fprintf(w, "\nConfiguration is read the same way as the server (KEYGATE_CONFIG_FILE, then environment).\n")
}

// newSink is replaced in tests.
var newSink = app.NewSink

// env is the opened database and service graph for one invocation.
type env struct {
	out      io.Writer
	logger   *slog.Logger
	db       store.Store
	services *app.Services
}

func openEnv(ctx context.Context, out io.Writer) (*env, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	// Operator output goes to stdout; keep logs quiet unless asked.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	cfg.LogFormat = "text"
	logger := app.NewLogger(cfg, "keygatectl")

	db, err := app.OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	sink, err := newSink(cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	services, err := app.NewServices(ctx, cfg, db, sink, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &env{out: out, logger: logger, db: db, services: services}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.logger.Error("error closing database", "error", err)
	}
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// parse treats --help as success.
func parse(fs *pflag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (e *env) identityID(ctx context.Context, handle string) (string, error) {
	ident, err := e.db.Identities().GetIdentityByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("no identity with handle %q", handle)
		}
		return "", err
	}
	return ident.ID, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
