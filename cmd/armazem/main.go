package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const usage = `Usage: armazem [command] [flags]

Commands:
  serve     run the HTTP server (default)
  useradd   create a user account
  lookup    manage product types and storage locations

Run 'armazem <command> -h' for the flags of a command.
`

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger installs the default logger. If logPath is non-empty, every
// level is also appended to that file. The returned function closes it.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	cleanup := func() {}
	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(slog.New(&levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}))
	return cleanup, nil
}

// commonFlags are accepted by every command.
type commonFlags struct {
	config string
	driver string
	dsn    string
	log    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "")
	fs.StringVar(&c.config, "c", "", "")
	fs.StringVar(&c.driver, "driver", "", "")
	fs.StringVar(&c.dsn, "db", "", "")
	fs.StringVar(&c.dsn, "d", "", "")
	fs.StringVar(&c.log, "log", "", "")
	fs.StringVar(&c.log, "l", "", "")
}

// overrides returns the configuration keys of the flags that were set.
func (c *commonFlags) overrides(fs *flag.FlagSet) map[string]any {
	o := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			o["database.driver"] = c.driver
		case "db", "d":
			o["database.dsn"] = c.dsn
		case "log", "l":
			o["log.file"] = c.log
		}
	})
	return o
}

const commonUsage = `  -c, -config <path>      YAML config file (default: ./armazem.yaml if present)
      -driver <name>      database driver: sqlite, mysql or postgres
  -d, -db <dsn>           database DSN or SQLite path
  -l, -log <path>         log file path (default: stdout/stderr only)
  -h, -help               show this help and exit
`

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = cmdServe(args)
	case "useradd":
		err = cmdUserAdd(args)
	case "lookup":
		err = cmdLookup(args)
	case "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
