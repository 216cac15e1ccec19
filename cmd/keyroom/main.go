package main

import (
	"context"
	"fmt"
	"io"
	"keyroom/internal"
	"keyroom/runtime"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dbPath   string
	logLevel string
	patterns string
	wait     time.Duration
	noColour bool
}

// run parses flags, builds the engine and executes one command.
// It returns instead of exiting so deferred cleanup (database close) always happens.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}

	var opts options
	flagSet := pflag.NewFlagSet("keyroom", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVar(&opts.dbPath, "db", config.BadgerFilepath, "path to the Badger database directory")
	flagSet.StringVar(&opts.logLevel, "log-level", config.LogLevel, "log level (DEBUG, INFO, WARN, ERROR)")
	flagSet.StringVar(&opts.patterns, "patterns", config.PatternsFile, "YAML reply table replacing the built-in one")
	flagSet.DurationVar(&opts.wait, "wait", 5*time.Second, "how long send waits for the bot reply")
	flagSet.BoolVar(&opts.noColour, "no-color", !config.Colours, "disable coloured output")
	flagSet.SetInterspersed(false)
	flagSet.Usage = func() { printUsage(stdout, flagSet) }

	if err = flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stdout, flagSet)
		return fmt.Errorf("missing command")
	}

	config.BadgerFilepath = opts.dbPath
	config.LogLevel = opts.logLevel
	config.PatternsFile = opts.patterns
	log := logs.GetLoggerFromString(config.LogLevel)

	out := newPrinter(stdout, !opts.noColour)
	cmd, ok := commands[rest[0]]
	if !ok {
		printUsage(stdout, flagSet)
		return fmt.Errorf("unknown command %q", rest[0])
	}
	if cmd.standalone != nil {
		return cmd.standalone(out, config, log, rest[1:])
	}

	engine, err := runtime.NewEngine(config, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			log.Warn("Closing engine failed", "error", cerr)
		}
	}()
	if err = engine.Start(ctx); err != nil {
		return err
	}

	return cmd.run(ctx, &session{engine: engine, out: out, in: stdin, wait: opts.wait}, rest[1:])
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintln(w, "Usage: keyroom [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		for _, line := range commands[name].usage {
			fmt.Fprintf(w, "  %-28s %s\n", line.syntax, line.help)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, flagSet.FlagUsages())
}
