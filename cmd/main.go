package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"vjpl/internal/logger"
	"vjpl/internal/runner"
	"vjpl/pkg/color"

	"github.com/charmbracelet/log"
)

// Main entry point for the vjpl runner.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Dump, "d", false, "Dump the entry function's frame after each invocation")
	flag.BoolVar(&options.Journal, "J", false, "Copy invocation records to the systemd journal")
	flag.StringVar(&options.ConfigFile, "c", "", "Config file (YAML)")
	flag.StringVar(&options.JSONLog, "j", "", "Append invocation records to this file as JSON")
	flag.StringVar(&options.Entry, "e", "", "Entry function (defaults to the program's entry)")
	flag.IntVar(&options.Parallel, "p", 0, "Number of concurrent invocations")
	flag.IntVar(&options.MaxSteps, "s", 0, "Maximum loop iterations per invocation (0 for unlimited)")
	flag.DurationVar(&options.Timeout, "t", 0, "Abandon invocations after this long (e.g. 5s)")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <program.yaml> [args...]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No program file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.ProgramFile = args[0]
	options.Args = args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := options.Run(ctx); err != nil {
		stop()
		log.Fatal("Run failed", "error", err)
	}
}
