package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/1broseidon/bismuth/internal/daemon"
	"github.com/1broseidon/bismuth/internal/ipc"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "surfaces":
		os.Exit(runSurfaces(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "arrange":
		os.Exit(runSimple("arrange", "Re-read window state and re-arrange every surface.", os.Args[2:], func(c *ipc.Client) error { return c.Arrange() }))
	case "reload":
		os.Exit(runSimple("reload", "Ask the daemon to reload its configuration file.", os.Args[2:], func(c *ipc.Client) error { return c.Reload() }))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bismuth <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the tiling daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  windows             List managed windows")
	fmt.Fprintln(w, "  surfaces            List screens/desktops and their layouts")
	fmt.Fprintln(w, "  arrange             Re-arrange every surface")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout list         List enabled layouts")
	fmt.Fprintln(w, "  layout set          Switch the current surface's layout")
	fmt.Fprintln(w, "  layout cycle        Cycle through enabled layouts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  action list         List shortcut actions and their keys")
	fmt.Fprintln(w, "  action <name>       Run a shortcut action")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  menu                Pick a layout or action in rofi/dmenu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config init         Write the default configuration file")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'bismuth <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set printing usage lines and description on
// --help.
func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: "+usage)
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, description)
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(stderr, "")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseFlags parses args and returns an exit code when the command should
// stop: 0 after --help, 2 on bad usage.
func parseFlags(fs *flag.FlagSet, args []string, maxArgs int) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, true
		}
		return 2, true
	}
	if fs.NArg() > maxArgs {
		if maxArgs == 0 {
			fmt.Fprintf(stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(stderr, "%s takes at most %d argument(s)\n", fs.Name(), maxArgs)
		}
		fs.Usage()
		return 2, true
	}
	return 0, false
}

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "bismuth daemon [--config PATH] [--display DISPLAY]", "Start the tiling daemon in the foreground.")
	configPath := fs.String("config", "", "Config file path (default: $XDG_CONFIG_HOME/bismuth/config.yaml)")
	display := fs.String("display", "", "X display to manage (default: config display, then $DISPLAY)")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := daemon.Run(context.Background(), daemon.Options{
		ConfigPath: *configPath,
		Display:    *display,
		Level:      level,
		Logger:     logger,
	}); err != nil {
		log.Printf("bismuth daemon: %v", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "bismuth status [--json]", "Show daemon status via IPC.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		return printJSON(status)
	}
	fmt.Fprintf(stdout, "daemon_running:  %v\n", status.DaemonRunning)
	fmt.Fprintf(stdout, "current_surface: %s\n", status.CurrentSurface)
	fmt.Fprintf(stdout, "active_layout:   %s\n", status.ActiveLayout)
	fmt.Fprintf(stdout, "window_count:    %d\n", status.WindowCount)
	fmt.Fprintf(stdout, "tile_count:      %d\n", status.TileCount)
	if status.ActiveWindow != 0 {
		fmt.Fprintf(stdout, "active_window:   0x%x\n", status.ActiveWindow)
	}
	fmt.Fprintf(stdout, "uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "bismuth windows [--json]", "List managed windows in tiling order.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		return printJSON(data)
	}
	printWindows(stdout, data.Windows)
	return 0
}

func runSurfaces(args []string) int {
	fs := newFlagSet("surfaces", "bismuth surfaces [--json]", "List every screen and desktop with its working area and layout.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	data, err := ipc.NewClient().GetSurfaces()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		return printJSON(data)
	}
	printSurfaces(stdout, data.Surfaces)
	return 0
}

func runSimple(name, description string, args []string, call func(c *ipc.Client) error) int {
	fs := newFlagSet(name, "bismuth "+name, description)
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}
	if err := call(ipc.NewClient()); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
