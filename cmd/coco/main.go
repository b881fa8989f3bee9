package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/coco/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "show":
		os.Exit(runShow(os.Args[2:]))
	case "hide":
		os.Exit(runSimple("hide", "Hide the launcher window.", os.Args[2:], ipc.NewClient().Hide))
	case "toggle":
		os.Exit(runSimple("toggle", "Show the launcher if hidden, hide it if visible.", os.Args[2:], ipc.NewClient().Toggle))
	case "create-dir":
		os.Exit(runSimple("create-dir", "Create the configured file (files.create_dir/files.create_name).", os.Args[2:], ipc.NewClient().CreateDir))
	case "reload":
		os.Exit(runSimple("reload", "Ask the daemon to reload its configuration.", os.Args[2:], ipc.NewClient().Reload))
	case "greet":
		os.Exit(runGreet(os.Args[2:]))
	case "height":
		os.Exit(runHeight(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coco <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the coco daemon (foreground)")
	fmt.Fprintln(w, "  show                Center the launcher on the active monitor and show it")
	fmt.Fprintln(w, "  hide                Hide the launcher")
	fmt.Fprintln(w, "  toggle              Show or hide the launcher")
	fmt.Fprintln(w, "  greet <name>        Print a greeting from the daemon")
	fmt.Fprintln(w, "  create-dir          Create the configured file")
	fmt.Fprintln(w, "  height <pixels>     Change the launcher height")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "  config init         Write a default configuration file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'coco <command> --help' for command-specific options.")
}

// newFlagSet builds a flag set whose usage prints the given lines.
func newFlagSet(name string, usage ...string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		for _, line := range usage {
			fmt.Fprintln(os.Stderr, line)
		}
		if hasFlags(fs) {
			fmt.Fprintln(os.Stderr, "")
			fs.PrintDefaults()
		}
	}
	return fs
}

func hasFlags(fs *flag.FlagSet) bool {
	found := false
	fs.VisitAll(func(*flag.Flag) { found = true })
	return found
}

// parseArgs parses args and checks the positional count. It returns an
// exit code and false when the caller should stop.
func parseArgs(fs *flag.FlagSet, args []string, wantArgs int) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != wantArgs {
		if wantArgs == 0 {
			fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(os.Stderr, "%s takes exactly %d argument(s)\n", fs.Name(), wantArgs)
		}
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func runSimple(name, description string, args []string, call func() error) int {
	fs := newFlagSet(name, "Usage: coco "+name, "", description)
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	if err := call(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runShow(args []string) int {
	fs := newFlagSet("show", "Usage: coco show [--json]", "", "Center the launcher on the monitor under the cursor, then show and focus it.")
	jsonOut := fs.Bool("json", false, "Print the placement result as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	data, err := ipc.NewClient().Show()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	if data.Monitor != "" {
		fmt.Printf("placement: %s on %s at %d,%d\n", data.Placement, data.Monitor, data.X, data.Y)
	} else {
		fmt.Printf("placement: %s\n", data.Placement)
	}
	for _, w := range data.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return 0
}

func runGreet(args []string) int {
	fs := newFlagSet("greet", "Usage: coco greet <name>", "", "Ask the daemon for a greeting.")
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	msg, err := ipc.NewClient().Greet(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(msg)
	return 0
}

func runHeight(args []string) int {
	fs := newFlagSet("height", "Usage: coco height <pixels>", "", "Resize the launcher to the given height, keeping its width.")
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	height, err := strconv.Atoi(fs.Arg(0))
	if err != nil || height <= 0 {
		fmt.Fprintf(os.Stderr, "invalid height %q: must be a positive integer\n", fs.Arg(0))
		return 2
	}
	if err := ipc.NewClient().SetHeight(height); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMonitors(args []string) int {
	fs := newFlagSet("monitors", "Usage: coco monitors [--json]", "", "List monitors known to the daemon.")
	jsonOut := fs.Bool("json", false, "Print monitors as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	writeMonitors(os.Stdout, data.Monitors, term.IsTerminal(int(os.Stdout.Fd())))
	return 0
}

// writeMonitors prints one monitor per line. Headers are added for terminals.
func writeMonitors(w io.Writer, monitors []ipc.MonitorInfo, header bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if header {
		fmt.Fprintln(tw, "ID\tNAME\tGEOMETRY\tPRIMARY")
	}
	for _, m := range monitors {
		name := m.Name
		if name == "" {
			name = "-"
		}
		primary := ""
		if m.Primary {
			primary = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%dx%d+%d+%d\t%s\n", m.ID, name, m.Width, m.Height, m.X, m.Y, primary)
	}
	tw.Flush()
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "Usage: coco status [--json]", "", "Show daemon status via IPC.")
	jsonOut := fs.Bool("json", false, "Print status as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window_bound:   %v\n", status.WindowBound)
	if status.WindowBound {
		fmt.Printf("window_id:      0x%x\n", status.WindowID)
	}
	fmt.Printf("last_monitor:   %s\n", status.LastMonitor)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
