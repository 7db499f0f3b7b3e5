package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/1broseidon/bismuth/internal/ipc"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bismuth layout list [--json]")
	fmt.Fprintln(w, "  bismuth layout set <layout>")
	fmt.Fprintln(w, "  bismuth layout cycle [--reverse] [steps]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'bismuth layout <command> --help' for command-specific options.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runLayoutList(args[1:])
	case "set":
		return runLayoutSet(args[1:])
	case "cycle":
		return runLayoutCycle(args[1:])
	case "help", "-h", "--help":
		printLayoutUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(stderr)
		return 2
	}
}

func runLayoutList(args []string) int {
	fs := newFlagSet("list", "bismuth layout list [--json]", "List enabled layouts. '*' marks the current surface's layout.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	data, err := ipc.NewClient().ListLayouts()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		return printJSON(data)
	}
	printLayouts(stdout, data)
	return 0
}

func runLayoutSet(args []string) int {
	fs := newFlagSet("set", "bismuth layout set <layout>", "Switch the current surface to a layout. Selecting the active layout again toggles back to the previous one.")
	if code, stop := parseFlags(fs, args, 1); stop {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "set requires <layout>")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().SetLayout(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "layout: %s\n", data.ActiveLayout)
	return 0
}

func runLayoutCycle(args []string) int {
	fs := newFlagSet("cycle", "bismuth layout cycle [--reverse] [steps]", "Move the current surface through the enabled layouts.")
	reverse := fs.Bool("reverse", false, "Cycle backwards")
	if code, stop := parseFlags(fs, args, 1); stop {
		return code
	}

	step := 1
	if fs.NArg() == 1 {
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil || n < 1 {
			fmt.Fprintf(stderr, "invalid steps %q: must be a positive integer\n", fs.Arg(0))
			return 2
		}
		step = n
	}
	if *reverse {
		step = -step
	}

	data, err := ipc.NewClient().CycleLayout(step)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "layout: %s\n", data.ActiveLayout)
	return 0
}
