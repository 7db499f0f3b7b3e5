package main

import (
	"fmt"
	"io"

	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/ipc"
)

func printActionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bismuth action list [--json]")
	fmt.Fprintln(w, "  bismuth action <name>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Actions:")
	for _, a := range controller.Actions() {
		fmt.Fprintf(w, "  %-24s %s\n", a.Name, a.Description)
	}
}

func runAction(args []string) int {
	if len(args) == 0 {
		printActionUsage(stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runActionList(args[1:])
	case "help", "-h", "--help":
		printActionUsage(stdout)
		return 0
	}

	name := args[0]
	if len(args) > 1 {
		fmt.Fprintln(stderr, "action takes exactly one name")
		return 2
	}
	if !controller.IsAction(name) {
		fmt.Fprintf(stderr, "Unknown action: %s\n\n", name)
		printActionUsage(stderr)
		return 2
	}
	if err := ipc.NewClient().RunAction(name); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runActionList(args []string) int {
	fs := newFlagSet("list", "bismuth action list [--json]", "List shortcut actions with their bound keys.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	data, err := ipc.NewClient().ListActions()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		return printJSON(data)
	}
	printActions(stdout, data.Actions)
	return 0
}
