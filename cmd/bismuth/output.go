package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/bismuth/internal/ipc"
)

// wantJSON reports whether output should be JSON: when asked for, or when
// stdout is not a terminal.
func wantJSON(flagged bool) bool {
	if flagged {
		return true
	}
	f, ok := stdout.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func printJSON(v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func formatGeometry(g ipc.Geometry) string {
	return fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y)
}

func printWindows(w io.Writer, windows []ipc.WindowInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLASS\tSTATE\tSURFACE\tGEOMETRY\tTITLE")
	for _, win := range windows {
		id := fmt.Sprintf("0x%x", win.ID)
		if win.Active {
			id += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", id, win.Class, win.State, win.Surface, formatGeometry(win.Geometry), win.Title)
	}
	tw.Flush()
}

func printSurfaces(w io.Writer, surfaces []ipc.SurfaceInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SURFACE\tOUTPUT\tWORKING AREA\tLAYOUT")
	for _, srf := range surfaces {
		id := srf.ID
		if srf.Current {
			id += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, srf.Name, formatGeometry(srf.WorkingArea), srf.Layout)
	}
	tw.Flush()
}

func printLayouts(w io.Writer, data *ipc.LayoutsData) {
	for _, l := range data.Layouts {
		marker := " "
		if l.Name == data.ActiveLayout {
			marker = "*"
		}
		suffix := ""
		if l.Name == data.DefaultLayout {
			suffix = " (default)"
		}
		fmt.Fprintf(w, "%s %-14s %s%s\n", marker, l.Name, l.Description, suffix)
	}
}

func printActions(w io.Writer, actions []ipc.ActionInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tKEYS\tDESCRIPTION")
	for _, a := range actions {
		keys := a.Keys
		if keys == "" {
			keys = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, keys, a.Description)
	}
	tw.Flush()
}
