// Package palette shows layouts and shortcut actions in an external dmenu
// style launcher (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the launcher closes without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row of a launcher menu.
type Item struct {
	Label string
	// Value is returned to the caller on selection.
	Value string
	Icon  string
	// Meta holds hidden search keywords.
	Meta     string
	IsHeader bool
	IsActive bool
}

// Launcher shows items and returns the selected one.
type Launcher interface {
	Name() string
	Show(prompt string, items []Item, message string) (Item, error)
}

// launchers lists supported commands in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

var lookPath = exec.LookPath

// Detect returns the first launcher found in PATH.
func Detect() (Launcher, error) {
	for _, name := range launchers {
		if _, err := lookPath(name); err == nil {
			return newCommandLauncher(name), nil
		}
	}
	return nil, fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(launchers, ", "))
}

// New returns the launcher called name, or the first one found for "" and
// "auto".
func New(name string) (Launcher, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return Detect()
	}
	for _, known := range launchers {
		if name != known {
			continue
		}
		if _, err := lookPath(name); err != nil {
			return nil, fmt.Errorf("launcher %q not found in PATH", name)
		}
		return newCommandLauncher(name), nil
	}
	return nil, fmt.Errorf("unknown launcher: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}

// commandLauncher pipes rows to a dmenu compatible command. rofi and
// fuzzel report the selected row index; wofi and dmenu echo the label.
type commandLauncher struct {
	command string
	byIndex bool
	markup  bool
	icons   bool
}

func newCommandLauncher(command string) *commandLauncher {
	l := &commandLauncher{command: command}
	switch command {
	case "rofi":
		l.byIndex, l.markup, l.icons = true, true, true
	case "fuzzel":
		l.byIndex, l.icons = true, true
	case "wofi":
		l.markup, l.icons = true, true
	}
	return l
}

func (l *commandLauncher) Name() string { return l.command }

func (l *commandLauncher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := make([]Item, len(items))
	copy(rows, items)

	input, selected := l.input(rows)
	cmd := exec.Command(l.command, l.args(prompt, message, rows, selected)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && cancelled(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.selected(selection, rows)
}

func (l *commandLauncher) args(prompt, message string, rows []Item, selected int) []string {
	var args []string
	switch l.command {
	case "rofi":
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		for i, row := range rows {
			if row.IsActive && !row.IsHeader {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case "fuzzel":
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case "wofi":
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	default:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// input renders rows one per line and returns the row to preselect. Label
// matching launchers get duplicate labels numbered in place.
func (l *commandLauncher) input(rows []Item) (string, int) {
	if !l.byIndex {
		seen := make(map[string]int)
		for i := range rows {
			if rows[i].IsHeader {
				continue
			}
			key := cleanLabel(rows[i].Label)
			if n := seen[key]; n > 0 {
				rows[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
			}
			seen[key]++
		}
	}

	selected, first := -1, -1
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = l.line(row)
		if row.IsHeader {
			continue
		}
		if first < 0 {
			first = i
		}
		if row.IsActive && selected < 0 {
			selected = i
		}
	}
	if selected < 0 {
		selected = first
	}
	return strings.Join(lines, "\n"), selected
}

// line formats one row. rofi reads row options after a single NUL, as
// key/value pairs separated by \x1f.
func (l *commandLauncher) line(row Item) string {
	text := cleanLabel(row.Label)
	if l.markup {
		text = html.EscapeString(text)
		if row.IsHeader {
			text = "<b>" + text + "</b>"
		}
	}
	if l.command != "rofi" {
		return text
	}

	var opts []string
	if row.IsHeader {
		opts = append(opts, "nonselectable", "true")
	}
	if row.Icon != "" {
		opts = append(opts, "icon", cleanField(row.Icon))
	}
	if row.Meta != "" {
		opts = append(opts, "meta", cleanField(row.Meta))
	}
	if len(opts) == 0 {
		return text
	}
	return text + "\x00" + strings.Join(opts, "\x1f")
}

func (l *commandLauncher) selected(selection string, rows []Item) (Item, error) {
	if l.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return rows[idx], nil
		}
	}
	for _, row := range rows {
		if cleanLabel(row.Label) == selection {
			return row, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s))
}

// cancelled reports the exit codes launchers use for Escape and Ctrl+C.
func cancelled(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
