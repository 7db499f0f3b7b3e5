package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bismuth/internal/config"
	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/hotkeys"
)

const pathHelp = "Config file path (default: $XDG_CONFIG_HOME/bismuth/config.yaml)"

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bismuth config validate [--path PATH]")
	fmt.Fprintln(w, "  bismuth config print [--path PATH] [--effective|--defaults]")
	fmt.Fprintln(w, "  bismuth config init [--path PATH] [--force]")
	fmt.Fprintln(w, "  bismuth config explain [--path PATH] <yaml.path>")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "print":
		return runConfigPrint(args[1:])
	case "init":
		return runConfigInit(args[1:])
	case "explain":
		return runConfigExplain(args[1:])
	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfigValidate(args []string) int {
	fs := newFlagSet("validate", "bismuth config validate [--path PATH]", "Validate the configuration file and its keybinding action names.")
	path := fs.String("path", "", pathHelp)
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if _, unknown := hotkeys.Resolve(res.Config.Keybindings, controller.IsAction); len(unknown) > 0 {
		for _, name := range unknown {
			fmt.Fprintf(stderr, "keybindings.%s: unknown action\n", name)
		}
		return 1
	}
	fmt.Fprintln(stdout, "config: ok")
	return 0
}

func runConfigPrint(args []string) int {
	fs := newFlagSet("print", "bismuth config print [--path PATH] [--effective|--defaults]", "Print the effective configuration as YAML.")
	path := fs.String("path", "", pathHelp)
	printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
	fs.Bool("effective", false, "Print effective config (default)")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	cfg := config.DefaultConfig()
	if !*printDefaults {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg = res.Config
	}
	data, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprint(stdout, string(data))
	return 0
}

func runConfigInit(args []string) int {
	fs := newFlagSet("init", "bismuth config init [--path PATH] [--force]", "Write the built-in defaults to the config file.")
	path := fs.String("path", "", pathHelp)
	force := fs.Bool("force", false, "Overwrite an existing file")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	target := *path
	if target == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		target = p
	}
	if _, err := os.Stat(target); err == nil && !*force {
		fmt.Fprintf(stderr, "%s already exists (use --force to overwrite)\n", target)
		return 1
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := config.DefaultConfig().SaveTo(target); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", target)
	return 0
}

func runConfigExplain(args []string) int {
	fs := newFlagSet("explain", "bismuth config explain [--path PATH] <yaml.path>", "Show a config value and the file and line that set it.")
	path := fs.String("path", "", pathHelp)
	if code, stop := parseFlags(fs, args, 1); stop {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "explain requires <yaml.path>")
		return 2
	}
	queryPath := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	value, src, err := config.Explain(res, queryPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "path: %s\n", queryPath)
	fmt.Fprintf(stdout, "source: %s\n", formatSource(src))
	fmt.Fprintf(stdout, "value:\n%s", string(out))
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
