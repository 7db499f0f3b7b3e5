package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// ErrUnknownLayout is wrapped by errors for layout names that do not exist.
var ErrUnknownLayout = errors.New("unknown layout")

// Gaps are pixel gaps around the screen edges and between tiles.
type Gaps struct {
	ScreenLeft   int `yaml:"screen_left"`
	ScreenRight  int `yaml:"screen_right"`
	ScreenTop    int `yaml:"screen_top"`
	ScreenBottom int `yaml:"screen_bottom"`
	Tile         int `yaml:"tile"`
}

// MasterConfig configures layouts with a master area.
type MasterConfig struct {
	MasterCount int     `yaml:"master_count"`
	MasterRatio float64 `yaml:"master_ratio"`
}

type StairConfig struct {
	Space int `yaml:"space"`
}

type SpreadConfig struct {
	Space float64 `yaml:"space"`
}

type QuarterConfig struct {
	VSplit  float64 `yaml:"vsplit"`
	LHSplit float64 `yaml:"lhsplit"`
	RHSplit float64 `yaml:"rhsplit"`
}

type Config struct {
	AdjustLayout        bool `yaml:"adjust_layout"`
	AdjustLayoutLive    bool `yaml:"adjust_layout_live"`
	MonocleMinimizeRest bool `yaml:"monocle_minimize_rest"`
	NewWindowAsMaster   bool `yaml:"new_window_as_master"`

	Layouts       []string `yaml:"layouts"`
	DefaultLayout string   `yaml:"default_layout"`

	Tile        MasterConfig  `yaml:"tile"`
	ThreeColumn MasterConfig  `yaml:"three_column"`
	Stair       StairConfig   `yaml:"stair"`
	Spread      SpreadConfig  `yaml:"spread"`
	Quarter     QuarterConfig `yaml:"quarter"`

	Gaps Gaps `yaml:"gaps"`

	FloatClasses  []string          `yaml:"float_classes"`
	IgnoreClasses []string          `yaml:"ignore_classes"`
	Keybindings   map[string]string `yaml:"keybindings"`

	Display  string `yaml:"display,omitempty"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	defaults := tiling.New(tiling.KindTile)
	layouts := make([]string, len(tiling.Kinds))
	for i, kind := range tiling.Kinds {
		layouts[i] = kind.String()
	}

	return &Config{
		AdjustLayout:     true,
		AdjustLayoutLive: true,
		Layouts:          layouts,
		DefaultLayout:    tiling.KindTile.String(),
		Tile: MasterConfig{
			MasterCount: defaults.Tile.MasterCount,
			MasterRatio: defaults.Tile.MasterRatio,
		},
		ThreeColumn: MasterConfig{
			MasterCount: defaults.ThreeColumn.MasterCount,
			MasterRatio: defaults.ThreeColumn.MasterRatio,
		},
		Stair:  StairConfig{Space: defaults.Stair.Space},
		Spread: SpreadConfig{Space: defaults.Spread.Space},
		Quarter: QuarterConfig{
			VSplit:  defaults.Quarter.VSplit,
			LHSplit: defaults.Quarter.LHSplit,
			RHSplit: defaults.Quarter.RHSplit,
		},
		Keybindings: defaultKeybindings(),
		LogLevel:    "info",
	}
}

func defaultKeybindings() map[string]string {
	return map[string]string{
		"focus-next":            "Mod4-period",
		"focus-previous":        "Mod4-comma",
		"focus-up":              "Mod4-k",
		"focus-down":            "Mod4-j",
		"focus-left":            "Mod4-h",
		"focus-right":           "Mod4-l",
		"move-up":               "Mod4-Shift-k",
		"move-down":             "Mod4-Shift-j",
		"move-left":             "Mod4-Shift-h",
		"move-right":            "Mod4-Shift-l",
		"increase-width":        "Mod4-Control-l",
		"decrease-width":        "Mod4-Control-h",
		"increase-height":       "Mod4-Control-j",
		"decrease-height":       "Mod4-Control-k",
		"increase-master-count": "Mod4-i",
		"decrease-master-count": "Mod4-d",
		"toggle-floating":       "Mod4-f",
		"push-to-master":        "Mod4-Return",
		"next-layout":           "Mod4-backslash",
		"previous-layout":       "Mod4-Shift-backslash",
		"tile-layout":           "Mod4-t",
		"monocle-layout":        "Mod4-m",
		"rotate":                "Mod4-r",
		"rotate-part":           "Mod4-Shift-r",
	}
}

// LayoutKinds returns the enabled layouts in cycle order.
func (c *Config) LayoutKinds() ([]tiling.Kind, error) {
	kinds := make([]tiling.Kind, 0, len(c.Layouts))
	for i, name := range c.Layouts {
		kind, err := parseLayout(name)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("layouts[%d]", i), Err: err}
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// DefaultKind returns the layout new surfaces start with.
func (c *Config) DefaultKind() (tiling.Kind, error) {
	kind, err := parseLayout(c.DefaultLayout)
	if err != nil {
		return 0, &ValidationError{Path: "default_layout", Err: err}
	}
	return kind, nil
}

func parseLayout(name string) (tiling.Kind, error) {
	kind, err := tiling.ParseKind(name)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrUnknownLayout, name)
	}
	return kind, nil
}

// LayoutDefaults returns the starting parameters of every layout kind.
func (c *Config) LayoutDefaults() map[tiling.Kind]tiling.Layout {
	out := make(map[tiling.Kind]tiling.Layout, len(tiling.Kinds))
	for _, kind := range tiling.Kinds {
		l := tiling.New(kind)
		l.Gap = c.Gaps.Tile
		l.Tile.MasterCount = c.Tile.MasterCount
		l.Tile.MasterRatio = c.Tile.MasterRatio
		l.ThreeColumn.MasterCount = c.ThreeColumn.MasterCount
		l.ThreeColumn.MasterRatio = c.ThreeColumn.MasterRatio
		l.Stair.Space = c.Stair.Space
		l.Spread.Space = c.Spread.Space
		l.Quarter = tiling.QuarterParams{
			VSplit:  c.Quarter.VSplit,
			LHSplit: c.Quarter.LHSplit,
			RHSplit: c.Quarter.RHSplit,
		}
		out[kind] = l
	}
	return out
}

// EngineOptions converts the behaviour switches for the engine.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		AdjustLayout:        c.AdjustLayout,
		AdjustLayoutLive:    c.AdjustLayoutLive,
		MonocleMinimizeRest: c.MonocleMinimizeRest,
		NewWindowAsMaster:   c.NewWindowAsMaster,
		ScreenGaps: engine.Gaps{
			Left:   c.Gaps.ScreenLeft,
			Right:  c.Gaps.ScreenRight,
			Top:    c.Gaps.ScreenTop,
			Bottom: c.Gaps.ScreenBottom,
		},
		TileGap: c.Gaps.Tile,
	}
}

// NewLayoutStore builds a layout store from the configured layouts.
func (c *Config) NewLayoutStore() (*engine.LayoutStore, error) {
	kinds, initial, err := c.layoutSetup()
	if err != nil {
		return nil, err
	}
	return engine.NewLayoutStore(kinds, c.LayoutDefaults(), initial), nil
}

// ReconfigureLayouts applies the configured layouts to an existing store.
func (c *Config) ReconfigureLayouts(store *engine.LayoutStore) error {
	kinds, initial, err := c.layoutSetup()
	if err != nil {
		return err
	}
	store.Reconfigure(kinds, c.LayoutDefaults(), initial)
	return nil
}

func (c *Config) layoutSetup() ([]tiling.Kind, tiling.Kind, error) {
	kinds, err := c.LayoutKinds()
	if err != nil {
		return nil, 0, err
	}
	initial, err := c.DefaultKind()
	if err != nil {
		return nil, 0, err
	}
	return kinds, initial, nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the source files.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates the configuration and writes it to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("at least one layout must be enabled")}
	}
	kinds, err := c.LayoutKinds()
	if err != nil {
		return err
	}
	seen := make(map[tiling.Kind]bool, len(kinds))
	for i, kind := range kinds {
		if seen[kind] {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d]", i), Err: fmt.Errorf("layout %q listed twice", kind)}
		}
		seen[kind] = true
	}

	initial, err := c.DefaultKind()
	if err != nil {
		return err
	}
	if !seen[initial] {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout %q is not in layouts", c.DefaultLayout)}
	}

	if err := validateMaster("tile", c.Tile, 0); err != nil {
		return err
	}
	if err := validateMaster("three_column", c.ThreeColumn, 1); err != nil {
		return err
	}
	if c.Stair.Space < 0 {
		return &ValidationError{Path: "stair.space", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Spread.Space <= 0 || c.Spread.Space >= 1 {
		return &ValidationError{Path: "spread.space", Err: fmt.Errorf("must be between 0 and 1 (exclusive)")}
	}
	for _, r := range []struct {
		path  string
		value float64
	}{
		{"quarter.vsplit", c.Quarter.VSplit},
		{"quarter.lhsplit", c.Quarter.LHSplit},
		{"quarter.rhsplit", c.Quarter.RHSplit},
	} {
		if r.value <= 0 || r.value >= 1 {
			return &ValidationError{Path: r.path, Err: fmt.Errorf("must be between 0 and 1 (exclusive)")}
		}
	}

	for _, g := range []struct {
		path  string
		value int
	}{
		{"gaps.screen_left", c.Gaps.ScreenLeft},
		{"gaps.screen_right", c.Gaps.ScreenRight},
		{"gaps.screen_top", c.Gaps.ScreenTop},
		{"gaps.screen_bottom", c.Gaps.ScreenBottom},
		{"gaps.tile", c.Gaps.Tile},
	} {
		if g.value < 0 {
			return &ValidationError{Path: g.path, Err: fmt.Errorf("must be >= 0")}
		}
	}

	for action, keys := range c.Keybindings {
		if strings.TrimSpace(action) == "" {
			return &ValidationError{Path: "keybindings", Err: fmt.Errorf("keybindings contains an empty action name")}
		}
		if strings.TrimSpace(keys) == "" {
			return &ValidationError{Path: "keybindings." + action, Err: fmt.Errorf("key sequence must not be empty")}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}

func validateMaster(path string, m MasterConfig, minCount int) error {
	if m.MasterCount < minCount {
		return &ValidationError{Path: path + ".master_count", Err: fmt.Errorf("must be >= %d", minCount)}
	}
	if m.MasterRatio <= 0 || m.MasterRatio >= 1 {
		return &ValidationError{Path: path + ".master_ratio", Err: fmt.Errorf("must be between 0 and 1 (exclusive)")}
	}
	return nil
}
