package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawGaps struct {
	ScreenLeft   *int `yaml:"screen_left"`
	ScreenRight  *int `yaml:"screen_right"`
	ScreenTop    *int `yaml:"screen_top"`
	ScreenBottom *int `yaml:"screen_bottom"`
	Tile         *int `yaml:"tile"`
}

type RawMaster struct {
	MasterCount *int     `yaml:"master_count"`
	MasterRatio *float64 `yaml:"master_ratio"`
}

type RawStair struct {
	Space *int `yaml:"space"`
}

type RawSpread struct {
	Space *float64 `yaml:"space"`
}

type RawQuarter struct {
	VSplit  *float64 `yaml:"vsplit"`
	LHSplit *float64 `yaml:"lhsplit"`
	RHSplit *float64 `yaml:"rhsplit"`
}

// RawConfig is one YAML file as written; nil fields were not set.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	AdjustLayout        *bool `yaml:"adjust_layout"`
	AdjustLayoutLive    *bool `yaml:"adjust_layout_live"`
	MonocleMinimizeRest *bool `yaml:"monocle_minimize_rest"`
	NewWindowAsMaster   *bool `yaml:"new_window_as_master"`

	Layouts       []string `yaml:"layouts"`
	DefaultLayout *string  `yaml:"default_layout"`

	Tile        *RawMaster  `yaml:"tile"`
	ThreeColumn *RawMaster  `yaml:"three_column"`
	Stair       *RawStair   `yaml:"stair"`
	Spread      *RawSpread  `yaml:"spread"`
	Quarter     *RawQuarter `yaml:"quarter"`

	Gaps *RawGaps `yaml:"gaps"`

	FloatClasses  []string          `yaml:"float_classes"`
	IgnoreClasses []string          `yaml:"ignore_classes"`
	Keybindings   map[string]string `yaml:"keybindings"`

	Display  *string `yaml:"display"`
	LogLevel *string `yaml:"log_level"`
}

// merge overlays overlay onto c. Scalars and lists are replaced, keybindings
// are merged per action.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	out.AdjustLayout = pick(out.AdjustLayout, overlay.AdjustLayout)
	out.AdjustLayoutLive = pick(out.AdjustLayoutLive, overlay.AdjustLayoutLive)
	out.MonocleMinimizeRest = pick(out.MonocleMinimizeRest, overlay.MonocleMinimizeRest)
	out.NewWindowAsMaster = pick(out.NewWindowAsMaster, overlay.NewWindowAsMaster)
	out.DefaultLayout = pick(out.DefaultLayout, overlay.DefaultLayout)
	out.Display = pick(out.Display, overlay.Display)
	out.LogLevel = pick(out.LogLevel, overlay.LogLevel)

	if overlay.Layouts != nil {
		out.Layouts = append([]string(nil), overlay.Layouts...)
	}
	if overlay.FloatClasses != nil {
		out.FloatClasses = append([]string(nil), overlay.FloatClasses...)
	}
	if overlay.IgnoreClasses != nil {
		out.IgnoreClasses = append([]string(nil), overlay.IgnoreClasses...)
	}

	if overlay.Tile != nil {
		out.Tile = mergeRawMaster(out.Tile, overlay.Tile)
	}
	if overlay.ThreeColumn != nil {
		out.ThreeColumn = mergeRawMaster(out.ThreeColumn, overlay.ThreeColumn)
	}
	if overlay.Stair != nil {
		merged := RawStair{}
		if out.Stair != nil {
			merged = *out.Stair
		}
		merged.Space = pick(merged.Space, overlay.Stair.Space)
		out.Stair = &merged
	}
	if overlay.Spread != nil {
		merged := RawSpread{}
		if out.Spread != nil {
			merged = *out.Spread
		}
		merged.Space = pick(merged.Space, overlay.Spread.Space)
		out.Spread = &merged
	}
	if overlay.Quarter != nil {
		merged := RawQuarter{}
		if out.Quarter != nil {
			merged = *out.Quarter
		}
		merged.VSplit = pick(merged.VSplit, overlay.Quarter.VSplit)
		merged.LHSplit = pick(merged.LHSplit, overlay.Quarter.LHSplit)
		merged.RHSplit = pick(merged.RHSplit, overlay.Quarter.RHSplit)
		out.Quarter = &merged
	}
	if overlay.Gaps != nil {
		merged := RawGaps{}
		if out.Gaps != nil {
			merged = *out.Gaps
		}
		merged.ScreenLeft = pick(merged.ScreenLeft, overlay.Gaps.ScreenLeft)
		merged.ScreenRight = pick(merged.ScreenRight, overlay.Gaps.ScreenRight)
		merged.ScreenTop = pick(merged.ScreenTop, overlay.Gaps.ScreenTop)
		merged.ScreenBottom = pick(merged.ScreenBottom, overlay.Gaps.ScreenBottom)
		merged.Tile = pick(merged.Tile, overlay.Gaps.Tile)
		out.Gaps = &merged
	}

	if overlay.Keybindings != nil {
		merged := make(map[string]string, len(out.Keybindings)+len(overlay.Keybindings))
		for k, v := range out.Keybindings {
			merged[k] = v
		}
		for k, v := range overlay.Keybindings {
			merged[k] = v
		}
		out.Keybindings = merged
	}

	return out
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func mergeRawMaster(base *RawMaster, overlay *RawMaster) *RawMaster {
	merged := RawMaster{}
	if base != nil {
		merged = *base
	}
	merged.MasterCount = pick(merged.MasterCount, overlay.MasterCount)
	merged.MasterRatio = pick(merged.MasterRatio, overlay.MasterRatio)
	return &merged
}
