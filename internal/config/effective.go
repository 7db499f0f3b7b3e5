package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	setIf(&cfg.AdjustLayout, raw.AdjustLayout)
	setIf(&cfg.AdjustLayoutLive, raw.AdjustLayoutLive)
	setIf(&cfg.MonocleMinimizeRest, raw.MonocleMinimizeRest)
	setIf(&cfg.NewWindowAsMaster, raw.NewWindowAsMaster)
	setIf(&cfg.DefaultLayout, raw.DefaultLayout)
	setIf(&cfg.Display, raw.Display)
	setIf(&cfg.LogLevel, raw.LogLevel)

	if raw.Layouts != nil {
		cfg.Layouts = append([]string(nil), raw.Layouts...)
	}
	if raw.FloatClasses != nil {
		cfg.FloatClasses = append([]string(nil), raw.FloatClasses...)
	}
	if raw.IgnoreClasses != nil {
		cfg.IgnoreClasses = append([]string(nil), raw.IgnoreClasses...)
	}

	if raw.Tile != nil {
		setIf(&cfg.Tile.MasterCount, raw.Tile.MasterCount)
		setIf(&cfg.Tile.MasterRatio, raw.Tile.MasterRatio)
	}
	if raw.ThreeColumn != nil {
		setIf(&cfg.ThreeColumn.MasterCount, raw.ThreeColumn.MasterCount)
		setIf(&cfg.ThreeColumn.MasterRatio, raw.ThreeColumn.MasterRatio)
	}
	if raw.Stair != nil {
		setIf(&cfg.Stair.Space, raw.Stair.Space)
	}
	if raw.Spread != nil {
		setIf(&cfg.Spread.Space, raw.Spread.Space)
	}
	if raw.Quarter != nil {
		setIf(&cfg.Quarter.VSplit, raw.Quarter.VSplit)
		setIf(&cfg.Quarter.LHSplit, raw.Quarter.LHSplit)
		setIf(&cfg.Quarter.RHSplit, raw.Quarter.RHSplit)
	}
	if raw.Gaps != nil {
		setIf(&cfg.Gaps.ScreenLeft, raw.Gaps.ScreenLeft)
		setIf(&cfg.Gaps.ScreenRight, raw.Gaps.ScreenRight)
		setIf(&cfg.Gaps.ScreenTop, raw.Gaps.ScreenTop)
		setIf(&cfg.Gaps.ScreenBottom, raw.Gaps.ScreenBottom)
		setIf(&cfg.Gaps.Tile, raw.Gaps.Tile)
	}

	// An empty key sequence unbinds a default.
	for action, keys := range raw.Keybindings {
		if keys == "" {
			delete(cfg.Keybindings, action)
			continue
		}
		cfg.Keybindings[action] = keys
	}

	return cfg
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
