package main

import (
	"errors"
	"fmt"

	"github.com/1broseidon/bismuth/internal/ipc"
	"github.com/1broseidon/bismuth/internal/palette"
)

func runMenu(args []string) int {
	fs := newFlagSet("menu", "bismuth menu [--launcher NAME]", "Pick a layout or shortcut action in a launcher and run it.")
	launcherName := fs.String("launcher", "auto", "Launcher to use: auto, rofi, fuzzel, wofi, dmenu")
	if code, stop := parseFlags(fs, args, 0); stop {
		return code
	}

	launcher, err := palette.New(*launcherName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return runMenuWith(ipc.NewClient(), launcher)
}

func runMenuWith(client *ipc.Client, launcher palette.Launcher) int {
	layouts, err := client.ListLayouts()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	actions, err := client.ListActions()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	message := ""
	if layouts.ActiveLayout != "" {
		message = "Current layout: " + layouts.ActiveLayout
	}
	choice, err := palette.Pick(launcher, palette.Entries(layouts, actions), message)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch choice.Kind {
	case palette.ChoiceLayout:
		_, err = client.SetLayout(choice.Name)
	case palette.ChoiceAction:
		err = client.RunAction(choice.Name)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
