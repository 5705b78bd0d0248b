package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// autoSwitch is a flag that is forced on, forced off, or decided by
// whether stdout is a terminal.
type autoSwitch uint8

const (
	switchAuto autoSwitch = iota
	switchOn
	switchOff
)

func parseSwitch(flag, value string) (autoSwitch, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, zerr.With(zerr.With(zerr.New("invalid flag value, expected auto|on|off"), "flag", flag), "value", value)
}

// resolve decides auto against stdout. Extra conditions can only turn auto
// off, never a forced on.
func (s autoSwitch) resolve(extra ...bool) bool {
	switch s {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	if !isTerminal(os.Stdout) {
		return false
	}
	for _, ok := range extra {
		if !ok {
			return false
		}
	}
	return true
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color and keeps fatih/color in sync with it.
// NO_COLOR turns off the auto mode.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	sw, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	on := sw.resolve(os.Getenv("NO_COLOR") == "")
	color.NoColor = !on
	return on, nil
}
