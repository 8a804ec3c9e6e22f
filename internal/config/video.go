package config

import (
	"fmt"
	"strings"
)

// VideoMode selects the emulator frontend.
type VideoMode string

const (
	// VideoGUI renders into a desktop window.
	VideoGUI VideoMode = "gui"

	// VideoTerminal renders into the terminal.
	VideoTerminal VideoMode = "terminal"

	// VideoNone runs the machine without display output.
	VideoNone VideoMode = "none"
)

// ParseVideoMode converts a mode name into a VideoMode.
func ParseVideoMode(name string) (VideoMode, error) {
	switch mode := VideoMode(strings.ToLower(name)); mode {
	case VideoGUI, VideoTerminal, VideoNone:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported video mode: %s. Valid options: %s, %s, %s",
			name, VideoGUI, VideoTerminal, VideoNone)
	}
}
