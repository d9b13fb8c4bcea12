//go:build !windows

package action

import (
	"strings"

	"github.com/go-vgo/robotgo"
)

// ForegroundWindowTitle returns the title of the active window.
func ForegroundWindowTitle() (string, error) {
	return strings.TrimSpace(robotgo.GetTitle()), nil
}
