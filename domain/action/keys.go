package action

import (
	"fmt"
	"strings"
)

var namedKeys = map[string]string{
	"space":     "space",
	"enter":     "enter",
	"return":    "enter",
	"tab":       "tab",
	"esc":       "esc",
	"escape":    "esc",
	"backspace": "backspace",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"shift":     "shift",
	"ctrl":      "ctrl",
	"control":   "ctrl",
	"alt":       "alt",
}

// ParseKey normalizes a key token ("F4", " r ", "Space") into the lower-case
// name the input backend expects. Recognizes F1..F24, single letters and
// digits, and a few named keys.
func ParseKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return "", fmt.Errorf("empty key")
	}
	if len(k) >= 2 && k[0] == 'f' {
		n := 0
		for _, r := range k[1:] {
			if r < '0' || r > '9' {
				n = -1
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return k, nil
		}
	}
	if len(k) == 1 && ((k[0] >= 'a' && k[0] <= 'z') || (k[0] >= '0' && k[0] <= '9')) {
		return k, nil
	}
	if name, ok := namedKeys[k]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown key %q", key)
}

// ParseButton normalizes a mouse button name to left, right or center.
func ParseButton(button string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(button)); b {
	case "left", "right", "center":
		return b, nil
	case "middle":
		return "center", nil
	}
	return "", fmt.Errorf("unknown mouse button %q", button)
}
