package colors

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// DetectDark reports whether the terminal background is dark. COLORFGBG is
// trusted when set; otherwise termenv queries the terminal, which fails
// inside tmux and defaults to dark.
func DetectDark() bool {
	if dark, ok := colorFGBG(os.Getenv("COLORFGBG")); ok {
		return dark
	}
	return termenv.HasDarkBackground()
}

// colorFGBG parses "fg;bg" or "fg;default;bg". ANSI 0-6 and 8 are dark
// backgrounds.
func colorFGBG(v string) (bool, bool) {
	if v == "" {
		return false, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || bg < 0 {
		return false, false
	}
	return bg < 7 || bg == 8, true
}
