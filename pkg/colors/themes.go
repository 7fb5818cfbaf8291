package colors

import "sort"

// Palette is the set of colors a tab bar needs.
type Palette struct {
	Name       string
	Dark       bool
	ActiveFg   string
	ActiveBg   string
	InactiveFg string
	InactiveBg string
	DisabledFg string
	BadgeFg    string
}

// Built-in palettes
var Palettes = map[string]Palette{
	"default": {
		Name: "Default", Dark: true,
		ActiveFg: "#ffffff", ActiveBg: "#3498db",
		InactiveFg: "#cccccc", InactiveBg: "#333333",
		DisabledFg: "#666666", BadgeFg: "#f39c12",
	},
	"light": {
		Name: "Light", Dark: false,
		ActiveFg: "#ffffff", ActiveBg: "#2980b9",
		InactiveFg: "#333333", InactiveBg: "#e0e0e0",
		DisabledFg: "#999999", BadgeFg: "#d35400",
	},
	"rose-pine": {
		Name: "Rose Pine", Dark: true,
		ActiveFg: "#e0def4", ActiveBg: "#31748f",
		InactiveFg: "#191724", InactiveBg: "#9ccfd8",
		DisabledFg: "#6e6a86", BadgeFg: "#ebbcba",
	},
	"rose-pine-dawn": {
		Name: "Rose Pine Dawn", Dark: false,
		ActiveFg: "#575279", ActiveBg: "#f2e9e1",
		InactiveFg: "#9893a5", InactiveBg: "#fffaf3",
		DisabledFg: "#9893a5", BadgeFg: "#d7827e",
	},
	"catppuccin-mocha": {
		Name: "Catppuccin Mocha", Dark: true,
		ActiveFg: "#1e1e2e", ActiveBg: "#74c7ec",
		InactiveFg: "#1e1e2e", InactiveBg: "#89b4fa",
		DisabledFg: "#6c7086", BadgeFg: "#f38ba8",
	},
	"catppuccin-latte": {
		Name: "Catppuccin Latte", Dark: false,
		ActiveFg: "#eff1f5", ActiveBg: "#04a5e5",
		InactiveFg: "#eff1f5", InactiveBg: "#1e66f5",
		DisabledFg: "#9ca0b0", BadgeFg: "#d20f39",
	},
	"dracula": {
		Name: "Dracula", Dark: true,
		ActiveFg: "#282a36", ActiveBg: "#ff79c6",
		InactiveFg: "#282a36", InactiveBg: "#bd93f9",
		DisabledFg: "#6272a4", BadgeFg: "#50fa7b",
	},
	"nord": {
		Name: "Nord", Dark: true,
		ActiveFg: "#2e3440", ActiveBg: "#88c0d0",
		InactiveFg: "#2e3440", InactiveBg: "#81a1c1",
		DisabledFg: "#4c566a", BadgeFg: "#bf616a",
	},
	"solarized-dark": {
		Name: "Solarized Dark", Dark: true,
		ActiveFg: "#002b36", ActiveBg: "#2aa198",
		InactiveFg: "#002b36", InactiveBg: "#268bd2",
		DisabledFg: "#586e75", BadgeFg: "#cb4b16",
	},
	"solarized-light": {
		Name: "Solarized Light", Dark: false,
		ActiveFg: "#fdf6e3", ActiveBg: "#2aa198",
		InactiveFg: "#fdf6e3", InactiveBg: "#268bd2",
		DisabledFg: "#93a1a1", BadgeFg: "#cb4b16",
	},
	"gruvbox-dark": {
		Name: "Gruvbox Dark", Dark: true,
		ActiveFg: "#282828", ActiveBg: "#83a598",
		InactiveFg: "#282828", InactiveBg: "#458588",
		DisabledFg: "#928374", BadgeFg: "#fb4934",
	},
	"gruvbox-light": {
		Name: "Gruvbox Light", Dark: false,
		ActiveFg: "#fbf1c7", ActiveBg: "#689d6a",
		InactiveFg: "#fbf1c7", InactiveBg: "#458588",
		DisabledFg: "#928374", BadgeFg: "#cc241d",
	},
	"tokyo-night": {
		Name: "Tokyo Night", Dark: true,
		ActiveFg: "#1a1b26", ActiveBg: "#7dcfff",
		InactiveFg: "#1a1b26", InactiveBg: "#7aa2f7",
		DisabledFg: "#565f89", BadgeFg: "#f7768e",
	},
	"one-dark": {
		Name: "One Dark", Dark: true,
		ActiveFg: "#282c34", ActiveBg: "#56b6c2",
		InactiveFg: "#282c34", InactiveBg: "#61afef",
		DisabledFg: "#5c6370", BadgeFg: "#e06c75",
	},
}

// Lookup returns the named palette. "auto" picks "default" or "light" for
// the terminal background; an empty or unknown name gives "default".
func Lookup(name string) Palette {
	if name == "auto" {
		if DetectDark() {
			return Palettes["default"]
		}
		return Palettes["light"]
	}
	if p, ok := Palettes[name]; ok {
		return p
	}
	return Palettes["default"]
}

// Names lists the built-in palettes in order.
func Names() []string {
	names := make([]string, 0, len(Palettes))
	for name := range Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
