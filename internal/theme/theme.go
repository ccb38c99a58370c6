// Package theme holds the colour palettes of the stack view.
package theme

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme assigns a colour to every role the stack view draws.
type Theme struct {
	Name  string
	Light bool

	Accent    lipgloss.Color // focused pane border, header
	AccentFg  lipgloss.Color // text drawn on Accent
	Selection lipgloss.Color // background of the selected row
	Border    lipgloss.Color
	Muted     lipgloss.Color // footer hints, commit bodies, tree guides
	Text      lipgloss.Color
	Sha       lipgloss.Color
	Added     lipgloss.Color
	Deleted   lipgloss.Color
	Modified  lipgloss.Color
	Renamed   lipgloss.Color

	// SyntaxTheme is handed to delta when it is the configured pager.
	SyntaxTheme string
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NordName            = "nord"
	GruvboxDarkName     = "gruvbox-dark"
	GruvboxLightName    = "gruvbox-light"
	SolarizedDarkName   = "solarized-dark"
	SolarizedLightName  = "solarized-light"
	CatppuccinMochaName = "catppuccin-mocha"
	CatppuccinLatteName = "catppuccin-latte"
	MonokaiName         = "monokai"
)

var themes = map[string]Theme{
	DraculaName: {
		Accent: "#BD93F9", AccentFg: "#282A36", Selection: "#44475A", Border: "#6272A4",
		Muted: "#6272A4", Text: "#F8F8F2", Sha: "#F1FA8C",
		Added: "#50FA7B", Deleted: "#FF5555", Modified: "#FFB86C", Renamed: "#8BE9FD",
		SyntaxTheme: "Dracula",
	},
	DraculaLightName: {
		Light:  true,
		Accent: "#c6dbe5", AccentFg: "#24292F", Selection: "#F3E8FF", Border: "#D0D7DE",
		Muted: "#6E7781", Text: "#24292F", Sha: "#CA8A04",
		Added: "#059669", Deleted: "#DC2626", Modified: "#D97706", Renamed: "#0891B2",
		SyntaxTheme: "Monokai Extended Light",
	},
	NordName: {
		Accent: "#88C0D0", AccentFg: "#2E3440", Selection: "#3B4252", Border: "#4C566A",
		Muted: "#81A1C1", Text: "#E5E9F0", Sha: "#EBCB8B",
		Added: "#A3BE8C", Deleted: "#BF616A", Modified: "#EBCB8B", Renamed: "#88C0D0",
		SyntaxTheme: "Nord",
	},
	GruvboxDarkName: {
		Accent: "#FABD2F", AccentFg: "#282828", Selection: "#3C3836", Border: "#504945",
		Muted: "#928374", Text: "#EBDBB2", Sha: "#FABD2F",
		Added: "#B8BB26", Deleted: "#FB4934", Modified: "#FE8019", Renamed: "#83A598",
		SyntaxTheme: "Gruvbox Dark",
	},
	GruvboxLightName: {
		Light:  true,
		Accent: "#D79921", AccentFg: "#FBF1C7", Selection: "#E0CFA9", Border: "#D5C4A1",
		Muted: "#7C6F64", Text: "#3C3836", Sha: "#B57614",
		Added: "#79740E", Deleted: "#9D0006", Modified: "#AF3A03", Renamed: "#427B58",
		SyntaxTheme: "Gruvbox Light",
	},
	SolarizedDarkName: {
		Accent: "#268BD2", AccentFg: "#FDF6E3", Selection: "#073642", Border: "#586E75",
		Muted: "#586E75", Text: "#EEE8D5", Sha: "#B58900",
		Added: "#859900", Deleted: "#DC322F", Modified: "#CB4B16", Renamed: "#2AA198",
		SyntaxTheme: "Solarized (dark)",
	},
	SolarizedLightName: {
		Light:  true,
		Accent: "#268BD2", AccentFg: "#FDF6E3", Selection: "#EEE8D5", Border: "#93A1A1",
		Muted: "#93A1A1", Text: "#073642", Sha: "#B58900",
		Added: "#859900", Deleted: "#DC322F", Modified: "#CB4B16", Renamed: "#2AA198",
		SyntaxTheme: "Solarized (light)",
	},
	CatppuccinMochaName: {
		Accent: "#B4BEFE", AccentFg: "#1E1E2E", Selection: "#313244", Border: "#45475A",
		Muted: "#6C7086", Text: "#CDD6F4", Sha: "#F9E2AF",
		Added: "#A6E3A1", Deleted: "#F38BA8", Modified: "#FAB387", Renamed: "#89DCEB",
		SyntaxTheme: "Catppuccin Mocha",
	},
	CatppuccinLatteName: {
		Light:  true,
		Accent: "#1E66F5", AccentFg: "#FFFFFF", Selection: "#CCD0DA", Border: "#9CA0B0",
		Muted: "#6C6F85", Text: "#4C4F69", Sha: "#DF8E1D",
		Added: "#40A02B", Deleted: "#D20F39", Modified: "#FE640B", Renamed: "#04A5E5",
		SyntaxTheme: "Catppuccin Latte",
	},
	MonokaiName: {
		Accent: "#A6E22E", AccentFg: "#272822", Selection: "#3E3D32", Border: "#75715E",
		Muted: "#75715E", Text: "#F8F8F2", Sha: "#E6DB74",
		Added: "#A6E22E", Deleted: "#F92672", Modified: "#FD971F", Renamed: "#66D9EF",
		SyntaxTheme: "Monokai Extended",
	},
}

// Normalize returns the canonical name of a known theme, or "".
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := themes[name]; ok {
		return name
	}
	return ""
}

// Get returns the named theme. Unknown or empty names pick a dark or light
// default depending on the terminal background.
func Get(name string) *Theme {
	if t, ok := lookup(Normalize(name)); ok {
		return t
	}
	if lipgloss.HasDarkBackground() {
		t, _ := lookup(DraculaName)
		return t
	}
	t, _ := lookup(DraculaLightName)
	return t
}

func lookup(name string) (*Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return nil, false
	}
	t.Name = name
	return &t, true
}

// Names returns the available theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
