package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/buddhabrot/internal/buddha"
)

// Theme colours the canvas (Primary on Background) and the title gradient
// (Primary to Secondary).
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
}

var (
	ThemeNebula   = Theme{Name: "nebula", Primary: "#c9a0ff", Secondary: "#5ee7ff", Background: "#0b0614"}
	ThemeEmber    = Theme{Name: "ember", Primary: "#ffb347", Secondary: "#ff4e50", Background: "#140805"}
	ThemeMono     = Theme{Name: "mono", Primary: "#ffffff", Secondary: "#8a8a8a", Background: "#000000"}
	ThemePhosphor = Theme{Name: "phosphor", Primary: "#39ff7a", Secondary: "#0f9d58", Background: "#001108"}

	CurrentTheme = ThemeNebula

	// Themes in the order T cycles through them.
	Themes = []Theme{ThemeNebula, ThemeEmber, ThemeMono, ThemePhosphor}
)

// SetTheme makes the named theme current.
func SetTheme(name string) error {
	for _, t := range Themes {
		if t.Name == name {
			CurrentTheme = t
			return nil
		}
	}
	return buddha.NewConfigError("theme", name, fmt.Sprintf("want one of %v", ThemeNames()))
}

// NextTheme switches to the theme after the current one and returns it.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			break
		}
	}
	return CurrentTheme
}

// Palette returns the two-colour palette used to record frames.
func (t Theme) Palette() color.Palette {
	br, bg, bb := parseHex(string(t.Background))
	fr, fg, fb := parseHex(string(t.Primary))
	return color.Palette{
		color.RGBA{R: uint8(br), G: uint8(bg), B: uint8(bb), A: 255},
		color.RGBA{R: uint8(fr), G: uint8(fg), B: uint8(fb), A: 255},
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
