package render

import "github.com/charmbracelet/lipgloss"

// Theme styles the parts of a test report.
type Theme struct {
	Name     string
	Pass     lipgloss.Style // passed counts and the PASS status
	Fail     lipgloss.Style // failed tests, error diagnostics, the FAIL status
	Warning  lipgloss.Style // warning diagnostics
	Location lipgloss.Style // diagnostics of any other kind
	Output   lipgloss.Style // captured output and hints
	Heading  lipgloss.Style // labels and section titles
	Icons    ThemeIcons
	// KeepToolColors re-emits the captured output with its original styling.
	KeepToolColors bool
}

// ThemeIcons are the markers printed before report entries.
type ThemeIcons struct {
	Pass     string
	Fail     string
	Warning  string
	Error    string
	Location string
}

var (
	unicodeIcons = ThemeIcons{Pass: "✓", Fail: "✗", Warning: "⚠", Error: "✗", Location: "→"}
	asciiIcons   = ThemeIcons{Pass: "+", Fail: "x", Warning: "!", Error: "x", Location: ">"}
)

// palette holds the ANSI 256 colors of a theme, in Theme field order.
type palette struct {
	pass, fail, warning, location, output string
}

func (p palette) theme(name string, icons ThemeIcons, keepToolColors bool) Theme {
	fg := func(c string) lipgloss.Style {
		if c == "" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Theme{
		Name:           name,
		Pass:           fg(p.pass),
		Fail:           fg(p.fail).Bold(p.fail != ""),
		Warning:        fg(p.warning),
		Location:       fg(p.location),
		Output:         fg(p.output),
		Heading:        lipgloss.NewStyle().Bold(true),
		Icons:          icons,
		KeepToolColors: keepToolColors,
	}
}

// DefaultTheme follows cargo's own colors and keeps the tool's styling in
// captured output.
func DefaultTheme() Theme {
	return palette{pass: "10", fail: "9", warning: "11", location: "12", output: "250"}.
		theme("default", unicodeIcons, true)
}

// OrcaTheme is a low-contrast theme that restyles captured output.
func OrcaTheme() Theme {
	return palette{pass: "108", fail: "167", warning: "179", location: "75", output: "245"}.
		theme("orca", unicodeIcons, false)
}

// MonoTheme uses no colors and ASCII icons.
func MonoTheme() Theme {
	return palette{}.theme("mono", asciiIcons, false)
}

// ThemeNames lists the built-in themes.
var ThemeNames = []string{"default", "orca", "mono"}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
