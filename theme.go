package manview

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ANSI SGR fragments used to build theme attributes.
const (
	sgrBold      = "\x1b[1m"
	sgrUnderline = "\x1b[4m"
	ansiReset    = "\x1b[0m"
)

// Attr is a terminal attribute expressed as an ANSI prefix sequence.
type Attr struct {
	Prefix string
}

// Styles maps each span style and line role to a terminal attribute.
type Styles struct {
	Text       Attr
	Bold       Attr
	Underline  Attr
	Heading    Attr
	Subheading Attr
	Link       Attr
}

// Theme provides named styles for terminal output.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func attr(prefixes ...string) Attr {
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString(p)
	}
	return Attr{Prefix: b.String()}
}

// fg returns the truecolor foreground sequence for a #rrggbb color.
func fg(hex string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff)
}

type palette struct {
	text, bold, underline, heading, subheading, link string
}

func stylesFromPalette(p palette) Styles {
	return Styles{
		Text:       attr(p.text),
		Bold:       attr(sgrBold, p.bold),
		Underline:  attr(sgrUnderline, p.underline),
		Heading:    attr(sgrBold, p.heading),
		Subheading: attr(sgrBold, p.subheading),
		Link:       attr(sgrUnderline, p.link),
	}
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: stylesFromPalette(palette{
		bold:       fg("#e5c07b"),
		underline:  fg("#61afef"),
		heading:    fg("#c678dd"),
		subheading: fg("#98c379"),
		link:       fg("#56b6c2"),
	})},
	"amber": theme{name: "amber", styles: stylesFromPalette(palette{
		text:       fg("#ffb000"),
		bold:       fg("#ffcc00"),
		underline:  fg("#ffb000"),
		heading:    fg("#ffd966"),
		subheading: fg("#ffcc00"),
		link:       fg("#ffd966"),
	})},
	"gruvbox": theme{name: "gruvbox", styles: stylesFromPalette(palette{
		text:       fg("#ebdbb2"),
		bold:       fg("#fabd2f"),
		underline:  fg("#83a598"),
		heading:    fg("#fb4934"),
		subheading: fg("#b8bb26"),
		link:       fg("#8ec07c"),
	})},
	"nord": theme{name: "nord", styles: stylesFromPalette(palette{
		text:       fg("#d8dee9"),
		bold:       fg("#88c0d0"),
		underline:  fg("#81a1c1"),
		heading:    fg("#8fbcbb"),
		subheading: fg("#a3be8c"),
		link:       fg("#5e81ac"),
	})},
	"mono": theme{name: "mono", styles: Styles{
		Bold:       attr(sgrBold),
		Underline:  attr(sgrUnderline),
		Heading:    attr(sgrBold),
		Subheading: attr(sgrBold),
		Link:       attr(sgrUnderline),
	}},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
