package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/fang"

	"github.com/macropower/kprof/api/v1beta1/configs"
	"github.com/macropower/kprof/pkg/config"
	"github.com/macropower/kprof/pkg/yaml"
)

// ColorSchemeFunc colors help and error output with the chroma theme from
// the configuration file, or the default theme.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	theme := yaml.DefaultTheme

	cfg, err := config.Load(configs.GetPath())
	if err == nil {
		theme = cfg.Theme
	}

	return ThemeColorScheme(theme, c)
}

// ThemeColorScheme derives a [fang.ColorScheme] from a chroma style. Token
// types the style leaves unset keep fang's default colors.
func ThemeColorScheme(theme string, c lipgloss.LightDarkFunc) fang.ColorScheme {
	style := styles.Get(theme)
	if style == styles.Fallback {
		style = styles.Get(yaml.DefaultTheme)
	}

	cs := fang.DefaultColorScheme(c)

	set := func(dst *color.Color, tt chroma.TokenType) {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			*dst = lipgloss.Color(entry.Colour.String())
		}
	}

	set(&cs.Base, chroma.Text)
	set(&cs.Title, chroma.Keyword)
	set(&cs.Program, chroma.NameTag)
	set(&cs.Command, chroma.NameTag)
	set(&cs.Flag, chroma.NameAttribute)
	set(&cs.FlagDefault, chroma.LiteralNumber)
	set(&cs.QuotedString, chroma.LiteralString)
	set(&cs.Comment, chroma.Comment)
	set(&cs.DimmedArgument, chroma.Comment)
	set(&cs.Argument, chroma.Text)
	set(&cs.Description, chroma.Text)

	if bg := style.Get(chroma.Background).Background; bg.IsSet() {
		cs.Codeblock = c(cs.Codeblock, lipgloss.Color(bg.String()))
	}

	if e := style.Get(chroma.GenericError); e.Colour.IsSet() {
		cs.ErrorHeader[1] = lipgloss.Color(e.Colour.String())
	}

	return cs
}
