package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/kprof/pkg/profile"
)

// ErrorHandler renders command errors for [fang.WithErrorHandler], adding a
// hint for usage errors and unknown profiles.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	hint := errorHint(err)
	if hint == "" {
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render("Try"),
		styles.Program.Flag.Render(hint),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hintSuffix(err)),
	)))
	mustN(fmt.Fprintln(w))
}

func errorHint(err error) string {
	switch {
	case isUsageError(err):
		return "--help"
	case errors.Is(err, profile.ErrNotFound), errors.Is(err, profile.ErrParentNotFound):
		return cmdName + " list"
	case errors.Is(err, ErrNoProfileFile):
		return "--dir"
	}

	return ""
}

func hintSuffix(err error) string {
	switch {
	case isUsageError(err):
		return "for usage."
	case errors.Is(err, ErrNoProfileFile):
		return "to select the project directory."
	}

	return "to see the available profiles."
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
