// Package clilog provides the command line logger and error printer.
package clilog

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// New returns a logger writing text lines to w. Debug messages are only
// written when verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintError writes err on its own line, in red when w is a terminal.
func PrintError(w io.Writer, err error) {
	if !IsTerminal(w) {
		fmt.Fprintln(w, err)
		return
	}

	c := color.New(color.FgRed)
	c.EnableColor()
	c.Fprintln(w, err)
}

// PrintFileError reports a per file failure as "<name>: <err>".
func PrintFileError(w io.Writer, name string, err error) {
	PrintError(w, fmt.Errorf("%s: %w", name, err))
}
