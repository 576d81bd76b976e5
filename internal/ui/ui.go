package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Notifier surfaces transient, user-visible notices (the terminal
// equivalent of a toast).
type Notifier interface {
	Notice(message string)
}

// Navigator is invoked when the session expires and the user must
// re-authenticate.
type Navigator interface {
	GotoLogin()
}

// Loader shows a blocking progress indicator. Start returns the function
// that dismisses it; callers defer it so the indicator is released on
// every exit path.
type Loader interface {
	Start(text string) (stop func())
}

// Console is the terminal implementation of Notifier, Navigator and
// Loader. All output goes to stderr so it never corrupts formatted
// command output on stdout.
type Console struct {
	Colors bool
}

// NewConsole creates a Console with colored output enabled or not.
func NewConsole(colors bool) *Console {
	return &Console{Colors: colors}
}

// Notice prints a transient notice line.
func (c *Console) Notice(message string) {
	if c.Colors {
		fmt.Fprintln(os.Stderr, color.YellowString("! %s", message))
		return
	}
	fmt.Fprintf(os.Stderr, "! %s\n", message)
}

// GotoLogin tells the user how to re-authenticate. A CLI has no login
// screen to push; the hint is its redirect.
func (c *Console) GotoLogin() {
	if c.Colors {
		fmt.Fprintln(os.Stderr, color.CyanString("Run 'tastectl auth login' to sign in again."))
		return
	}
	fmt.Fprintln(os.Stderr, "Run 'tastectl auth login' to sign in again.")
}

// Start prints the loading text and returns a stop func that marks it done.
func (c *Console) Start(text string) func() {
	fmt.Fprintf(os.Stderr, "%s", text)
	return func() {
		fmt.Fprintln(os.Stderr, " done")
	}
}
