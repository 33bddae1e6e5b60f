package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confadmin/internal/adapters/driven/notify"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui"
)

// noticeBuffer bounds notifications queued for the status bar.
const noticeBuffer = 16

var themeFlag string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for confadmin.

The TUI lets you pick the active event, edit its sources, browse votes
and conflicts, and manage who may access it.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Edit
  ctrl+s   - Save
  Esc      - Back / Cancel
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&themeFlag, "theme", "", "colour theme: dark or light (defaults to tui.theme)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if eventService == nil || sourceService == nil {
		return errors.New("services not configured")
	}

	ports := tui.NewPorts(eventService, sourceService)
	ports.Submission = submissionService
	ports.User = userService
	ports.Settings = settingsService

	// Notifications would corrupt the alternate screen; route them to the
	// status bar for the duration of the session.
	if notifyRelay != nil {
		notices := notify.NewChannelNotifier(noticeBuffer)
		ports.Notices = notices.C()
		prev := notifyRelay.Use(notices)
		defer notifyRelay.Use(prev)
	}

	theme := themeFlag
	if theme == "" {
		theme = tuiTheme
	}

	app, err := tui.NewApp(ports, tui.WithTheme(theme))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
