// Package cli implements the confadmin command line on top of cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confadmin/internal/adapters/driven/notify"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
	"github.com/custodia-labs/confadmin/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services holds the driving ports the commands call.
type Services struct {
	Auth       driving.AuthService
	Event      driving.EventService
	Source     driving.SourceService
	Submission driving.SubmissionService
	User       driving.UserService
	Settings   driving.SettingsService

	// Notifier receives service notifications. The TUI redirects it.
	Notifier *notify.Relay

	// LoadManifest reads a sources manifest for `source apply`.
	LoadManifest func(path string) (domain.SourceManifest, error)

	// Theme is the configured TUI colour theme.
	Theme string
}

// Service instances, set by SetServices.
var (
	authService       driving.AuthService
	eventService      driving.EventService
	sourceService     driving.SourceService
	submissionService driving.SubmissionService
	userService       driving.UserService
	settingsService   driving.SettingsService
	notifyRelay       *notify.Relay
	loadManifest      func(path string) (domain.SourceManifest, error)
	tuiTheme          string
)

// Global flags.
var (
	verbose      bool
	eventFlag    string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "confadmin",
	Short: "Administer conference events, sources and votes",
	Long: `confadmin manages events on a conference submission and voting platform.

Sign in, pick an event, then configure where its submissions come from,
review votes and conflicts, and manage who may access it.

Examples:
  confadmin login
  confadmin event use djangocon
  confadmin source list
  confadmin votes --sort up_ratio --desc
  confadmin tui`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&eventFlag, "event", "e", "", "event slug (defaults to the active event)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable,
		"output format: table, json, csv, md, yaml")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices installs the services the commands use.
func SetServices(s Services) {
	authService = s.Auth
	eventService = s.Event
	sourceService = s.Source
	submissionService = s.Submission
	userService = s.User
	settingsService = s.Settings
	notifyRelay = s.Notifier
	loadManifest = s.LoadManifest
	tuiTheme = s.Theme
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when run
// without one (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveEvent returns the --event flag or the active event.
func resolveEvent(ctx context.Context) (string, error) {
	if eventService == nil {
		return "", errors.New("event service not configured")
	}
	return eventService.Resolve(ctx, eventFlag)
}
