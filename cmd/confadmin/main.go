// Package main provides the entry point for the confadmin CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/confadmin/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/confadmin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/confadmin/internal/adapters/driven/notify"
	"github.com/custodia-labs/confadmin/internal/adapters/driven/oauth"
	"github.com/custodia-labs/confadmin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/cli"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

// Version information populated at build time.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fail(fmt.Errorf("getting home directory: %w", err))
	}
	configDir := filepath.Join(home, ".confadmin")

	// Variables already in the environment win over both files.
	if _, err := file.LoadDotEnv(".env", filepath.Join(configDir, ".env")); err != nil {
		return fail(fmt.Errorf("loading .env: %w", err))
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fail(fmt.Errorf("opening config: %w", err))
	}
	configStore.ApplyEnv(file.EnvBindings, nil)
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fail(fmt.Errorf("reading settings: %w", err))
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return fail(fmt.Errorf("opening session store: %w", err))
	}
	defer store.Close()
	sessions := store.SessionStore()

	api := apiclient.New(settings.API, sessions)
	relay := notify.NewRelay(notify.NewWriterNotifier(os.Stdout, os.Stderr))

	authService := services.NewAuthService(api, sessions, settingsService)
	authService.SetOIDC(oauth.NewAuthURLBuilder())
	authService.SetTokenInspector(oauth.NewTokenInspector())

	cli.SetServices(cli.Services{
		Auth:         authService,
		Event:        services.NewEventService(api, sessions, relay),
		Source:       services.NewSourceService(api, relay),
		Submission:   services.NewSubmissionService(api),
		User:         services.NewUserService(api, relay),
		Settings:     settingsService,
		Notifier:     relay,
		LoadManifest: file.LoadSourceManifest,
		Theme:        configStore.GetString("tui.theme"),
	})
	cli.SetVersion(version)

	// cobra has already printed the error.
	return cli.ExecuteContext(ctx)
}

// fail reports a startup error that happens before cobra runs.
func fail(err error) error {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return err
}
