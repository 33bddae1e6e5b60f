package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/logger"
)

var sourceApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or update sources from a manifest file",
	Long: `Reconcile the event's sources with a TOML manifest.

Each [[source]] entry is edited onto the existing source with that id and
saved, or created if it does not exist. Sources missing from the manifest
are left alone. Only changed fields are sent.

  event = "djangocon"

  [[source]]
  id = "pretalx"
  url = "https://pretalx.com/api/events/djangocon/"
  apikey_env = "PRETALX_TOKEN"
  autoupdate = true
  interval = 600

With --watch the manifest is applied again whenever the file changes.`,
	Args: cobra.NoArgs,
	RunE: runSourceApply,
}

// Flags for source apply.
var (
	applyFile  string
	applyWatch bool
)

// applyDebounce coalesces the bursts of events editors emit on save.
var applyDebounce = 200 * time.Millisecond

func init() {
	sourceApplyCmd.Flags().StringVarP(&applyFile, "file", "f", "sources.toml", "manifest file")
	sourceApplyCmd.Flags().BoolVarP(&applyWatch, "watch", "w", false, "re-apply when the file changes")
	sourceCmd.AddCommand(sourceApplyCmd)
}

func runSourceApply(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}
	if loadManifest == nil {
		return errors.New("manifest loader not configured")
	}
	ctx := commandContext(cmd)

	report, err := applyManifest(ctx, applyFile)
	if err != nil {
		return err
	}
	printApplyReport(cmd.OutOrStdout(), report)

	if !applyWatch {
		if n := report.Failed(); n > 0 {
			return fmt.Errorf("%d source(s) failed to apply", n)
		}
		return nil
	}
	return watchManifest(ctx, cmd, applyFile)
}

func applyManifest(ctx context.Context, path string) (domain.ApplyReport, error) {
	manifest, err := loadManifest(path)
	if err != nil {
		return domain.ApplyReport{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	slug := manifest.Event
	if eventFlag != "" {
		slug = eventFlag
	}
	if slug == "" {
		if slug, err = resolveEvent(ctx); err != nil {
			return domain.ApplyReport{}, err
		}
	}
	return sourceService.Apply(ctx, slug, manifest)
}

func printApplyReport(w io.Writer, report domain.ApplyReport) {
	_, _ = fmt.Fprintf(w, "Applied manifest to %s:\n", report.Event)
	for _, res := range report.Results {
		if res.Err != nil {
			_, _ = fmt.Fprintf(w, "  %-10s %s: %v\n", res.Action, res.ID, res.Err)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", res.Action, res.ID)
	}
}

// watchManifest re-applies path on change until ctx ends. The directory is
// watched because editors often replace the file instead of writing it.
func watchManifest(ctx context.Context, cmd *cobra.Command, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(applyDebounce)
		case <-debounce:
			debounce = nil
			logger.Debug("Manifest %s changed", path)
			report, err := applyManifest(ctx, path)
			if err != nil {
				cmd.PrintErrf("Apply failed: %v\n", err)
				continue
			}
			printApplyReport(cmd.OutOrStdout(), report)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("Watcher error: %v\n", err)
		}
	}
}
