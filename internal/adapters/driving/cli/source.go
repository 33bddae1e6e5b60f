package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"sources"},
	Short:   "Manage submission sources",
	Long: `List, edit, create and remove the sources an event pulls submissions from.

A source points at a remote system by URL and/or event slug. Changing either
requires the API key of the remote system; the key is sent once and never
stored.`,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources of the event",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceShowCmd = &cobra.Command{
	Use:   "show [source-id]",
	Short: "Show one source and its validation state",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceShow,
}

var sourceSetCmd = &cobra.Command{
	Use:   "set [source-id] [field=value]...",
	Short: "Edit fields of a source and save",
	Long: `Edit one or more fields of a source and save only what changed.

Fields: url, eventSlug, autoupdate, interval, filter.

Examples:
  confadmin source set pretalx interval=600
  confadmin source set pretalx url=https://pretalx.com/api/events/x/ --apikey KEY
  confadmin source set pretalx filter=confirmed --dry-run`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSourceSet,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [source-id]",
	Short: "Create a source",
	Long: `Create a source. The id may contain a-z, A-Z, 0-9, _ and -.

Examples:
  confadmin source add manual
  confadmin source add pretalx --url https://pretalx.com/api/events/x/ --apikey KEY --autoupdate`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceRemoveCmd = &cobra.Command{
	Use:     "remove [source-id]",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a source",
	Args:    cobra.ExactArgs(1),
	RunE:    runSourceRemove,
}

var sourceURLsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Show the push URL of each source",
	Args:  cobra.NoArgs,
	RunE:  runSourceURLs,
}

var sourceScheduleCmd = &cobra.Command{
	Use:   "schedule [source-id]",
	Short: "Ask the backend to pull a source now",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceSchedule,
}

// Flags for source commands.
var (
	sourceAPIKey      string
	sourceDryRun      bool
	sourceAddURL      string
	sourceAddSlug     string
	sourceAddAuto     bool
	sourceAddEvery    int
	sourceAddFilter   string
	sourceListInvalid bool
)

func init() {
	sourceListCmd.Flags().BoolVar(&sourceListInvalid, "invalid", false, "only show sources with validation issues")

	sourceSetCmd.Flags().StringVar(&sourceAPIKey, "apikey", "", "API key of the remote system")
	sourceSetCmd.Flags().BoolVar(&sourceDryRun, "dry-run", false, "print the payload without saving")

	sourceAddCmd.Flags().StringVar(&sourceAPIKey, "apikey", "", "API key of the remote system")
	sourceAddCmd.Flags().StringVar(&sourceAddURL, "url", "", "remote URL")
	sourceAddCmd.Flags().StringVar(&sourceAddSlug, "event-slug", "", "remote event slug")
	sourceAddCmd.Flags().BoolVar(&sourceAddAuto, "autoupdate", false, "pull periodically")
	sourceAddCmd.Flags().IntVar(&sourceAddEvery, "interval", domain.DefaultInterval, "seconds between pulls")
	sourceAddCmd.Flags().StringVar(&sourceAddFilter, "filter", string(domain.FilterAccepted), "accepted or confirmed")

	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	sourceCmd.AddCommand(sourceSetCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceURLsCmd)
	sourceCmd.AddCommand(sourceScheduleCmd)
	rootCmd.AddCommand(sourceCmd)
}

// loadSources resolves the event and fetches its sources.
func loadSources(ctx context.Context) (string, error) {
	if sourceService == nil {
		return "", errors.New("source service not configured")
	}
	slug, err := resolveEvent(ctx)
	if err != nil {
		return "", err
	}
	if err := sourceService.Refresh(ctx, slug); err != nil {
		return "", fmt.Errorf("failed to load sources: %w", err)
	}
	return slug, nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if _, err := loadSources(commandContext(cmd)); err != nil {
		return err
	}

	t := newTabular("id", "url", "event_slug", "autoupdate", "interval", "filter", "issues")
	for _, src := range sourceService.List() {
		issues := len(src.Errors)
		if sourceListInvalid && issues == 0 {
			continue
		}
		t.add(src.ID, src.Current.URL, src.Current.EventSlug, src.Current.Autoupdate,
			src.Current.Interval, string(src.Current.Filter), issues)
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No sources configured.")
}

func runSourceShow(cmd *cobra.Command, args []string) error {
	if _, err := loadSources(commandContext(cmd)); err != nil {
		return err
	}
	src, err := sourceService.Get(args[0])
	if err != nil {
		return fmt.Errorf("source %q: %w", args[0], err)
	}

	if err := renderRecord(cmd.OutOrStdout(), outputFormat,
		[]string{"id", "url", "event_slug", "autoupdate", "interval", "filter"},
		[]any{src.ID, src.Current.URL, src.Current.EventSlug, src.Current.Autoupdate,
			src.Current.Interval, string(src.Current.Filter)},
	); err != nil {
		return err
	}
	if outputFormat == formatTable {
		printFieldErrors(cmd.OutOrStdout(), src.Errors)
	}
	return nil
}

func runSourceSet(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if _, err := loadSources(ctx); err != nil {
		return err
	}
	id := args[0]

	for _, pair := range args[1:] {
		field, value, err := parseFieldArg(pair)
		if err != nil {
			return err
		}
		if err := sourceService.EditField(id, field, value); err != nil {
			return fmt.Errorf("%s: %w", pair, err)
		}
	}
	if sourceAPIKey != "" {
		if err := sourceService.EditField(id, domain.FieldAPIKey, sourceAPIKey); err != nil {
			return err
		}
	}

	if sourceDryRun {
		patch, err := sourceService.BuildSavePayload(id)
		if err != nil {
			return err
		}
		if key := patch.APIKey; key != nil && *key != "" {
			masked := maskAPIKey(*key)
			patch.APIKey = &masked
		}
		return writeJSON(cmd.OutOrStdout(), patch)
	}

	err := sourceService.Save(ctx, id)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		printFieldErrors(cmd.ErrOrStderr(), verr.Fields)
		return errors.New("source not saved")
	case errors.Is(err, domain.ErrNothingToSave):
		return nil
	}
	return err
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if _, err := loadSources(ctx); err != nil {
		return err
	}

	if cmd.Flags().Changed("interval") && !sourceAddAuto {
		cmd.PrintErrln("Warning: --interval only applies with --autoupdate and was not sent.")
	}

	sourceService.ResetDraft()
	edits := []struct {
		field domain.SourceField
		value any
	}{
		{domain.FieldSlug, args[0]},
		{domain.FieldURL, sourceAddURL},
		{domain.FieldEventSlug, sourceAddSlug},
		{domain.FieldAutoupdate, sourceAddAuto},
		{domain.FieldInterval, sourceAddEvery},
		{domain.FieldFilter, sourceAddFilter},
		{domain.FieldAPIKey, sourceAPIKey},
	}
	for _, e := range edits {
		if err := sourceService.EditDraft(e.field, e.value); err != nil {
			return err
		}
	}

	_, err := sourceService.CreateNew(ctx)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		printFieldErrors(cmd.ErrOrStderr(), verr.Fields)
		return errors.New("source not created")
	}
	return err
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if _, err := loadSources(ctx); err != nil {
		return err
	}
	return sourceService.Delete(ctx, args[0])
}

func runSourceURLs(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	if _, err := loadSources(ctx); err != nil {
		return err
	}
	urls, err := sourceService.UpdateURLs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load update URLs: %w", err)
	}
	t := newTabular("source", "submission_update_url")
	for _, u := range urls {
		t.add(u.SourceID, u.SubmissionUpdateURL)
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No sources configured.")
}

func runSourceSchedule(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if _, err := loadSources(ctx); err != nil {
		return err
	}
	if _, err := sourceService.Get(args[0]); err != nil {
		return fmt.Errorf("source %q: %w", args[0], err)
	}
	return sourceService.ScheduleUpdate(ctx, args[0])
}

// fieldAliases maps accepted spellings to source fields.
var fieldAliases = map[string]domain.SourceField{
	"url":        domain.FieldURL,
	"eventslug":  domain.FieldEventSlug,
	"event_slug": domain.FieldEventSlug,
	"event-slug": domain.FieldEventSlug,
	"autoupdate": domain.FieldAutoupdate,
	"interval":   domain.FieldInterval,
	"filter":     domain.FieldFilter,
}

// parseFieldArg splits "field=value". Values stay strings; the service
// converts them.
func parseFieldArg(arg string) (domain.SourceField, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: expected field=value, got %q", domain.ErrInvalidInput, arg)
	}
	field, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidField, name)
	}
	return field, value, nil
}

func printFieldErrors(w io.Writer, errs domain.FieldErrors) {
	if len(errs) == 0 {
		return
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, errs[k])
	}
}

// maskAPIKey masks an API key for display, showing only first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
