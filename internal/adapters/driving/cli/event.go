package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

var eventCmd = &cobra.Command{
	Use:     "event",
	Aliases: []string{"events"},
	Short:   "Manage events",
	Long:    `List, create and select events, and edit their general settings.`,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events visible to you",
	Args:  cobra.NoArgs,
	RunE:  runEventList,
}

var eventCreateCmd = &cobra.Command{
	Use:   "create [name] [slug]",
	Short: "Create an event",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventCreate,
}

var eventUseCmd = &cobra.Command{
	Use:   "use [slug]",
	Short: "Select the active event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventUse,
}

var eventOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show voter, source and submission counts",
	Args:  cobra.NoArgs,
	RunE:  runEventOverview,
}

var eventUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rename an event or switch voting on or off",
	Long: `Edit the general settings of an event. Only the given fields are sent.

Examples:
  confadmin event update --name "DjangoCon EU 2026"
  confadmin event update --voting=false`,
	Args: cobra.NoArgs,
	RunE: runEventUpdate,
}

// Flags for event commands.
var (
	eventListCounts   bool
	eventUpdateName   string
	eventUpdateVoting bool
)

func init() {
	eventListCmd.Flags().BoolVar(&eventListCounts, "counts", false, "include overview counts (one request per event)")
	eventUpdateCmd.Flags().StringVar(&eventUpdateName, "name", "", "new event name")
	eventUpdateCmd.Flags().BoolVar(&eventUpdateVoting, "voting", false, "enable voting")

	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventCreateCmd)
	eventCmd.AddCommand(eventUseCmd)
	eventCmd.AddCommand(eventOverviewCmd)
	eventCmd.AddCommand(eventUpdateCmd)
	rootCmd.AddCommand(eventCmd)
}

func runEventList(cmd *cobra.Command, _ []string) error {
	if eventService == nil {
		return errors.New("event service not configured")
	}
	ctx := commandContext(cmd)

	list, err := eventService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	active, _ := eventService.Active(ctx)

	overviews := make([]*domain.Overview, len(list.Events))
	if eventListCounts {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, e := range list.Events {
			g.Go(func() error {
				ov, err := eventService.Overview(gctx, e.Slug)
				if err != nil {
					return fmt.Errorf("overview %s: %w", e.Slug, err)
				}
				overviews[i] = ov
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	columns := []string{"active", "slug", "name", "role", "voting", "manage"}
	if eventListCounts {
		columns = append(columns, "voters", "sources", "submissions")
	}
	t := newTabular(columns...)
	for i, e := range list.Events {
		marker := ""
		if e.Slug == active {
			marker = "*"
		}
		row := []any{marker, e.Slug, e.Name, string(e.Permissions.Role), e.VotingEnabled, e.CanManage()}
		if ov := overviews[i]; ov != nil {
			row = append(row, ov.TotalVoters, ov.TotalSources, ov.TotalSubmissions)
		}
		t.add(row...)
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No events found.")
}

func runEventCreate(cmd *cobra.Command, args []string) error {
	if eventService == nil {
		return errors.New("event service not configured")
	}
	event, err := eventService.Create(commandContext(cmd), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	cmd.Printf("Use it with: confadmin event use %s\n", event.Slug)
	return nil
}

func runEventUse(cmd *cobra.Command, args []string) error {
	if eventService == nil {
		return errors.New("event service not configured")
	}
	if err := eventService.Use(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to select event: %w", err)
	}
	cmd.Printf("Active event: %s\n", args[0])
	return nil
}

func runEventOverview(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}
	ov, err := eventService.Overview(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}
	return renderRecord(cmd.OutOrStdout(), outputFormat,
		[]string{"event", "voters", "sources", "submissions"},
		[]any{slug, ov.TotalVoters, ov.TotalSources, ov.TotalSubmissions},
	)
}

func runEventUpdate(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}
	event, err := eventService.Get(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load event: %w", err)
	}

	form := domain.NewGeneralSettings(*event)
	if cmd.Flags().Changed("name") {
		form.Name = eventUpdateName
	}
	if cmd.Flags().Changed("voting") {
		form.VotingEnabled = eventUpdateVoting
	}

	err = eventService.UpdateDetails(ctx, form)
	if errors.Is(err, domain.ErrNothingToSave) {
		cmd.Println("Nothing to update.")
		return nil
	}
	return err
}
