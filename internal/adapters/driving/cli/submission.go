package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List submissions of the event",
	Long: `List submissions ordered by code.

--filter matches title and abstract, ignoring case and HTML markup.`,
	Args: cobra.NoArgs,
	RunE: runSubmissions,
}

var votesCmd = &cobra.Command{
	Use:   "votes",
	Short: "Show vote counts and ratios per submission",
	Long: `Show up, down, views and expanded counts per submission with derived ratios.

Sortable columns:
  code, title, up, down, views, expanded, up_ratio, up_per_view,
  up_per_expanded, down_per_view, down_per_expanded, expanded_per_view,
  net_expanded_per_view, start

Ratios with a zero divisor show as "-" and sort lowest.`,
	Args: cobra.NoArgs,
	RunE: runVotes,
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show submission pairs whose audiences overlap",
	Args:  cobra.NoArgs,
	RunE:  runConflicts,
}

var similarCmd = &cobra.Command{
	Use:   "similar [submission-id]",
	Short: "Show submissions similar to one submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

// Flags for submission commands.
var (
	submissionFilter string
	votesSort        string
	votesDesc        bool
	conflictType     string
	conflictCount    int
)

func init() {
	submissionsCmd.Flags().StringVar(&submissionFilter, "filter", "", "only show matching submissions")

	votesCmd.Flags().StringVar(&submissionFilter, "filter", "", "only show rows whose code or title matches")
	votesCmd.Flags().StringVar(&votesSort, "sort", string(domain.ColCode), "column to sort by")
	votesCmd.Flags().BoolVar(&votesDesc, "desc", false, "sort descending")

	for _, c := range []*cobra.Command{conflictsCmd, similarCmd} {
		c.Flags().StringVarP(&conflictType, "type", "t", string(domain.ConflictExpanded),
			"signal: expanded, up or expanded-without-down")
		c.Flags().IntVarP(&conflictCount, "count", "n", domain.DefaultConflictCount,
			fmt.Sprintf("number of results (1-%d)", domain.MaxConflictCount))
	}

	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(votesCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(similarCmd)
}

func runSubmissions(cmd *cobra.Command, _ []string) error {
	if submissionService == nil {
		return errors.New("submission service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}

	subs, err := submissionService.List(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}
	subs = services.FilterSubmissions(subs, submissionFilter)

	t := newTabular("code", "title", "start", "room", "updated")
	for _, s := range subs {
		var start any
		room := ""
		if s.Time != nil {
			start, room = s.Time.Start, s.Time.Room
		}
		t.add(s.Code, truncate(s.Title, 60), start, room, s.LastUpdate)
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No submissions found.")
}

func runVotes(cmd *cobra.Command, _ []string) error {
	if submissionService == nil {
		return errors.New("submission service not configured")
	}
	col := domain.VoteColumn(strings.ToLower(votesSort))
	if !col.IsValid() {
		return fmt.Errorf("%w: unknown sort column %q", domain.ErrInvalidInput, votesSort)
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}

	rows, err := submissionService.Votes(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load votes: %w", err)
	}
	rows = services.FilterVotes(rows, submissionFilter)
	services.SortVotes(rows, col, votesDesc)

	text := outputFormat == formatTable || outputFormat == formatMarkdown || outputFormat == "markdown"
	pct := func(v *float64) any {
		if text {
			return services.FormatPercent(v)
		}
		return v
	}

	t := newTabular("code", "title", "up", "down", "views", "expanded",
		"up_ratio", "up_per_view", "up_per_expanded", "down_per_view",
		"down_per_expanded", "expanded_per_view", "net_expanded_per_view")
	for _, r := range rows {
		title := r.Title
		if text {
			title = truncate(title, 40)
		}
		var up, down, views, expanded any = r.Up, r.Down, r.Views, r.Expanded
		if !r.Rated {
			up, down, views, expanded = nil, nil, nil, nil
		}
		t.add(r.Code, title, up, down, views, expanded,
			pct(r.UpRatio), pct(r.UpPerView), pct(r.UpPerExpanded), pct(r.DownPerView),
			pct(r.DownPerExpanded), pct(r.ExpandedPerView), pct(r.NetExpandedPerView))
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No submissions found.")
}

func runConflicts(cmd *cobra.Command, _ []string) error {
	if submissionService == nil {
		return errors.New("submission service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}

	rows, err := submissionService.Conflicts(ctx, slug, domain.ConflictType(conflictType), conflictCount)
	if err != nil {
		return fmt.Errorf("failed to load conflicts: %w", err)
	}

	t := newTabular("correlation", "code_a", "title_a", "code_b", "title_b")
	for _, r := range rows {
		t.add(r.Correlation, r.A.Code, truncate(r.A.Title, 40), r.B.Code, truncate(r.B.Title, 40))
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No conflicts found.")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	if submissionService == nil {
		return errors.New("submission service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}

	rows, err := submissionService.Similar(ctx, slug, args[0], domain.ConflictType(conflictType), conflictCount)
	if err != nil {
		return fmt.Errorf("failed to load similar submissions: %w", err)
	}

	t := newTabular("metric", "code", "title")
	for _, r := range rows {
		t.add(r.Metric, r.Submission.Code, truncate(r.Submission.Title, 60))
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No similar submissions found.")
}
