package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

// defaultLimit caps list results when the caller sets no limit.
const defaultLimit = 50

// EventArg selects an event. Empty means the active event.
type EventArg struct {
	Event string `json:"event,omitempty" jsonschema:"event slug; defaults to the active event"`
}

// ListEventsInput is the input schema for the list_events tool.
type ListEventsInput struct{}

// ListEventsOutput is the output schema for the list_events tool.
type ListEventsOutput struct {
	Events    []EventOutput `json:"events"`
	Active    string        `json:"active,omitempty"`
	CanCreate bool          `json:"can_create"`
	Count     int           `json:"count"`
}

// EventOutput represents one event.
type EventOutput struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	VotingEnabled bool   `json:"voting_enabled"`
	CanManage     bool   `json:"can_manage"`
}

// OverviewOutput is the output schema for the event_overview tool.
type OverviewOutput struct {
	Event            string `json:"event"`
	TotalVoters      int    `json:"total_voters"`
	TotalSources     int    `json:"total_sources"`
	TotalSubmissions int    `json:"total_submissions"`
}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Event   string         `json:"event"`
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput represents one source.
type SourceOutput struct {
	ID         string            `json:"id"`
	URL        string            `json:"url,omitempty"`
	EventSlug  string            `json:"event_slug,omitempty"`
	Autoupdate bool              `json:"autoupdate"`
	Interval   int               `json:"interval"`
	Filter     string            `json:"filter"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// ListSubmissionsInput is the input schema for the list_submissions tool.
type ListSubmissionsInput struct {
	EventArg
	Filter string `json:"filter,omitempty" jsonschema:"case-insensitive text matched against title and abstract"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 50)"`
}

// ListSubmissionsOutput is the output schema for the list_submissions tool.
type ListSubmissionsOutput struct {
	Event       string             `json:"event"`
	Submissions []SubmissionOutput `json:"submissions"`
	Count       int                `json:"count"`
	Total       int                `json:"total"`
}

// SubmissionOutput represents one submission.
type SubmissionOutput struct {
	ID       string     `json:"id"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Abstract string     `json:"abstract,omitempty"`
	Start    *time.Time `json:"start,omitempty"`
	Room     string     `json:"room,omitempty"`
}

// ListVotesInput is the input schema for the list_votes tool.
type ListVotesInput struct {
	EventArg
	Sort   string `json:"sort,omitempty" jsonschema:"column to sort by, e.g. up_ratio or up_per_view (default code)"`
	Desc   bool   `json:"desc,omitempty" jsonschema:"sort in descending order"`
	Filter string `json:"filter,omitempty" jsonschema:"case-insensitive text matched against code and title"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of rows to return (default 50)"`
}

// ListVotesOutput is the output schema for the list_votes tool.
type ListVotesOutput struct {
	Event string       `json:"event"`
	Rows  []VoteOutput `json:"rows"`
	Count int          `json:"count"`
}

// VoteOutput represents one row of vote analytics. Ratios are omitted when undefined.
type VoteOutput struct {
	Code               string   `json:"code"`
	Title              string   `json:"title"`
	Rated              bool     `json:"rated"`
	Up                 int      `json:"up"`
	Down               int      `json:"down"`
	Views              int      `json:"views"`
	Expanded           int      `json:"expanded"`
	UpRatio            *float64 `json:"up_ratio,omitempty"`
	UpPerView          *float64 `json:"up_per_view,omitempty"`
	UpPerExpanded      *float64 `json:"up_per_expanded,omitempty"`
	DownPerView        *float64 `json:"down_per_view,omitempty"`
	DownPerExpanded    *float64 `json:"down_per_expanded,omitempty"`
	ExpandedPerView    *float64 `json:"expanded_per_view,omitempty"`
	NetExpandedPerView *float64 `json:"net_expanded_per_view,omitempty"`
}

// ListConflictsInput is the input schema for the list_conflicts tool.
type ListConflictsInput struct {
	EventArg
	Type  string `json:"type,omitempty" jsonschema:"expanded, up or expanded-without-down (default expanded)"`
	Count int    `json:"count,omitempty" jsonschema:"number of pairs to return, 1-100 (default 20)"`
}

// ListConflictsOutput is the output schema for the list_conflicts tool.
type ListConflictsOutput struct {
	Event     string           `json:"event"`
	Type      string           `json:"type"`
	Conflicts []ConflictOutput `json:"conflicts"`
	Count     int              `json:"count"`
}

// ConflictOutput represents one correlated pair.
type ConflictOutput struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Correlation float64 `json:"correlation"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_events",
		Description: "List the events visible to the signed-in user",
	}, s.handleListEvents)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "event_overview",
		Description: "Show voter, source and submission totals of an event",
	}, s.handleEventOverview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List the submission sources configured for an event",
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_submissions",
		Description: "List the submissions of an event",
	}, s.handleListSubmissions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_votes",
		Description: "List vote counters and derived ratios per submission",
	}, s.handleListVotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_conflicts",
		Description: "List submission pairs whose audiences overlap",
	}, s.handleListConflicts)
}

// resolveEvent returns the requested event or the active one.
func (s *Server) resolveEvent(ctx context.Context, arg EventArg) (string, error) {
	return s.ports.Event.Resolve(ctx, arg.Event)
}

// handleListEvents handles the list_events tool invocation.
func (s *Server) handleListEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListEventsInput,
) (*mcp.CallToolResult, ListEventsOutput, error) {
	list, err := s.ports.Event.List(ctx)
	if err != nil {
		return nil, ListEventsOutput{}, err
	}

	// No active event is not an error here.
	active, _ := s.ports.Event.Active(ctx)

	output := ListEventsOutput{
		Events:    make([]EventOutput, len(list.Events)),
		Active:    active,
		CanCreate: list.CanCreate,
		Count:     len(list.Events),
	}
	for i, e := range list.Events {
		output.Events[i] = EventOutput{
			Slug:          e.Slug,
			Name:          e.Name,
			Role:          string(e.Permissions.Role),
			VotingEnabled: e.VotingEnabled,
			CanManage:     e.CanManage(),
		}
	}

	return nil, output, nil
}

// handleEventOverview handles the event_overview tool invocation.
func (s *Server) handleEventOverview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EventArg,
) (*mcp.CallToolResult, OverviewOutput, error) {
	event, err := s.resolveEvent(ctx, input)
	if err != nil {
		return nil, OverviewOutput{}, err
	}

	ov, err := s.ports.Event.Overview(ctx, event)
	if err != nil {
		return nil, OverviewOutput{}, err
	}

	return nil, OverviewOutput{
		Event:            event,
		TotalVoters:      ov.TotalVoters,
		TotalSources:     ov.TotalSources,
		TotalSubmissions: ov.TotalSubmissions,
	}, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EventArg,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	if s.ports.Source == nil {
		return nil, ListSourcesOutput{}, fmt.Errorf("%w: source", ErrServiceUnavailable)
	}

	event, err := s.resolveEvent(ctx, input)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	sources, err := s.loadSources(ctx, event)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	return nil, ListSourcesOutput{
		Event:   event,
		Sources: sources,
		Count:   len(sources),
	}, nil
}

// loadSources refreshes the event's sources and converts them for output.
func (s *Server) loadSources(ctx context.Context, event string) ([]SourceOutput, error) {
	if err := s.ports.Source.Refresh(ctx, event); err != nil {
		return nil, err
	}

	list := s.ports.Source.List()
	out := make([]SourceOutput, len(list))
	for i := range list {
		src := &list[i]
		out[i] = SourceOutput{
			ID:         src.ID,
			URL:        src.Current.URL,
			EventSlug:  src.Current.EventSlug,
			Autoupdate: src.Current.Autoupdate,
			Interval:   src.Current.Interval,
			Filter:     string(src.Current.Filter),
		}
		if len(src.Errors) > 0 {
			out[i].Errors = src.Errors
		}
	}
	return out, nil
}

// handleListSubmissions handles the list_submissions tool invocation.
func (s *Server) handleListSubmissions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSubmissionsInput,
) (*mcp.CallToolResult, ListSubmissionsOutput, error) {
	if s.ports.Submission == nil {
		return nil, ListSubmissionsOutput{}, fmt.Errorf("%w: submission", ErrServiceUnavailable)
	}

	event, err := s.resolveEvent(ctx, input.EventArg)
	if err != nil {
		return nil, ListSubmissionsOutput{}, err
	}

	subs, err := s.ports.Submission.List(ctx, event)
	if err != nil {
		return nil, ListSubmissionsOutput{}, err
	}
	subs = services.FilterSubmissions(subs, input.Filter)
	total := len(subs)
	subs = subs[:clampLimit(input.Limit, total)]

	output := ListSubmissionsOutput{
		Event:       event,
		Submissions: make([]SubmissionOutput, len(subs)),
		Count:       len(subs),
		Total:       total,
	}
	for i := range subs {
		out := SubmissionOutput{
			ID:       subs[i].ID,
			Code:     subs[i].Code,
			Title:    subs[i].Title,
			Abstract: subs[i].Abstract,
		}
		if slot := subs[i].Time; slot != nil {
			start := slot.Start
			out.Start = &start
			out.Room = slot.Room
		}
		output.Submissions[i] = out
	}

	return nil, output, nil
}

// handleListVotes handles the list_votes tool invocation.
func (s *Server) handleListVotes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListVotesInput,
) (*mcp.CallToolResult, ListVotesOutput, error) {
	if s.ports.Submission == nil {
		return nil, ListVotesOutput{}, fmt.Errorf("%w: submission", ErrServiceUnavailable)
	}

	col := domain.ColCode
	if input.Sort != "" {
		col = domain.VoteColumn(input.Sort)
		if !col.IsValid() {
			return nil, ListVotesOutput{}, fmt.Errorf("%w: unknown sort column %q", domain.ErrInvalidInput, input.Sort)
		}
	}

	event, err := s.resolveEvent(ctx, input.EventArg)
	if err != nil {
		return nil, ListVotesOutput{}, err
	}

	rows, err := s.ports.Submission.Votes(ctx, event)
	if err != nil {
		return nil, ListVotesOutput{}, err
	}
	rows = services.FilterVotes(rows, input.Filter)
	services.SortVotes(rows, col, input.Desc)
	rows = rows[:clampLimit(input.Limit, len(rows))]

	output := ListVotesOutput{
		Event: event,
		Rows:  make([]VoteOutput, len(rows)),
		Count: len(rows),
	}
	for i := range rows {
		r := &rows[i]
		output.Rows[i] = VoteOutput{
			Code:               r.Code,
			Title:              r.Title,
			Rated:              r.Rated,
			Up:                 r.Up,
			Down:               r.Down,
			Views:              r.Views,
			Expanded:           r.Expanded,
			UpRatio:            r.UpRatio,
			UpPerView:          r.UpPerView,
			UpPerExpanded:      r.UpPerExpanded,
			DownPerView:        r.DownPerView,
			DownPerExpanded:    r.DownPerExpanded,
			ExpandedPerView:    r.ExpandedPerView,
			NetExpandedPerView: r.NetExpandedPerView,
		}
	}

	return nil, output, nil
}

// handleListConflicts handles the list_conflicts tool invocation.
func (s *Server) handleListConflicts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListConflictsInput,
) (*mcp.CallToolResult, ListConflictsOutput, error) {
	if s.ports.Submission == nil {
		return nil, ListConflictsOutput{}, fmt.Errorf("%w: submission", ErrServiceUnavailable)
	}

	kind := domain.ConflictExpanded
	if input.Type != "" {
		kind = domain.ConflictType(input.Type)
	}
	count := input.Count
	if count == 0 {
		count = domain.DefaultConflictCount
	}

	event, err := s.resolveEvent(ctx, input.EventArg)
	if err != nil {
		return nil, ListConflictsOutput{}, err
	}

	rows, err := s.ports.Submission.Conflicts(ctx, event, kind, count)
	if err != nil {
		return nil, ListConflictsOutput{}, err
	}

	output := ListConflictsOutput{
		Event:     event,
		Type:      string(kind),
		Conflicts: make([]ConflictOutput, len(rows)),
		Count:     len(rows),
	}
	for i, r := range rows {
		output.Conflicts[i] = ConflictOutput{
			A:           refLabel(r.A),
			B:           refLabel(r.B),
			Correlation: r.Correlation,
		}
	}

	return nil, output, nil
}

// refLabel renders a submission as "CODE: Title".
func refLabel(ref domain.SubmissionRef) string {
	if ref.Code == "" {
		return ref.Title
	}
	return ref.Code + ": " + ref.Title
}

// clampLimit returns the number of items to keep out of n.
func clampLimit(limit, n int) int {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > n {
		return n
	}
	return limit
}
