// Package votes provides the sortable vote analytics view for the TUI.
package votes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
	"github.com/custodia-labs/confadmin/internal/core/services"
)

// column describes one rendered column of the table.
type column struct {
	col   domain.VoteColumn
	title string
	width int
}

var columns = []column{
	{domain.ColCode, "Code", 8},
	{domain.ColTitle, "Title", 32},
	{domain.ColUp, "Up", 5},
	{domain.ColDown, "Down", 5},
	{domain.ColViews, "Views", 6},
	{domain.ColExpanded, "Exp", 5},
	{domain.ColUpRatio, "Up%", 7},
	{domain.ColUpPerView, "Up/V", 7},
	{domain.ColUpPerExpanded, "Up/E", 7},
	{domain.ColDownPerView, "Dn/V", 7},
	{domain.ColDownPerExpanded, "Dn/E", 7},
	{domain.ColExpandedPerView, "E/V", 7},
	{domain.ColNetPerView, "Net/V", 7},
	{domain.ColStart, "Start", 12},
}

// View is the votes table.
type View struct {
	ctx               context.Context
	styles            *styles.Styles
	keymap            *keymap.KeyMap
	submissionService driving.SubmissionService

	event     string
	all       []domain.VoteRow
	rows      []domain.VoteRow
	cursor    *list.Cursor
	sortIndex int
	desc      bool
	filter    *input.Field
	filtering bool
	loading   bool
	err       error
}

// NewView creates a new votes view.
func NewView(s *styles.Styles, submissionService driving.SubmissionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		ctx:               context.Background(),
		styles:            s,
		keymap:            km,
		submissionService: submissionService,
		cursor:            list.NewCursor(km),
		filter:            input.NewField(s, "Filter", "code or title"),
	}
}

// SetContext sets the context used for network calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetEvent sets the event whose votes are shown.
func (v *View) SetEvent(slug string) {
	v.event = slug
}

// Init loads the votes.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	ctx, svc, event := v.ctx, v.submissionService, v.event
	return func() tea.Msg {
		if svc == nil {
			return messages.VotesLoaded{Err: errors.New("submission service not available")}
		}
		if event == "" {
			return messages.VotesLoaded{Err: domain.ErrNoActiveEvent}
		}
		rows, err := svc.Votes(ctx, event)
		return messages.VotesLoaded{Rows: rows, Err: err}
	}
}

// Update handles messages for the votes view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.VotesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.all = msg.Rows
			v.apply()
		}
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilterKey(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case v.cursor.Update(msg):
	case key.Matches(msg, v.keymap.Back):
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.apply()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, v.keymap.Sort):
		v.sortIndex = (v.sortIndex + 1) % len(columns)
		v.apply()
	case key.Matches(msg, v.keymap.Reverse):
		v.desc = !v.desc
		v.apply()
	case key.Matches(msg, v.keymap.Filter):
		v.filtering = true
		return v, v.filter.Focus()
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Init()
	}
	return v, nil
}

// handleFilterKey edits the filter and applies it as it is typed.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
		v.filtering = false
		v.filter.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.apply()
	return v, cmd
}

// apply filters and sorts the loaded rows.
func (v *View) apply() {
	filtered := services.FilterVotes(v.all, v.filter.Value())
	rows := make([]domain.VoteRow, len(filtered))
	copy(rows, filtered)
	services.SortVotes(rows, v.SortColumn(), v.desc)
	v.rows = rows
	v.cursor.SetCount(len(rows))
}

// View renders the votes table.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Votes"))
	if v.event != "" {
		b.WriteString(v.styles.Muted.Render("  " + v.event))
	}
	b.WriteString("\n\n")

	if v.filtering || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading votes..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("No submissions."))
	default:
		b.WriteString(v.styles.Header.Render(v.header()))
		b.WriteString("\n")
		start, end := v.cursor.Window()
		for i := start; i < end; i++ {
			line := v.cursor.Indicator(i) + formatRow(v.rows[i])
			if i == v.cursor.Selected() {
				b.WriteString(v.styles.Selected.Render(line))
			} else {
				b.WriteString(v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d of %d submissions", len(v.rows), len(v.all))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keymap.TableHelp()...)))
	return b.String()
}

// header renders the column titles with the sort marker.
func (v *View) header() string {
	var b strings.Builder
	b.WriteString("  ")
	for i, c := range columns {
		title := c.title
		if i == v.sortIndex {
			if v.desc {
				title += "▼"
			} else {
				title += "▲"
			}
		}
		b.WriteString(pad(title, c.width))
	}
	return b.String()
}

func formatRow(r domain.VoteRow) string {
	counter := func(n int) string {
		if !r.Rated {
			return "-"
		}
		return fmt.Sprintf("%d", n)
	}
	start := "-"
	if !r.Start.IsZero() {
		start = r.Start.Local().Format("Jan 02 15:04")
	}
	cells := []string{
		r.Code,
		r.Title,
		counter(r.Up),
		counter(r.Down),
		counter(r.Views),
		counter(r.Expanded),
		services.FormatPercent(r.UpRatio),
		services.FormatPercent(r.UpPerView),
		services.FormatPercent(r.UpPerExpanded),
		services.FormatPercent(r.DownPerView),
		services.FormatPercent(r.DownPerExpanded),
		services.FormatPercent(r.ExpandedPerView),
		services.FormatPercent(r.NetExpandedPerView),
		start,
	}
	var b strings.Builder
	for i, c := range columns {
		b.WriteString(pad(cells[i], c.width))
	}
	return b.String()
}

// pad truncates or pads s to width runes plus one space.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		r = append(r[:width-1], '…')
	}
	return string(r) + strings.Repeat(" ", width-len(r)+1)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.cursor.SetHeight(height - 9)
	v.filter.SetWidth(width)
}

// SortColumn returns the column rows are sorted by.
func (v *View) SortColumn() domain.VoteColumn {
	return columns[v.sortIndex].col
}

// Descending reports whether rows sort in descending order.
func (v *View) Descending() bool {
	return v.desc
}

// Rows returns the filtered and sorted rows.
func (v *View) Rows() []domain.VoteRow {
	return v.rows
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
