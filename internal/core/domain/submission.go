package domain

import "time"

// TimeSlot is the scheduled slot of a submission.
type TimeSlot struct {
	Start time.Time
	End   time.Time
	Room  string
}

// Submission is a talk or paper submitted to an event.
type Submission struct {
	ID         string
	Code       string
	Title      string
	Abstract   string
	LastUpdate time.Time
	Time       *TimeSlot
}

// Rating holds the raw vote counters of one submission.
type Rating struct {
	Up       int `json:"up"`
	Down     int `json:"down"`
	Views    int `json:"views"`
	Expanded int `json:"expanded"`
}

// VoteColumn names a sortable column of the votes table.
type VoteColumn string

// Sortable vote columns.
const (
	ColCode            VoteColumn = "code"
	ColTitle           VoteColumn = "title"
	ColUp              VoteColumn = "up"
	ColDown            VoteColumn = "down"
	ColViews           VoteColumn = "views"
	ColExpanded        VoteColumn = "expanded"
	ColUpRatio         VoteColumn = "up_ratio"
	ColUpPerView       VoteColumn = "up_per_view"
	ColUpPerExpanded   VoteColumn = "up_per_expanded"
	ColDownPerView     VoteColumn = "down_per_view"
	ColDownPerExpanded VoteColumn = "down_per_expanded"
	ColExpandedPerView VoteColumn = "expanded_per_view"
	ColNetPerView      VoteColumn = "net_expanded_per_view"
	ColStart           VoteColumn = "start"
)

// VoteColumns lists every column in table order.
var VoteColumns = []VoteColumn{
	ColCode, ColTitle, ColUp, ColDown, ColViews, ColExpanded,
	ColUpRatio, ColUpPerView, ColUpPerExpanded, ColDownPerView,
	ColDownPerExpanded, ColExpandedPerView, ColNetPerView, ColStart,
}

// IsValid returns true if the column is recognised.
func (c VoteColumn) IsValid() bool {
	for _, col := range VoteColumns {
		if col == c {
			return true
		}
	}
	return false
}

// IsText reports whether the column sorts lexically.
func (c VoteColumn) IsText() bool {
	return c == ColCode || c == ColTitle
}

// VoteRow joins a submission with its rating and derived ratios.
// A ratio is nil when its divisor is zero or the submission has no rating.
type VoteRow struct {
	SubmissionID string
	Code         string
	Title        string
	Start        time.Time
	Rated        bool
	Rating

	UpRatio            *float64
	UpPerView          *float64
	UpPerExpanded      *float64
	DownPerView        *float64
	DownPerExpanded    *float64
	ExpandedPerView    *float64
	NetExpandedPerView *float64
}

// Numeric returns the numeric value of a column.
// The bool is false for text columns and undefined ratios.
func (r VoteRow) Numeric(c VoteColumn) (float64, bool) {
	deref := func(p *float64) (float64, bool) {
		if p == nil {
			return 0, false
		}
		return *p, true
	}
	if !r.Rated && (c == ColUp || c == ColDown || c == ColViews || c == ColExpanded) {
		return 0, false
	}
	switch c {
	case ColStart:
		if r.Start.IsZero() {
			return 0, false
		}
		return float64(r.Start.Unix()), true
	case ColUp:
		return float64(r.Up), true
	case ColDown:
		return float64(r.Down), true
	case ColViews:
		return float64(r.Views), true
	case ColExpanded:
		return float64(r.Expanded), true
	case ColUpRatio:
		return deref(r.UpRatio)
	case ColUpPerView:
		return deref(r.UpPerView)
	case ColUpPerExpanded:
		return deref(r.UpPerExpanded)
	case ColDownPerView:
		return deref(r.DownPerView)
	case ColDownPerExpanded:
		return deref(r.DownPerExpanded)
	case ColExpandedPerView:
		return deref(r.ExpandedPerView)
	case ColNetPerView:
		return deref(r.NetExpandedPerView)
	default:
		return 0, false
	}
}
