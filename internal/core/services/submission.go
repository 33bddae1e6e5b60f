package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
	"github.com/custodia-labs/confadmin/internal/logger"
)

// Ensure SubmissionService implements the interface.
var _ driving.SubmissionService = (*SubmissionService)(nil)

// SubmissionService lists submissions and joins server-side analytics to them.
type SubmissionService struct {
	api driven.SubmissionAPI
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(api driven.SubmissionAPI) *SubmissionService {
	return &SubmissionService{api: api}
}

// List returns the event's submissions ordered by code.
func (s *SubmissionService) List(ctx context.Context, event string) ([]domain.Submission, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	subs, err := s.api.Submissions(ctx, event)
	if err != nil {
		return nil, err
	}
	sortSubmissions(subs)
	return subs, nil
}

// Votes fetches submissions and ratings concurrently and joins them.
func (s *SubmissionService) Votes(ctx context.Context, event string) ([]domain.VoteRow, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}

	var (
		subs    []domain.Submission
		ratings map[string]domain.Rating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subs, err = s.api.Submissions(gctx, event)
		if err != nil {
			return fmt.Errorf("fetch submissions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ratings, err = s.api.Ratings(gctx, event)
		if err != nil {
			return fmt.Errorf("fetch ratings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortSubmissions(subs)
	rows := make([]domain.VoteRow, 0, len(subs))
	for _, sub := range subs {
		rating, ok := ratings[sub.ID]
		rows = append(rows, NewVoteRow(sub, rating, ok))
	}
	logger.Debug("Joined %d submissions with %d ratings", len(subs), len(ratings))
	return rows, nil
}

// Conflicts returns correlated pairs joined with their submissions.
func (s *SubmissionService) Conflicts(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.ConflictRow, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	n, err := checkConflictArgs(kind, n)
	if err != nil {
		return nil, err
	}

	var (
		subs      []domain.Submission
		conflicts []domain.Conflict
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subs, err = s.api.Submissions(gctx, event)
		return err
	})
	g.Go(func() (err error) {
		conflicts, err = s.api.Conflicts(gctx, event, kind, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := indexSubmissions(subs)
	rows := make([]domain.ConflictRow, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, domain.ConflictRow{
			A:           submissionRef(byID, c.A),
			B:           submissionRef(byID, c.B),
			Correlation: c.Correlation,
		})
	}
	return rows, nil
}

// Similar returns submissions similar to submissionID. Similar submissions
// that are not in the event's submission list are dropped.
func (s *SubmissionService) Similar(ctx context.Context, event, submissionID string, kind domain.ConflictType, n int) ([]domain.SimilarRow, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if submissionID == "" {
		return nil, fmt.Errorf("%w: submission id is required", domain.ErrInvalidInput)
	}
	n, err := checkConflictArgs(kind, n)
	if err != nil {
		return nil, err
	}

	var (
		subs    []domain.Submission
		similar []domain.Similarity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subs, err = s.api.Submissions(gctx, event)
		return err
	})
	g.Go(func() (err error) {
		similar, err = s.api.Similar(gctx, event, submissionID, kind, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := indexSubmissions(subs)
	rows := make([]domain.SimilarRow, 0, len(similar))
	for _, sim := range similar {
		sub, ok := byID[sim.ID]
		if !ok {
			continue
		}
		rows = append(rows, domain.SimilarRow{
			Submission: domain.SubmissionRef{ID: sub.ID, Code: sub.Code, Title: sub.Title},
			Metric:     sim.Metric,
		})
	}
	return rows, nil
}

// NewVoteRow joins a submission with its rating and computes the ratios.
func NewVoteRow(sub domain.Submission, r domain.Rating, rated bool) domain.VoteRow {
	row := domain.VoteRow{
		SubmissionID: sub.ID,
		Code:         sub.Code,
		Title:        sub.Title,
		Rated:        rated,
		Rating:       r,
	}
	if sub.Time != nil {
		row.Start = sub.Time.Start
	}
	if !rated {
		return row
	}
	row.UpRatio = ratio(r.Up, r.Up+r.Down)
	row.UpPerView = ratio(r.Up, r.Views)
	row.UpPerExpanded = ratio(r.Up, r.Expanded)
	row.DownPerView = ratio(r.Down, r.Views)
	row.DownPerExpanded = ratio(r.Down, r.Expanded)
	row.ExpandedPerView = ratio(r.Expanded, r.Views)
	row.NetExpandedPerView = ratio(r.Expanded-r.Down, r.Views)
	return row
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// SortVotes sorts rows in place by column. Undefined values sort lowest.
func SortVotes(rows []domain.VoteRow, col domain.VoteColumn, desc bool) {
	less := func(a, b domain.VoteRow) bool {
		switch col {
		case domain.ColCode:
			return a.Code < b.Code
		case domain.ColTitle:
			return fold(a.Title) < fold(b.Title)
		}
		av, aok := a.Numeric(col)
		bv, bok := b.Numeric(col)
		if !aok {
			av = math.Inf(-1)
		}
		if !bok {
			bv = math.Inf(-1)
		}
		return av < bv
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// FilterVotes keeps rows whose code or title contains query.
func FilterVotes(rows []domain.VoteRow, query string) []domain.VoteRow {
	query = strings.TrimSpace(query)
	if query == "" {
		return rows
	}
	out := make([]domain.VoteRow, 0, len(rows))
	for _, r := range rows {
		if containsFold(r.Code, query) || containsFold(r.Title, query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterSubmissions keeps submissions whose title or abstract contains query.
// The abstract is matched both raw and with HTML markup removed.
func FilterSubmissions(subs []domain.Submission, query string) []domain.Submission {
	query = strings.TrimSpace(query)
	if query == "" {
		return subs
	}
	out := make([]domain.Submission, 0, len(subs))
	for _, s := range subs {
		if containsFold(s.Title, query) ||
			containsFold(s.Abstract, query) ||
			containsFold(stripHTML(s.Abstract), query) {
			out = append(out, s)
		}
	}
	return out
}

// FormatPercent renders a ratio with one decimal, or "-" when undefined.
func FormatPercent(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "-"
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", *v*100), ".0") + "%"
}

func checkConflictArgs(kind domain.ConflictType, n int) (int, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("%w: conflict type %q", domain.ErrInvalidInput, kind)
	}
	if n == 0 {
		n = domain.DefaultConflictCount
	}
	if n < 1 || n > domain.MaxConflictCount {
		return 0, fmt.Errorf("%w: count must be between 1 and %d", domain.ErrInvalidInput, domain.MaxConflictCount)
	}
	return n, nil
}

func sortSubmissions(subs []domain.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Code != subs[j].Code {
			return subs[i].Code < subs[j].Code
		}
		return subs[i].ID < subs[j].ID
	})
}

func indexSubmissions(subs []domain.Submission) map[string]domain.Submission {
	byID := make(map[string]domain.Submission, len(subs))
	for _, s := range subs {
		byID[s.ID] = s
	}
	return byID
}

func submissionRef(byID map[string]domain.Submission, id string) domain.SubmissionRef {
	if s, ok := byID[id]; ok {
		return domain.SubmissionRef{ID: id, Code: s.Code, Title: s.Title}
	}
	return domain.SubmissionRef{ID: id, Code: "N/A", Title: fmt.Sprintf("Unknown (%s)", id)}
}
