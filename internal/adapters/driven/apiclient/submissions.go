package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

type submissionDetail struct {
	Code       string  `json:"code"`
	LastUpdate float64 `json:"lastupdate"`
	Title      string  `json:"title"`
	Abstract   string  `json:"abstract"`
	Time       *struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Room  string  `json:"room"`
	} `json:"time"`
}

// unixTime converts seconds since the epoch, zero meaning unset.
func unixTime(v float64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}

func (d submissionDetail) toDomain(id string) domain.Submission {
	sub := domain.Submission{
		ID:         id,
		Code:       d.Code,
		Title:      d.Title,
		Abstract:   d.Abstract,
		LastUpdate: unixTime(d.LastUpdate),
	}
	if d.Time != nil && d.Time.Start != 0 {
		sub.Time = &domain.TimeSlot{
			Start: unixTime(d.Time.Start),
			End:   unixTime(d.Time.End),
			Room:  d.Time.Room,
		}
	}
	return sub
}

// Submissions returns the submissions of an event in no particular order.
func (c *Client) Submissions(ctx context.Context, event string) ([]domain.Submission, error) {
	var out struct {
		Submissions map[string]submissionDetail `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/submissions/"+segment(event), nil, &out); err != nil {
		return nil, err
	}
	subs := make([]domain.Submission, 0, len(out.Submissions))
	for id, d := range out.Submissions {
		subs = append(subs, d.toDomain(id))
	}
	return subs, nil
}

// Ratings returns the vote counters keyed by submission id.
func (c *Client) Ratings(ctx context.Context, event string) (map[string]domain.Rating, error) {
	var out map[string]domain.Rating
	if err := c.do(ctx, http.MethodGet, "/ratings/"+segment(event), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]domain.Rating{}
	}
	return out, nil
}

// Conflicts returns the n most correlated submission pairs.
func (c *Client) Conflicts(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.Conflict, error) {
	path := "/conflicts/" + segment(event) + "/" + segment(string(kind)) + "/" + strconv.Itoa(n)
	var out []domain.Conflict
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Similar returns the n submissions most similar to submissionID.
func (c *Client) Similar(ctx context.Context, event, submissionID string, kind domain.ConflictType, n int) ([]domain.Similarity, error) {
	path := "/similarities/" + segment(event) + "/" + segment(submissionID) + "/" + segment(string(kind)) + "/" + strconv.Itoa(n)
	var out []domain.Similarity
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
