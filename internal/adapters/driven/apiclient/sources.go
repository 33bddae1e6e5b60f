package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

func sourcePath(event, id string) string {
	return "/sources/" + segment(event) + "/" + segment(id)
}

// FetchSources returns the full source set keyed by id.
func (c *Client) FetchSources(ctx context.Context, event string) (map[string]domain.SourceRecord, error) {
	var out map[string]domain.SourceRecord
	if err := c.do(ctx, http.MethodGet, "/sources/"+segment(event), nil, &out); err != nil {
		return nil, err
	}
	records := make(map[string]domain.SourceRecord, len(out))
	for id, r := range out {
		r.ID = id
		records[id] = r
	}
	return records, nil
}

// UpsertSource creates or updates a source and returns the stored record.
func (c *Client) UpsertSource(ctx context.Context, event, id string, patch domain.SourcePatch) (*domain.SourceRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: source id is required", domain.ErrInvalidInput)
	}
	if patch.HasLocator() && patch.APIKey == nil {
		return nil, fmt.Errorf("%w: API key (apikey) must be present if URL or Event Slug is provided", domain.ErrInvalidInput)
	}

	var out domain.SourceRecord
	if err := c.do(ctx, http.MethodPost, sourcePath(event, id), patch, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return &out, nil
}

// DeleteSource removes a source.
func (c *Client) DeleteSource(ctx context.Context, event, id string) error {
	return c.do(ctx, http.MethodDelete, sourcePath(event, id), nil, nil)
}

// SourceUpdateURLs returns the push webhook of each source, ordered by id.
// Server-relative URLs are resolved against the backend host.
func (c *Client) SourceUpdateURLs(ctx context.Context, event string) ([]domain.SourceUpdateURL, error) {
	var out map[string]struct {
		SubmissionUpdateURL string `json:"submission_update_url"`
	}
	if err := c.do(ctx, http.MethodGet, "/urls/"+segment(event), nil, &out); err != nil {
		return nil, err
	}

	urls := make([]domain.SourceUpdateURL, 0, len(out))
	for id, u := range out {
		urls = append(urls, domain.SourceUpdateURL{
			SourceID:            id,
			SubmissionUpdateURL: c.resolve(u.SubmissionUpdateURL),
		})
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].SourceID < urls[j].SourceID })
	return urls, nil
}

// ScheduleUpdate asks the backend to pull the source now.
func (c *Client) ScheduleUpdate(ctx context.Context, event, id string) error {
	return c.do(ctx, http.MethodGet, sourcePath(event, id)+"/scheduleupdate", nil, nil)
}
