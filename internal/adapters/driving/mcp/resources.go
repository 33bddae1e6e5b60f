package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for confadmin resources.
	uriScheme = "confadmin://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing events.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "events",
		Name:        "events",
		Description: "Events visible to the signed-in user",
		MIMEType:    "application/json",
	}, s.handleEventsResource)

	// Template for the sources of one event.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "events/{slug}/sources",
		Name:        "event-sources",
		Description: "Submission sources configured for a specific event",
		MIMEType:    "application/json",
	}, s.handleEventSourcesResource)
}

// handleEventsResource returns the visible events.
func (s *Server) handleEventsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, output, err := s.handleListEvents(ctx, nil, ListEventsInput{})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return jsonResource(req.Params.URI, output.Events)
}

// handleEventSourcesResource returns the sources of one event.
func (s *Server) handleEventSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract slug from URI: confadmin://events/{slug}/sources
	slug := extractEventSlug(req.Params.URI)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sources, err := s.loadSources(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return jsonResource(req.Params.URI, sources)
}

// jsonResource wraps v as an indented JSON resource.
func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractEventSlug extracts the event slug from a URI like confadmin://events/{slug}/sources.
func extractEventSlug(uri string) string {
	const prefix = uriScheme + "events/"
	const suffix = "/sources"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	slug := strings.TrimSuffix(uri, suffix)
	if strings.Contains(slug, "/") {
		return ""
	}
	return slug
}
