package tui

import "errors"

// ErrMissingEventService is returned when the event service is not provided.
var ErrMissingEventService = errors.New("tui: event service is required")

// ErrMissingSourceService is returned when the source service is not provided.
var ErrMissingSourceService = errors.New("tui: source service is required")
