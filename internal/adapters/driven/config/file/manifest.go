package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// manifestFile is the on-disk shape of a sources manifest:
//
//	event = "djangocon"
//
//	[[source]]
//	id = "pretalx"
//	url = "https://pretalx.com/api/events/djangocon/"
//	apikey_env = "PRETALX_TOKEN"
//	autoupdate = true
//	interval = 600
type manifestFile struct {
	Event   string           `toml:"event"`
	Sources []manifestSource `toml:"source"`
}

type manifestSource struct {
	ID         string  `toml:"id"`
	URL        *string `toml:"url"`
	EventSlug  *string `toml:"event_slug"`
	Autoupdate *bool   `toml:"autoupdate"`
	Interval   *int    `toml:"interval"`
	Filter     *string `toml:"filter"`
	APIKey     string  `toml:"apikey"`
	APIKeyEnv  string  `toml:"apikey_env"`
}

// LoadSourceManifest reads a sources manifest from path. An apikey_env entry
// is resolved from the environment and must be set.
func LoadSourceManifest(path string) (domain.SourceManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceManifest{}, err
	}
	return ParseSourceManifest(data)
}

// ParseSourceManifest decodes manifest TOML.
func ParseSourceManifest(data []byte) (domain.SourceManifest, error) {
	var raw manifestFile
	dec := toml.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return domain.SourceManifest{}, fmt.Errorf("%w: manifest: %v", domain.ErrInvalidInput, err)
	}

	m := domain.SourceManifest{
		Event:   strings.TrimSpace(raw.Event),
		Sources: make([]domain.SourceSpec, 0, len(raw.Sources)),
	}
	for i, src := range raw.Sources {
		spec := domain.SourceSpec{
			ID:         strings.TrimSpace(src.ID),
			URL:        src.URL,
			EventSlug:  src.EventSlug,
			Autoupdate: src.Autoupdate,
			Interval:   src.Interval,
			APIKey:     src.APIKey,
		}
		if src.Filter != nil {
			f := domain.SourceFilter(strings.ToLower(strings.TrimSpace(*src.Filter)))
			if !f.IsValid() {
				return domain.SourceManifest{}, fmt.Errorf("%w: source #%d: unknown filter %q", domain.ErrInvalidInput, i+1, *src.Filter)
			}
			spec.Filter = &f
		}
		if src.APIKeyEnv != "" {
			if src.APIKey != "" {
				return domain.SourceManifest{}, fmt.Errorf("%w: source #%d: set apikey or apikey_env, not both", domain.ErrInvalidInput, i+1)
			}
			key, ok := os.LookupEnv(src.APIKeyEnv)
			if !ok || key == "" {
				return domain.SourceManifest{}, fmt.Errorf("%w: source #%d: %s is not set", domain.ErrInvalidInput, i+1, src.APIKeyEnv)
			}
			spec.APIKey = key
		}
		m.Sources = append(m.Sources, spec)
	}
	return m, nil
}
