package tomselect

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/a-h/templ"
	"gopkg.in/yaml.v3"
)

// Settings holds the library-level knobs: which Tom Select assets a page
// loads and how long heavy widget registrations live.
type Settings struct {
	// JS lists the script URLs a page must include, in order.
	JS []string `yaml:"js"`
	// CSS lists the stylesheet URLs a page must include, in order.
	CSS []string `yaml:"css"`
	// Theme names the Tom Select theme in use.
	Theme string `yaml:"theme"`
	// CachePrefix namespaces registry keys when several applications share
	// one backend.
	CachePrefix string `yaml:"cache_prefix"`
	// CacheTTL is how long a heavy widget registration stays resolvable.
	// It effectively bounds how long a rendered form can stay open in a
	// browser before its AJAX fields go stale.
	CacheTTL Duration `yaml:"cache_ttl"`
}

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30m" or "1h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the setting as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultSettings returns the built-in defaults: CDN-hosted Tom Select
// assets and a one hour registration TTL.
func DefaultSettings() Settings {
	return Settings{
		JS: []string{
			"https://cdn.jsdelivr.net/npm/tom-select@2/dist/js/tom-select.complete.min.js",
		},
		CSS: []string{
			"https://cdn.jsdelivr.net/npm/tom-select@2/dist/css/tom-select.min.css",
		},
		Theme:       "default",
		CachePrefix: "tomselect",
		CacheTTL:    Duration(time.Hour),
	}
}

// LoadSettings reads settings from a YAML file, filling unset fields with
// defaults. A missing file is not an error; defaults are returned.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), err
	}
	if s.CachePrefix == "" {
		s.CachePrefix = "tomselect"
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = Duration(time.Hour)
	}
	return s, nil
}

// Media renders the script and stylesheet tags for the configured assets.
func (s Settings) Media() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		for _, href := range s.CSS {
			tag := `<link rel="stylesheet" href="` + templ.EscapeString(href) + `">`
			if _, err := io.WriteString(out, tag); err != nil {
				return err
			}
		}
		for _, src := range s.JS {
			tag := `<script src="` + templ.EscapeString(src) + `"></script>`
			if _, err := io.WriteString(out, tag); err != nil {
				return err
			}
		}
		return nil
	})
}
