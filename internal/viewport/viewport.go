package viewport

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/khalidelboray/convos/internal/reactive"
)

// wideThreshold is the width above which the viewport counts as wide.
const wideThreshold = 800

// Viewport is the reactive application object. Each property has its own
// typed read surface; all writes go through Update.
type Viewport struct {
	*reactive.Reactive

	Width              *reactive.Prop[int]
	Height             *reactive.Prop[int]
	OSColorScheme      *reactive.Prop[string]
	ColorScheme        *reactive.Prop[string]
	Theme              *reactive.Prop[string]
	Version            *reactive.Prop[string]
	ColorSchemeOptions *reactive.Prop[[][2]string]
	IsWide             *reactive.Prop[bool]
	ThemeOptions       *reactive.Prop[[][2]string]

	mu           sync.Mutex
	catalog      *Catalog
	themes       map[string]string
	osDark       bool
	mediaMatched bool
	active       Stylesheet
	settings     *Settings
}

type config struct {
	reactive []reactive.Option
	catalog  *Catalog
	settings *Settings
	osDark   bool
}

// Option configures a Viewport.
type Option func(*config)

// WithReactiveOptions passes options to the underlying reactive.Reactive.
func WithReactiveOptions(opts ...reactive.Option) Option {
	return func(c *config) {
		c.reactive = append(c.reactive, opts...)
	}
}

// WithCatalog sets the theme catalog.
func WithCatalog(catalog *Catalog) Option {
	return func(c *config) {
		c.catalog = catalog
	}
}

// WithSettings sets the settings source.
func WithSettings(s *Settings) Option {
	return func(c *config) {
		c.settings = s
	}
}

// WithDarkPreference sets the operating system's color scheme preference,
// applied the first time themes are loaded.
func WithDarkPreference(dark bool) Option {
	return func(c *config) {
		c.osDark = dark
	}
}

// New declares the viewport properties. Declaration order matters: the
// computed properties read properties declared before them.
func New(opts ...Option) (*Viewport, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := reactive.New(append([]reactive.Option{reactive.WithName("Viewport")}, cfg.reactive...)...)
	v := &Viewport{
		Reactive: r,
		catalog:  cfg.catalog,
		settings: cfg.settings,
		osDark:   cfg.osDark,
		themes:   make(map[string]string),
	}
	if v.settings == nil {
		v.settings = &Settings{}
	}

	var err error
	if v.Width, err = reactive.NewProp(r, reactive.Mutable, "width", 0); err != nil {
		return nil, err
	}
	if v.Height, err = reactive.NewProp(r, reactive.Mutable, "height", 0); err != nil {
		return nil, err
	}
	if v.OSColorScheme, err = reactive.NewProp(r, reactive.Mutable, "osColorScheme", ""); err != nil {
		return nil, err
	}
	if v.ColorScheme, err = reactive.NewProp(r, reactive.SessionPersisted, "colorScheme", "auto"); err != nil {
		return nil, err
	}
	if v.Theme, err = reactive.NewProp(r, reactive.SessionPersisted, "theme", "convos"); err != nil {
		return nil, err
	}
	if v.Version, err = reactive.NewProp(r, reactive.DurablyPersisted, "version", ""); err != nil {
		return nil, err
	}

	options := [][2]string{{"auto", "Auto"}, {"light", "Light"}, {"dark", "Dark"}}
	if v.ColorSchemeOptions, err = reactive.NewProp(r, reactive.Volatile, "colorSchemeOptions", options); err != nil {
		return nil, err
	}
	if v.IsWide, err = reactive.NewComputed(r, "isWide", func() bool {
		return v.Width.Get() > wideThreshold
	}); err != nil {
		return nil, err
	}
	if v.ThemeOptions, err = reactive.NewComputed(r, "themeOptions", v.themeOptions); err != nil {
		return nil, err
	}
	return v, nil
}

// themeOptions returns (id, display name) pairs sorted by id.
func (v *Viewport) themeOptions() [][2]string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([][2]string, 0, len(v.themes))
	for _, id := range slices.Sorted(maps.Keys(v.themes)) {
		out = append(out, [2]string{id, v.themes[id]})
	}
	return out
}

// Catalog returns the current theme catalog.
func (v *Viewport) Catalog() *Catalog {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.catalog
}

// SetCatalog replaces the theme catalog and reloads the theme names.
func (v *Viewport) SetCatalog(c *Catalog) {
	v.mu.Lock()
	v.catalog = c
	v.mu.Unlock()
	v.LoadThemes()
}

// LoadThemes rebuilds the theme id to display name map from the catalog.
// The first call also records the operating system color scheme.
func (v *Viewport) LoadThemes() {
	v.mu.Lock()
	themes := make(map[string]string)
	if v.catalog != nil {
		for _, s := range v.catalog.Stylesheets {
			themes[s.Theme()] = s.DisplayName()
		}
	}
	v.themes = themes
	first := !v.mediaMatched
	v.mediaMatched = true
	dark := v.osDark
	v.mu.Unlock()

	slog.Debug("themes loaded", "count", len(themes))
	if first {
		v.Update(map[string]any{"osColorScheme": schemeName(dark)})
	}
}

// HasColorSchemes reports whether theme has more than one variant.
func (v *Viewport) HasColorSchemes(theme string) bool {
	return len(v.Catalog().Variants(theme)) > 1
}

// ActivateTheme selects the stylesheet for theme and scheme and stores both
// in the session. Empty arguments fall back to the current properties, and
// "auto" resolves to the operating system scheme. When no variant matches,
// the first stylesheet in the catalog is used; an empty catalog still
// updates the properties and returns ErrNoStylesheet.
func (v *Viewport) ActivateTheme(theme, scheme string) (Stylesheet, error) {
	v.mu.Lock()
	loaded := len(v.themes) > 0
	v.mu.Unlock()
	if !loaded {
		v.LoadThemes()
	}

	if theme == "" {
		theme = v.Theme.Get()
	}
	if scheme == "" {
		scheme = v.ColorScheme.Get()
	}

	preferred := scheme
	if scheme == "auto" {
		preferred = v.OSColorScheme.Get()
	}

	catalog := v.Catalog()
	var (
		selected Stylesheet
		found    bool
	)
	for _, candidate := range []string{preferred, "normal", "light"} {
		if selected, found = catalog.Lookup(StylesheetID(candidate, theme)); found {
			break
		}
	}
	if !found {
		selected, found = catalog.First()
	}

	v.mu.Lock()
	v.active = selected
	v.mu.Unlock()

	v.Update(map[string]any{"colorScheme": scheme, "theme": theme})

	if !found {
		return Stylesheet{}, ErrNoStylesheet
	}
	slog.Debug("theme activated", "theme", theme, "scheme", scheme, "stylesheet", selected.ID)
	return selected, nil
}

// Active returns the stylesheet chosen by the last ActivateTheme.
func (v *Viewport) Active() Stylesheet {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// SetOSColorScheme records a change of the operating system preference and
// re-activates the current theme.
func (v *Viewport) SetOSColorScheme(dark bool) (Stylesheet, error) {
	v.mu.Lock()
	v.osDark = dark
	v.mediaMatched = true
	v.mu.Unlock()

	v.Update(map[string]any{"osColorScheme": schemeName(dark)})
	return v.ActivateTheme("", "")
}

func schemeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
