package viewport

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

const stylesheetPrefix = "theme_alt__"

var (
	stylesheetID = regexp.MustCompile(`^theme_alt__([a-z]+)-(.+)$`)
	schemeSuffix = regexp.MustCompile(`\s\([a-z]+\)$`)
)

// Stylesheet is one variant of a theme.
type Stylesheet struct {
	ID    string `json:"id"`
	Href  string `json:"href"`
	Title string `json:"title"`
}

// Scheme returns the color scheme part of the id.
func (s Stylesheet) Scheme() string {
	if m := stylesheetID.FindStringSubmatch(s.ID); m != nil {
		return m[1]
	}
	return ""
}

// Theme returns the theme part of the id.
func (s Stylesheet) Theme() string {
	if m := stylesheetID.FindStringSubmatch(s.ID); m != nil {
		return m[2]
	}
	return s.ID
}

// DisplayName returns the title without a trailing " (scheme)".
func (s Stylesheet) DisplayName() string {
	return schemeSuffix.ReplaceAllString(s.Title, "")
}

// StylesheetID builds the id of a theme variant.
func StylesheetID(scheme, theme string) string {
	return stylesheetPrefix + scheme + "-" + theme
}

// Catalog lists the available stylesheets in declaration order.
type Catalog struct {
	Stylesheets []Stylesheet `json:"themes"`
}

// LoadCatalog reads and validates a CUE catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(path, data)
}

// ParseCatalog validates data against the #Theme schema and decodes it.
// Stylesheet ids must be unique.
func ParseCatalog(filename string, data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var c Catalog
	if err := unified.Decode(&c); err != nil {
		return nil, formatCUEError(err)
	}

	seen := make(map[string]bool, len(c.Stylesheets))
	for _, s := range c.Stylesheets {
		if seen[s.ID] {
			return nil, &CatalogError{
				Field:   "themes",
				Message: fmt.Sprintf("duplicate stylesheet id %q", s.ID),
			}
		}
		seen[s.ID] = true
	}
	return &c, nil
}

// Lookup returns the stylesheet with the given id.
func (c *Catalog) Lookup(id string) (Stylesheet, bool) {
	if c == nil {
		return Stylesheet{}, false
	}
	for _, s := range c.Stylesheets {
		if s.ID == id {
			return s, true
		}
	}
	return Stylesheet{}, false
}

// Variants returns the stylesheets of one theme.
func (c *Catalog) Variants(theme string) []Stylesheet {
	if c == nil {
		return nil
	}
	var out []Stylesheet
	for _, s := range c.Stylesheets {
		if strings.HasSuffix(s.ID, "-"+theme) {
			out = append(out, s)
		}
	}
	return out
}

// First returns the first stylesheet, the fallback when no variant matches.
func (c *Catalog) First() (Stylesheet, bool) {
	if c == nil || len(c.Stylesheets) == 0 {
		return Stylesheet{}, false
	}
	return c.Stylesheets[0], true
}
