package taxonomy

import (
	"fmt"
	"strings"
)

// Value is a single canonical entry in a dimension's vocabulary.
// Display is the authoritative form shown to users, Slug is its URL
// identifier, and DBValues are the raw variants the job store may hold
// for it (the first entry is the primary store form).
type Value struct {
	Display  string
	Slug     string
	DBValues []string
}

// Dimension is a closed vocabulary for one job attribute (specialty,
// job type, shift type, experience level). It is immutable after
// construction.
type Dimension struct {
	name      string
	values    []Value
	byAlias   map[string]string
	bySlug    map[string]int
	byDisplay map[string]int
}

// NewDimension builds a Dimension from an ordered canonical value list and
// an alias table (raw string -> canonical display, matched case-insensitively).
// Every DBValue is indexed as an alias of its own canonical value, so filter
// construction and count merging share one authoritative variant set.
func NewDimension(name string, values []Value, aliases map[string]string) (*Dimension, error) {
	d := &Dimension{
		name:      name,
		values:    values,
		byAlias:   make(map[string]string),
		bySlug:    make(map[string]int),
		byDisplay: make(map[string]int),
	}

	for i, v := range values {
		if v.Display == "" || v.Slug == "" {
			return nil, fmt.Errorf("dimension %s: value %d has empty display or slug", name, i)
		}
		if _, dup := d.bySlug[v.Slug]; dup {
			return nil, fmt.Errorf("dimension %s: duplicate slug %q", name, v.Slug)
		}
		if _, dup := d.byDisplay[v.Display]; dup {
			return nil, fmt.Errorf("dimension %s: duplicate display %q", name, v.Display)
		}
		d.bySlug[v.Slug] = i
		d.byDisplay[v.Display] = i

		for _, raw := range v.DBValues {
			d.byAlias[cleanKey(raw)] = v.Display
		}
	}

	for raw, display := range aliases {
		if _, ok := d.byDisplay[display]; !ok {
			return nil, fmt.Errorf("dimension %s: alias %q maps to unknown value %q", name, raw, display)
		}
		d.byAlias[cleanKey(raw)] = display
	}

	return d, nil
}

// Name returns the dimension name (e.g. "specialty").
func (d *Dimension) Name() string { return d.name }

// Values returns the canonical values in their defined order.
func (d *Dimension) Values() []Value { return d.values }

// Normalize resolves a raw string to its canonical display form. Matching is
// case-insensitive and whitespace-trimmed: the alias table is consulted first,
// then the canonical list itself. When neither matches, the cleaned input is
// returned unchanged. Callers that need a closed vocabulary must check the
// result with Slug.
func (d *Dimension) Normalize(raw string) string {
	cleaned := strings.TrimSpace(raw)
	key := strings.ToLower(cleaned)

	if display, ok := d.byAlias[key]; ok {
		return display
	}
	for _, v := range d.values {
		if strings.ToLower(v.Display) == key {
			return v.Display
		}
	}
	return cleaned
}

// Slug returns the URL slug for a canonical display value.
func (d *Dimension) Slug(display string) (string, bool) {
	i, ok := d.byDisplay[display]
	if !ok {
		return "", false
	}
	return d.values[i].Slug, true
}

// DisplayForSlug returns the canonical display value for a slug.
func (d *Dimension) DisplayForSlug(slug string) (string, bool) {
	i, ok := d.bySlug[slug]
	if !ok {
		return "", false
	}
	return d.values[i].Display, true
}

// DBValues returns the raw store variants for a canonical display value.
// Filters over this dimension must OR across the whole set.
func (d *Dimension) DBValues(display string) []string {
	i, ok := d.byDisplay[display]
	if !ok {
		return nil
	}
	return d.values[i].DBValues
}

// IsValidSlug reports whether slug identifies a canonical value.
func (d *Dimension) IsValidSlug(slug string) bool {
	_, ok := d.bySlug[slug]
	return ok
}

func cleanKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slugify converts an arbitrary display string to a URL slug. Used for
// values that sit outside the closed vocabularies (cities, pass-through
// facet buckets).
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
