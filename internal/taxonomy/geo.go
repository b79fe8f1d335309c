package taxonomy

import "strings"

// State is one US state (or DC) with its 2-letter code, full name, and the
// name rendered as a URL slug.
type State struct {
	Code string
	Name string
	Slug string
}

var states = []State{
	{"AL", "Alabama", "alabama"},
	{"AK", "Alaska", "alaska"},
	{"AZ", "Arizona", "arizona"},
	{"AR", "Arkansas", "arkansas"},
	{"CA", "California", "california"},
	{"CO", "Colorado", "colorado"},
	{"CT", "Connecticut", "connecticut"},
	{"DE", "Delaware", "delaware"},
	{"DC", "District of Columbia", "district-of-columbia"},
	{"FL", "Florida", "florida"},
	{"GA", "Georgia", "georgia"},
	{"HI", "Hawaii", "hawaii"},
	{"ID", "Idaho", "idaho"},
	{"IL", "Illinois", "illinois"},
	{"IN", "Indiana", "indiana"},
	{"IA", "Iowa", "iowa"},
	{"KS", "Kansas", "kansas"},
	{"KY", "Kentucky", "kentucky"},
	{"LA", "Louisiana", "louisiana"},
	{"ME", "Maine", "maine"},
	{"MD", "Maryland", "maryland"},
	{"MA", "Massachusetts", "massachusetts"},
	{"MI", "Michigan", "michigan"},
	{"MN", "Minnesota", "minnesota"},
	{"MS", "Mississippi", "mississippi"},
	{"MO", "Missouri", "missouri"},
	{"MT", "Montana", "montana"},
	{"NE", "Nebraska", "nebraska"},
	{"NV", "Nevada", "nevada"},
	{"NH", "New Hampshire", "new-hampshire"},
	{"NJ", "New Jersey", "new-jersey"},
	{"NM", "New Mexico", "new-mexico"},
	{"NY", "New York", "new-york"},
	{"NC", "North Carolina", "north-carolina"},
	{"ND", "North Dakota", "north-dakota"},
	{"OH", "Ohio", "ohio"},
	{"OK", "Oklahoma", "oklahoma"},
	{"OR", "Oregon", "oregon"},
	{"PA", "Pennsylvania", "pennsylvania"},
	{"RI", "Rhode Island", "rhode-island"},
	{"SC", "South Carolina", "south-carolina"},
	{"SD", "South Dakota", "south-dakota"},
	{"TN", "Tennessee", "tennessee"},
	{"TX", "Texas", "texas"},
	{"UT", "Utah", "utah"},
	{"VT", "Vermont", "vermont"},
	{"VA", "Virginia", "virginia"},
	{"WA", "Washington", "washington"},
	{"WV", "West Virginia", "west-virginia"},
	{"WI", "Wisconsin", "wisconsin"},
	{"WY", "Wyoming", "wyoming"},
}

var (
	statesByCode = func() map[string]State {
		m := make(map[string]State, len(states))
		for _, s := range states {
			m[s.Code] = s
		}
		return m
	}()
	statesBySlug = func() map[string]State {
		m := make(map[string]State, len(states))
		for _, s := range states {
			m[s.Slug] = s
		}
		return m
	}()
)

// States returns all supported states in alphabetical order.
func States() []State { return states }

// StateByCode looks up a state by its 2-letter code, case-insensitively.
func StateByCode(code string) (State, bool) {
	s, ok := statesByCode[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}

// StateBySlug looks up a state by its name slug.
func StateBySlug(slug string) (State, bool) {
	s, ok := statesBySlug[strings.ToLower(strings.TrimSpace(slug))]
	return s, ok
}

// ResolveStateSegment decides whether a URL path segment denotes a state.
// A 2-character segment is matched exactly against the code table. Longer
// segments are matched against the state-name slug list, but only when they
// contain at most two hyphens: no state name runs past three words, so a
// segment like "salt-lake-city-north" can be rejected without a table scan.
// This is a best-effort heuristic for the listing grammar, not a parser.
func ResolveStateSegment(segment string) (State, bool) {
	seg := strings.ToLower(strings.TrimSpace(segment))
	if len(seg) == 2 {
		return StateByCode(seg)
	}
	if strings.Count(seg, "-") > 2 {
		return State{}, false
	}
	return StateBySlug(seg)
}

// CityDisplay renders a city slug back into a display name
// ("winston-salem" -> "Winston Salem"). City names are open vocabulary;
// the store is the source of truth for the exact form.
func CityDisplay(slug string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(slug)), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
