package query

// FilterContext is the resolved, immutable set of constraints for one listing
// page. Taxonomy fields hold canonical display values (never slugs, never raw
// store variants); the store expands them to variant sets when building SQL.
// Zero values mean "no constraint on this dimension".
type FilterContext struct {
	StateCode       string
	City            string
	Specialty       string
	JobType         string
	ShiftType       string
	ExperienceLevel string
	EmployerID      int64
	EmployerSlug    string
	SignOnBonus     bool

	Page  int
	Limit int
}

// Offset returns the row offset for the requested page.
func (f FilterContext) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Selected returns the canonical value pinned for a dimension name, or ""
// when the dimension is unconstrained. Facet computation uses this to drop
// the already-selected bucket.
func (f FilterContext) Selected(dimension string) string {
	switch dimension {
	case "specialty":
		return f.Specialty
	case "job_type":
		return f.JobType
	case "shift_type":
		return f.ShiftType
	case "experience_level":
		return f.ExperienceLevel
	default:
		return ""
	}
}
