package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nursenav/listings-be/internal/listing/model"
	"github.com/nursenav/listings-be/internal/taxonomy"
)

// Prober answers the lightweight existence checks the resolver issues before
// declaring a syntactically valid combination not-found. Cities and employers
// are open vocabularies, so only the store can tell a real one from noise.
type Prober interface {
	LocationExists(ctx context.Context, stateCode, city string) (bool, error)
	EmployerBySlug(ctx context.Context, slug string) (*model.Employer, error)
}

// bonusSegment is the literal path segment for sign-on-bonus pages.
const bonusSegment = "sign-on-bonus"

// employerSegment prefixes employer-scoped listing paths.
const employerSegment = "employer"

// Resolver turns listing-page path segments into a FilterContext. A nil
// context with a nil error means "not found"; errors are store failures and
// propagate untouched.
type Resolver struct {
	reg          *taxonomy.Registry
	prober       Prober
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

// NewResolver builds a Resolver. defaultLimit and maxLimit guard page sizes
// the same way for every page type.
func NewResolver(reg *taxonomy.Registry, prober Prober, defaultLimit, maxLimit int, logger *slog.Logger) *Resolver {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Resolver{
		reg:          reg,
		prober:       prober,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

func (r *Resolver) paging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = r.defaultLimit
	}
	if limit > r.maxLimit {
		limit = r.maxLimit
	}
	return page, limit
}

// AllJobsPage resolves the root listing page (no constraints).
func (r *Resolver) AllJobsPage(page, limit int) *FilterContext {
	f := &FilterContext{}
	f.Page, f.Limit = r.paging(page, limit)
	return f
}

// StatePage resolves a state-level page from a geography segment.
func (r *Resolver) StatePage(segment string, page, limit int) *FilterContext {
	state, ok := taxonomy.ResolveStateSegment(segment)
	if !ok {
		return nil
	}
	f := &FilterContext{StateCode: state.Code}
	f.Page, f.Limit = r.paging(page, limit)
	return f
}

// CityPage resolves a city page. The city slug is an open vocabulary, so a
// store probe decides whether the (state, city) pair has ever existed.
func (r *Resolver) CityPage(ctx context.Context, stateSegment, citySlug string, page, limit int) (*FilterContext, error) {
	state, ok := taxonomy.ResolveStateSegment(stateSegment)
	if !ok {
		return nil, nil
	}
	city := taxonomy.CityDisplay(citySlug)
	exists, err := r.prober.LocationExists(ctx, state.Code, city)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	f := &FilterContext{StateCode: state.Code, City: city}
	f.Page, f.Limit = r.paging(page, limit)
	return f, nil
}

// SpecialtyPage resolves a nationwide specialty page. Specialty slugs are a
// closed vocabulary: an invalid slug is not-found with no store call.
func (r *Resolver) SpecialtyPage(slug string, page, limit int) *FilterContext {
	return r.dimensionPage(r.reg.Specialties, slug, page, limit)
}

// JobTypePage resolves a nationwide job-type page.
func (r *Resolver) JobTypePage(slug string, page, limit int) *FilterContext {
	return r.dimensionPage(r.reg.JobTypes, slug, page, limit)
}

// ShiftPage resolves a nationwide shift page.
func (r *Resolver) ShiftPage(slug string, page, limit int) *FilterContext {
	return r.dimensionPage(r.reg.Shifts, slug, page, limit)
}

// ExperiencePage resolves a nationwide experience-level page.
func (r *Resolver) ExperiencePage(slug string, page, limit int) *FilterContext {
	return r.dimensionPage(r.reg.ExperienceLevels, slug, page, limit)
}

func (r *Resolver) dimensionPage(dim *taxonomy.Dimension, slug string, page, limit int) *FilterContext {
	if !dim.IsValidSlug(slug) {
		return nil
	}
	display, _ := dim.DisplayForSlug(slug)
	f := &FilterContext{}
	setDimension(f, dim.Name(), display)
	f.Page, f.Limit = r.paging(page, limit)
	return f
}

// StateSpecialtyPage resolves a state × specialty page.
func (r *Resolver) StateSpecialtyPage(stateSegment, specialtySlug string, page, limit int) *FilterContext {
	state, ok := taxonomy.ResolveStateSegment(stateSegment)
	if !ok {
		return nil
	}
	if !r.reg.Specialties.IsValidSlug(specialtySlug) {
		return nil
	}
	display, _ := r.reg.Specialties.DisplayForSlug(specialtySlug)
	f := &FilterContext{StateCode: state.Code, Specialty: display}
	f.Page, f.Limit = r.paging(page, limit)
	return f
}

// CitySpecialtyPage resolves a city × specialty page.
func (r *Resolver) CitySpecialtyPage(ctx context.Context, stateSegment, citySlug, specialtySlug string, page, limit int) (*FilterContext, error) {
	if !r.reg.Specialties.IsValidSlug(specialtySlug) {
		return nil, nil
	}
	f, err := r.CityPage(ctx, stateSegment, citySlug, page, limit)
	if err != nil || f == nil {
		return f, err
	}
	display, _ := r.reg.Specialties.DisplayForSlug(specialtySlug)
	f.Specialty = display
	return f, nil
}

// EmployerPage resolves an employer-scoped page. The employer slug is open
// vocabulary; an unknown slug is not-found.
func (r *Resolver) EmployerPage(ctx context.Context, employerSlug string, page, limit int) (*FilterContext, error) {
	emp, err := r.prober.EmployerBySlug(ctx, employerSlug)
	if err != nil {
		if errors.Is(err, model.ErrEmployerNotFound) {
			return nil, nil
		}
		return nil, err
	}
	f := &FilterContext{EmployerID: emp.ID, EmployerSlug: emp.Slug}
	f.Page, f.Limit = r.paging(page, limit)
	return f, nil
}

// SignOnBonusPage resolves the nationwide sign-on-bonus page.
func (r *Resolver) SignOnBonusPage(page, limit int) *FilterContext {
	f := &FilterContext{SignOnBonus: true}
	f.Page, f.Limit = r.paging(page, limit)
	return f
}

// ResolvePath resolves an ordered list of path segments against the full
// listing grammar: optional geography (state, then city), then up to one slug
// per taxonomy dimension in any order, the sign-on-bonus flag segment, and
// the employer/{slug} prefix. Any segment that resolves to nothing makes the
// whole path not-found, with no job query issued.
func (r *Resolver) ResolvePath(ctx context.Context, segments []string, page, limit int) (*FilterContext, error) {
	f := &FilterContext{}
	f.Page, f.Limit = r.paging(page, limit)

	segs := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s != "" {
			segs = append(segs, s)
		}
	}

	// Employer prefix consumes exactly two segments.
	if len(segs) > 0 && segs[0] == employerSegment {
		if len(segs) < 2 {
			return nil, nil
		}
		emp, err := r.prober.EmployerBySlug(ctx, segs[1])
		if err != nil {
			if errors.Is(err, model.ErrEmployerNotFound) {
				return nil, nil
			}
			return nil, err
		}
		f.EmployerID = emp.ID
		f.EmployerSlug = emp.Slug
		segs = segs[2:]
	}

	// Optional geography: a leading state segment, optionally followed by a
	// city slug. A city candidate is any segment right after the state that
	// is not a taxonomy slug and not the bonus flag; the store probe decides
	// whether it is real.
	if len(segs) > 0 {
		if state, ok := taxonomy.ResolveStateSegment(segs[0]); ok {
			f.StateCode = state.Code
			segs = segs[1:]

			if len(segs) > 0 && !r.isTaxonomySegment(segs[0]) && segs[0] != bonusSegment {
				city := taxonomy.CityDisplay(segs[0])
				exists, err := r.prober.LocationExists(ctx, state.Code, city)
				if err != nil {
					return nil, err
				}
				if !exists {
					return nil, nil
				}
				f.City = city
				segs = segs[1:]
			}
		}
	}

	// Remaining segments: one slug per dimension, plus the bonus flag.
	for _, seg := range segs {
		if seg == bonusSegment {
			if f.SignOnBonus {
				return nil, nil
			}
			f.SignOnBonus = true
			continue
		}
		dim := r.dimensionForSlug(seg)
		if dim == nil {
			if r.logger != nil {
				r.logger.Debug("Unresolvable path segment",
					slog.String("segment", seg),
				)
			}
			return nil, nil
		}
		if f.Selected(dim.Name()) != "" {
			// Same dimension constrained twice is not a page we generate.
			return nil, nil
		}
		display, _ := dim.DisplayForSlug(seg)
		setDimension(f, dim.Name(), display)
	}

	return f, nil
}

func (r *Resolver) isTaxonomySegment(seg string) bool {
	return r.dimensionForSlug(seg) != nil
}

func (r *Resolver) dimensionForSlug(seg string) *taxonomy.Dimension {
	for _, dim := range []*taxonomy.Dimension{
		r.reg.Specialties,
		r.reg.JobTypes,
		r.reg.Shifts,
		r.reg.ExperienceLevels,
	} {
		if dim.IsValidSlug(seg) {
			return dim
		}
	}
	return nil
}

func setDimension(f *FilterContext, name, display string) {
	switch name {
	case taxonomy.DimSpecialty:
		f.Specialty = display
	case taxonomy.DimJobType:
		f.JobType = display
	case taxonomy.DimShiftType:
		f.ShiftType = display
	case taxonomy.DimExperienceLevel:
		f.ExperienceLevel = display
	}
}
