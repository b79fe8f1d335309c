package taxonomy

import "fmt"

// Registry holds the dimension vocabularies for one deployment. It is built
// once at startup and passed explicitly into the resolver and aggregator, so
// tests can swap in reduced taxonomies.
type Registry struct {
	Specialties      *Dimension
	JobTypes         *Dimension
	Shifts           *Dimension
	ExperienceLevels *Dimension
}

// NewRegistry validates and assembles a registry from four dimensions.
func NewRegistry(specialties, jobTypes, shifts, experience *Dimension) (*Registry, error) {
	for _, d := range []*Dimension{specialties, jobTypes, shifts, experience} {
		if d == nil {
			return nil, fmt.Errorf("registry requires all four dimensions")
		}
	}
	return &Registry{
		Specialties:      specialties,
		JobTypes:         jobTypes,
		Shifts:           shifts,
		ExperienceLevels: experience,
	}, nil
}

// Default builds the production registry from the built-in vocabulary tables.
func Default() (*Registry, error) {
	specialties, err := NewDimension(DimSpecialty, specialtyValues, specialtyAliases)
	if err != nil {
		return nil, err
	}
	jobTypes, err := NewDimension(DimJobType, jobTypeValues, jobTypeAliases)
	if err != nil {
		return nil, err
	}
	shifts, err := NewDimension(DimShiftType, shiftValues, shiftAliases)
	if err != nil {
		return nil, err
	}
	experience, err := NewDimension(DimExperienceLevel, experienceValues, experienceAliases)
	if err != nil {
		return nil, err
	}
	return NewRegistry(specialties, jobTypes, shifts, experience)
}

// Dimension returns the dimension registered under name, or nil.
func (r *Registry) Dimension(name string) *Dimension {
	switch name {
	case DimSpecialty:
		return r.Specialties
	case DimJobType:
		return r.JobTypes
	case DimShiftType:
		return r.Shifts
	case DimExperienceLevel:
		return r.ExperienceLevels
	default:
		return nil
	}
}
