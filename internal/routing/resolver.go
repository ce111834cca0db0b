package routing

import (
	"log/slog"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/organization"
)

// Directory is the slice of organization data the resolver reads. It is
// implemented by the organization repository.
type Directory interface {
	DepartmentsOwnedBy(administrationID int64) ([]*organization.Department, error)
	UnitsVisibleTo(administrationID int64, kind string) ([]*organization.Department, error)
	SectionsForDepartment(departmentID int64) ([]*organization.Section, error)

	GovernmentGeneralSecretariats() ([]*organization.Department, error)
	MinistryGeneralSecretariats() ([]*organization.Department, error)
	MunicipalGeneralSecretariatsInProvince(province string) ([]*organization.Department, error)
	GovernmentGeneralSecretariatsInProvince(province string) ([]*organization.Department, error)

	AllDepartments() ([]*organization.Department, error)
	AllSections() ([]*organization.Section, error)
}

// Destinations is the candidate set an actor may route a document to.
// SectionsFixed distinguishes the two picker behaviors: a department-scoped
// actor's section list is always its own department's sections, regardless of
// which destination department is selected; a section-scoped actor's section
// list is tied to its single permitted department.
type Destinations struct {
	Departments   []*organization.Department `json:"departments"`
	Sections      []*organization.Section    `json:"sections"`
	SectionsFixed bool                       `json:"sections_fixed"`
}

// ResolveOptions control self-exclusion. Pickers that pre-select the actor's
// current unit want IncludeSelf; validation never does.
type ResolveOptions struct {
	IncludeSelf bool
}

// Resolver computes, for an actor's position in the hierarchy, the
// departments and sections it may legally forward a document to. All
// tenant-isolation and corridor rules live here; the validator re-runs the
// same computation at commit time.
type Resolver struct {
	dir    Directory
	logger *slog.Logger
}

func NewResolver(dir Directory, logger *slog.Logger) *Resolver {
	return &Resolver{dir: dir, logger: logger}
}

func (r *Resolver) Resolve(actor *auth.Actor, opts ResolveOptions) (*Destinations, error) {
	if actor == nil {
		return &Destinations{}, nil
	}

	if actor.Administration == nil {
		return r.resolveWithoutTenant(actor, opts)
	}

	base, err := r.baseDepartments(actor)
	if err != nil {
		return nil, err
	}

	if actor.InSection() {
		return r.sectionScenario(actor, base, opts)
	}
	return r.departmentScenario(actor, base, opts)
}

// resolveWithoutTenant handles actors with no administration. Only the
// superuser role may see across tenants; everyone else gets empty sets.
func (r *Resolver) resolveWithoutTenant(actor *auth.Actor, opts ResolveOptions) (*Destinations, error) {
	if !actor.IsSuperuser() {
		return &Destinations{}, nil
	}

	depts, err := r.dir.AllDepartments()
	if err != nil {
		return nil, err
	}
	sections, err := r.dir.AllSections()
	if err != nil {
		return nil, err
	}

	if !opts.IncludeSelf {
		if dept := actor.EffectiveDepartment(); dept != nil {
			depts = excludeDepartment(depts, dept.ID)
		}
		if actor.Section != nil {
			sections = excludeSection(sections, actor.Section.ID)
		}
	}

	return &Destinations{Departments: depts, Sections: sections}, nil
}

// baseDepartments computes the pre-restriction candidate set from the
// actor's tenant kind. This is where the three sanctioned cross-tenant
// corridors are opened; every other pairing stays isolated.
func (r *Resolver) baseDepartments(actor *auth.Actor) ([]*organization.Department, error) {
	admin := actor.Administration

	switch {
	case admin.IsMinistry():
		// Ministry reaches the general secretariat of every provincial government.
		own, err := r.dir.DepartmentsOwnedBy(admin.ID)
		if err != nil {
			return nil, err
		}
		corridors, err := r.dir.GovernmentGeneralSecretariats()
		if err != nil {
			return nil, err
		}
		return mergeDepartments(own, corridors), nil

	case admin.IsGovernment():
		// Provincial government reaches the general secretariats of its own
		// province's municipal administrations and of the ministry.
		own, err := r.dir.DepartmentsOwnedBy(admin.ID)
		if err != nil {
			return nil, err
		}
		municipal, err := r.dir.MunicipalGeneralSecretariatsInProvince(admin.Province)
		if err != nil {
			return nil, err
		}
		ministry, err := r.dir.MinistryGeneralSecretariats()
		if err != nil {
			return nil, err
		}
		return mergeDepartments(own, municipal, ministry), nil

	case actorInGeneralSecretariat(actor):
		// A municipal general secretariat reaches its province's government
		// general secretariat, if that government exists.
		own, err := r.dir.DepartmentsOwnedBy(admin.ID)
		if err != nil {
			return nil, err
		}
		government, err := r.dir.GovernmentGeneralSecretariatsInProvince(admin.Province)
		if err != nil {
			return nil, err
		}
		return mergeDepartments(own, government), nil

	default:
		return r.dir.UnitsVisibleTo(admin.ID, admin.Kind)
	}
}

func actorInGeneralSecretariat(actor *auth.Actor) bool {
	dept := actor.EffectiveDepartment()
	return dept != nil && dept.IsGeneralSecretariat()
}

// sectionScenario: the actor cannot leave its department at department
// granularity. Candidate departments collapse to the parent department (or
// nothing, once self is excluded) and candidate sections are the sibling
// sections of the actor's own.
func (r *Resolver) sectionScenario(actor *auth.Actor, base []*organization.Department, opts ResolveOptions) (*Destinations, error) {
	dept := actor.EffectiveDepartment()

	var depts []*organization.Department
	if opts.IncludeSelf && dept != nil {
		for _, d := range base {
			if d.ID == dept.ID {
				depts = append(depts, d)
				break
			}
		}
	}

	var sections []*organization.Section
	if dept != nil {
		all, err := r.dir.SectionsForDepartment(dept.ID)
		if err != nil {
			return nil, err
		}
		sections = excludeSection(all, actor.Section.ID)
	}

	return &Destinations{
		Departments:   depts,
		Sections:      sections,
		SectionsFixed: false,
	}, nil
}

// departmentScenario: the full base set is selectable, while the section
// list stays pinned to the actor's own department. The pinned list only
// exists when that department is bound to the actor's administration;
// generic templates carry no sections of their own.
func (r *Resolver) departmentScenario(actor *auth.Actor, base []*organization.Department, opts ResolveOptions) (*Destinations, error) {
	dept := actor.EffectiveDepartment()

	depts := base
	if !opts.IncludeSelf && dept != nil {
		depts = excludeDepartment(depts, dept.ID)
	}

	var sections []*organization.Section
	if dept != nil && dept.AdministrationID != nil && actor.Administration != nil &&
		*dept.AdministrationID == actor.Administration.ID {
		all, err := r.dir.SectionsForDepartment(dept.ID)
		if err != nil {
			return nil, err
		}
		sections = all
	}

	return &Destinations{
		Departments:   depts,
		Sections:      sections,
		SectionsFixed: true,
	}, nil
}

// SectionsForDepartment returns the picker options for one destination
// department, re-validating that the department is a permitted destination
// for the actor before revealing anything about it.
func (r *Resolver) SectionsForDepartment(actor *auth.Actor, departmentID int64) ([]*organization.Section, error) {
	dests, err := r.Resolve(actor, ResolveOptions{IncludeSelf: false})
	if err != nil {
		return nil, err
	}

	permitted := false
	for _, d := range dests.Departments {
		if d.ID == departmentID {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, nil
	}

	return r.dir.SectionsForDepartment(departmentID)
}

func mergeDepartments(sets ...[]*organization.Department) []*organization.Department {
	seen := make(map[int64]bool)
	var merged []*organization.Department
	for _, set := range sets {
		for _, d := range set {
			if !seen[d.ID] {
				seen[d.ID] = true
				merged = append(merged, d)
			}
		}
	}
	return merged
}

func excludeDepartment(depts []*organization.Department, id int64) []*organization.Department {
	out := make([]*organization.Department, 0, len(depts))
	for _, d := range depts {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

func excludeSection(sections []*organization.Section, id int64) []*organization.Section {
	out := make([]*organization.Section, 0, len(sections))
	for _, s := range sections {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
