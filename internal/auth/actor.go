package auth

import (
	"context"

	"github.com/frahmantamala/records-management/internal/organization"
)

// Access levels, from the administrative setup. The first four may despatch,
// finalize and see every document of their administration.
const (
	LevelSystemAdmin       = "system_admin"
	LevelMunicipalAdmin    = "municipal_admin"
	LevelMunicipalDirector = "municipal_director"
	LevelCabinetChief      = "cabinet_chief"
	LevelSectionChief      = "section_chief"
	LevelSupervisor        = "supervisor"
	LevelTechnician        = "technician"
	LevelClerk             = "clerk"
	LevelOperator          = "operator"
)

var elevatedLevels = []string{
	LevelSystemAdmin,
	LevelMunicipalAdmin,
	LevelMunicipalDirector,
	LevelCabinetChief,
}

// Actor is the authenticated user plus its resolved position in the
// organizational hierarchy. The position (administration, department,
// section) comes from the identity layer on every request and is the sole
// input to destination resolution; client-supplied ids are never trusted.
type Actor struct {
	ID               int64    `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	AccessLevel      string   `json:"access_level"`
	AdministrationID *int64   `json:"administration_id,omitempty"`
	DepartmentID     *int64   `json:"department_id,omitempty"`
	SectionID        *int64   `json:"section_id,omitempty"`
	Permissions      []string `json:"permissions,omitempty"`

	Administration *organization.Administration `json:"-"`
	Department     *organization.Department     `json:"-"`
	Section        *organization.Section        `json:"-"`
}

// InSection reports whether the actor's effective position is inside a section.
func (a *Actor) InSection() bool {
	return a.Section != nil
}

// EffectiveDepartment is the section's department when a section is set,
// otherwise the directly assigned department.
func (a *Actor) EffectiveDepartment() *organization.Department {
	if a.Section != nil && a.Section.Department != nil {
		return a.Section.Department
	}
	return a.Department
}

// IsSuperuser reports whether the actor may bypass tenant isolation entirely.
// Only system administrators without an administration binding qualify.
func (a *Actor) IsSuperuser() bool {
	return a.AccessLevel == LevelSystemAdmin
}

// IsElevated reports whether the actor holds one of the administrator levels
// that can despatch, finalize and confirm on behalf of any unit of its tenant.
func (a *Actor) IsElevated() bool {
	for _, level := range elevatedLevels {
		if a.AccessLevel == level {
			return true
		}
	}
	return false
}

func (a *Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type actorCtxKey string

// ContextActorKey carries the authenticated actor through the request context.
const ContextActorKey actorCtxKey = "actor"

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(ContextActorKey).(*Actor)
	return actor, ok && actor != nil
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}
