package routing

import (
	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
)

// Validator re-checks a proposed destination against the resolver's output.
// It must run server-side on every state-changing request: candidate lists
// shown to the client are a convenience, never an authorization.
type Validator struct {
	resolver *Resolver
}

func NewValidator(resolver *Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// ValidateDestination enforces that exactly one destination is supplied and
// that it is a member of the actor's permitted set (self excluded).
func (v *Validator) ValidateDestination(actor *auth.Actor, departmentID, sectionID *int64) error {
	if departmentID == nil && sectionID == nil {
		return internal.ErrNoDestinationGiven
	}
	if departmentID != nil && sectionID != nil {
		return internal.ErrBothDestinationsGiven
	}

	dests, err := v.resolver.Resolve(actor, ResolveOptions{IncludeSelf: false})
	if err != nil {
		return err
	}

	if departmentID != nil {
		for _, d := range dests.Departments {
			if d.ID == *departmentID {
				return nil
			}
		}
		return internal.ErrDestinationNotPermitted
	}

	for _, s := range dests.Sections {
		if s.ID == *sectionID {
			return nil
		}
	}
	return internal.ErrDestinationNotPermitted
}
