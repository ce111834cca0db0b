package routing_test

import (
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/routing"
)

var _ = Describe("Validator", func() {
	var (
		dir       *mockDirectory
		validator *routing.Validator
	)

	BeforeEach(func() {
		dir = newFixtureDirectory()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		validator = routing.NewValidator(routing.NewResolver(dir, logger))
	})

	Describe("destination mutual exclusivity", func() {
		It("rejects an empty destination", func() {
			actor := dir.actorAt(ministryID, deptMinistryID, nil, auth.LevelTechnician)

			err := validator.ValidateDestination(actor, nil, nil)

			Expect(err).To(MatchError(internal.ErrNoDestinationGiven))
		})

		It("rejects a department and a section at once", func() {
			actor := dir.actorAt(ministryID, deptMinistryID, nil, auth.LevelTechnician)

			err := validator.ValidateDestination(actor, ptr(gsMinistryID), ptr(sectionExpID))

			Expect(err).To(MatchError(internal.ErrBothDestinationsGiven))
		})
	})

	Describe("membership in the permitted set", func() {
		It("accepts a permitted corridor department", func() {
			actor := dir.actorAt(ministryID, deptMinistryID, nil, auth.LevelTechnician)

			err := validator.ValidateDestination(actor, ptr(gsGovAileuID), nil)

			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a department outside the permitted set", func() {
			actor := dir.actorAt(ministryID, deptMinistryID, nil, auth.LevelTechnician)

			err := validator.ValidateDestination(actor, ptr(gsMunAileuID), nil)

			Expect(err).To(MatchError(internal.ErrDestinationNotPermitted))
		})

		It("rejects the actor's own department", func() {
			actor := dir.actorAt(ministryID, deptMinistryID, nil, auth.LevelTechnician)

			err := validator.ValidateDestination(actor, ptr(deptMinistryID), nil)

			Expect(err).To(MatchError(internal.ErrDestinationNotPermitted))
		})

		It("rejects a bare department for a section actor, its own included", func() {
			// With self excluded a section actor's department set is empty,
			// so routing back to the department desk always goes through a
			// sibling section, never the department itself.
			actor := dir.actorAt(ministryID, gsMinistryID, ptr(sectionExpID), auth.LevelClerk)

			err := validator.ValidateDestination(actor, ptr(gsMinistryID), nil)

			Expect(err).To(MatchError(internal.ErrDestinationNotPermitted))
		})

		It("accepts a sibling section for a section actor", func() {
			actor := dir.actorAt(ministryID, gsMinistryID, ptr(sectionExpID), auth.LevelClerk)

			err := validator.ValidateDestination(actor, nil, ptr(sectionArcID))

			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects the actor's own section", func() {
			actor := dir.actorAt(ministryID, gsMinistryID, ptr(sectionExpID), auth.LevelClerk)

			err := validator.ValidateDestination(actor, nil, ptr(sectionExpID))

			Expect(err).To(MatchError(internal.ErrDestinationNotPermitted))
		})

		It("rejects a section of a foreign department for a section actor", func() {
			actor := dir.actorAt(ministryID, gsMinistryID, ptr(sectionExpID), auth.LevelClerk)

			err := validator.ValidateDestination(actor, nil, ptr(sectionMunFinID))

			Expect(err).To(MatchError(internal.ErrDestinationNotPermitted))
		})
	})
})
