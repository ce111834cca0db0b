package document_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/document"
	"github.com/frahmantamala/records-management/internal/organization"
)

func TestDocumentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Service Suite")
}

type mockDocumentRepository struct {
	documents map[int64]*document.Document

	allCalled               bool
	forAdministrationCalled bool
	forDepartmentCalled     bool
	forSectionCalled        bool
}

func newMockDocumentRepository() *mockDocumentRepository {
	return &mockDocumentRepository{documents: make(map[int64]*document.Document)}
}

func (m *mockDocumentRepository) GetByID(id int64) (*document.Document, error) {
	doc, ok := m.documents[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return doc, nil
}

func (m *mockDocumentRepository) All(limit, offset int) ([]*document.Document, error) {
	m.allCalled = true
	return nil, nil
}

func (m *mockDocumentRepository) ForAdministration(administrationID int64, limit, offset int) ([]*document.Document, error) {
	m.forAdministrationCalled = true
	return nil, nil
}

func (m *mockDocumentRepository) ForDepartment(administrationID, departmentID int64, limit, offset int) ([]*document.Document, error) {
	m.forDepartmentCalled = true
	return nil, nil
}

func (m *mockDocumentRepository) ForSection(administrationID, departmentID, sectionID int64, limit, offset int) ([]*document.Document, error) {
	m.forSectionCalled = true
	return nil, nil
}

func (m *mockDocumentRepository) GetDocumentType(id int64) (*document.DocumentType, error) {
	return nil, errors.New("not found")
}

func (m *mockDocumentRepository) ListDocumentTypes() ([]*document.DocumentType, error) {
	return nil, nil
}

func (m *mockDocumentRepository) CreateDocumentType(dt *document.DocumentType) error {
	return nil
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("DocumentService", func() {
	var (
		repo *mockDocumentRepository
		svc  *document.Service

		admin *organization.Administration
		deptA *organization.Department
		secA  *organization.Section
	)

	adminID := int64(1)

	BeforeEach(func() {
		repo = newMockDocumentRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = document.NewService(repo, logger)

		admin = &organization.Administration{ID: adminID, Kind: organization.KindMunicipalA}
		deptA = &organization.Department{ID: 10, Name: "Secretaria Geral", AdministrationID: &adminID}
		secA = &organization.Section{ID: 100, Name: "Seccao de Expediente", DepartmentID: deptA.ID, Department: deptA}
	})

	actorInDept := func(level string) *auth.Actor {
		return &auth.Actor{
			ID:               7,
			AccessLevel:      level,
			AdministrationID: &adminID,
			DepartmentID:     &deptA.ID,
			Administration:   admin,
			Department:       deptA,
		}
	}

	actorInSection := func(level string) *auth.Actor {
		a := actorInDept(level)
		a.SectionID = &secA.ID
		a.Section = secA
		return a
	}

	docAt := func(deptID int64, sectionID *int64) *document.Document {
		return &document.Document{
			ID:                  1,
			AdministrationID:    adminID,
			CurrentDepartmentID: deptID,
			CurrentSectionID:    sectionID,
		}
	}

	Describe("CanView", func() {
		It("denies a document belonging to another administration", func() {
			doc := &document.Document{ID: 1, AdministrationID: 99, CurrentDepartmentID: deptA.ID}

			Expect(document.CanView(actorInDept(auth.LevelClerk), doc)).To(BeFalse())
			Expect(document.CanView(actorInDept(auth.LevelMunicipalDirector), doc)).To(BeFalse())
		})

		It("lets elevated actors see the whole administration", func() {
			doc := docAt(999, nil)

			Expect(document.CanView(actorInDept(auth.LevelMunicipalDirector), doc)).To(BeTrue())
			Expect(document.CanView(actorInDept(auth.LevelClerk), doc)).To(BeFalse())
		})

		It("restricts a department actor to documents at its department", func() {
			Expect(document.CanView(actorInDept(auth.LevelClerk), docAt(deptA.ID, nil))).To(BeTrue())
			Expect(document.CanView(actorInDept(auth.LevelClerk), docAt(11, nil))).To(BeFalse())
		})

		It("restricts a section actor to its section or its department's desk", func() {
			actor := actorInSection(auth.LevelClerk)

			Expect(document.CanView(actor, docAt(deptA.ID, &secA.ID))).To(BeTrue())
			Expect(document.CanView(actor, docAt(deptA.ID, nil))).To(BeTrue())
			Expect(document.CanView(actor, docAt(deptA.ID, ptr(101)))).To(BeFalse())
		})

		It("lets the tenant-less superuser see everything", func() {
			root := &auth.Actor{ID: 1, AccessLevel: auth.LevelSystemAdmin}

			Expect(document.CanView(root, docAt(deptA.ID, nil))).To(BeTrue())
		})
	})

	Describe("GetDocument", func() {
		It("maps missing documents to the domain error", func() {
			_, err := svc.GetDocument(actorInDept(auth.LevelClerk), 42)

			Expect(err).To(MatchError(internal.ErrDocumentNotFound))
		})

		It("denies access before returning the document", func() {
			repo.documents[1] = docAt(11, nil)

			_, err := svc.GetDocument(actorInDept(auth.LevelClerk), 1)

			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})
	})

	Describe("ListForActor", func() {
		It("routes the superuser to the unscoped listing", func() {
			root := &auth.Actor{ID: 1, AccessLevel: auth.LevelSystemAdmin}

			_, err := svc.ListForActor(root, 10, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.allCalled).To(BeTrue())
		})

		It("routes elevated actors to the administration listing", func() {
			_, err := svc.ListForActor(actorInDept(auth.LevelMunicipalDirector), 10, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.forAdministrationCalled).To(BeTrue())
		})

		It("routes section actors to the section listing", func() {
			_, err := svc.ListForActor(actorInSection(auth.LevelClerk), 10, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.forSectionCalled).To(BeTrue())
		})

		It("routes department actors to the department listing", func() {
			_, err := svc.ListForActor(actorInDept(auth.LevelClerk), 10, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.forDepartmentCalled).To(BeTrue())
		})

		It("returns nothing for a non-superuser without a tenant", func() {
			orphan := &auth.Actor{ID: 2, AccessLevel: auth.LevelClerk}

			docs, err := svc.ListForActor(orphan, 10, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(docs).To(BeEmpty())
		})
	})
})
