package postgres

import (
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/document"
	"github.com/frahmantamala/records-management/internal/movement"
)

func TestMovementRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MovementRepository Suite")
}

// sqlite mirrors of the persisted models, without the postgres column
// defaults.
type SQLiteDocument struct {
	ID                  int64  `gorm:"primaryKey"`
	ProtocolNumber      string `gorm:"column:protocol_number"`
	Title               string `gorm:"not null"`
	Content             string `gorm:"column:content"`
	DocumentTypeID      int64  `gorm:"column:document_type_id"`
	Status              string `gorm:"column:status;default:created"`
	Priority            string `gorm:"column:priority;default:normal"`
	Confidentiality     string `gorm:"column:confidentiality;default:public"`
	SenderName          string `gorm:"column:sender_name"`
	SenderPhone         string `gorm:"column:sender_phone"`
	SenderEmail         string `gorm:"column:sender_email"`
	SenderOrigin        string `gorm:"column:sender_origin;default:individual"`
	OriginDepartmentID  int64  `gorm:"column:origin_department_id"`
	CurrentDepartmentID int64  `gorm:"column:current_department_id"`
	CurrentSectionID    *int64 `gorm:"column:current_section_id"`
	AdministrationID    int64  `gorm:"column:administration_id"`
	CreatedByID         int64  `gorm:"column:created_by_id"`
	Notes               string `gorm:"column:notes"`
	DueAt               *time.Time
	ConcludedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (SQLiteDocument) TableName() string {
	return "documents"
}

type SQLiteMovement struct {
	ID                      int64  `gorm:"primaryKey"`
	DocumentID              int64  `gorm:"column:document_id"`
	Seq                     int64  `gorm:"column:seq"`
	Kind                    string `gorm:"column:kind;default:forwarding"`
	OriginDepartmentID      *int64 `gorm:"column:origin_department_id"`
	OriginSectionID         *int64 `gorm:"column:origin_section_id"`
	DestinationDepartmentID *int64 `gorm:"column:destination_department_id"`
	DestinationSectionID    *int64 `gorm:"column:destination_section_id"`
	ActorID                 int64  `gorm:"column:actor_id"`
	Note                    string `gorm:"column:note"`
	Despatch                string `gorm:"column:despatch"`
	Confirmed               bool   `gorm:"column:confirmed;default:false"`
	ConfirmedByID           *int64 `gorm:"column:confirmed_by_id"`
	ConfirmedAt             *time.Time
	CreatedAt               time.Time
}

func (SQLiteMovement) TableName() string {
	return "movements"
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("MovementRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteDocument{}, &SQLiteMovement{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	newDocument := func() *document.Document {
		return &document.Document{
			Title:               "Requerimento de licenca",
			DocumentTypeID:      1,
			Status:              document.StatusCreated,
			OriginDepartmentID:  10,
			CurrentDepartmentID: 10,
			AdministrationID:    1,
			CreatedByID:         7,
		}
	}

	register := func() *document.Document {
		doc := newDocument()
		err := repo.CreateWithDocument(doc, func(doc *document.Document, seq int64) *movement.Movement {
			return &movement.Movement{
				DocumentID:         doc.ID,
				Seq:                seq,
				Kind:               movement.KindCreation,
				OriginDepartmentID: ptr(10),
				ActorID:            7,
				Confirmed:          true,
			}
		})
		Expect(err).NotTo(HaveOccurred())
		return doc
	}

	forwardTo := func(doc *document.Document, destDept, destSection *int64) *movement.Movement {
		mv, err := repo.AppendForDocument(doc.ID, func(doc *document.Document, seq int64) (*movement.Movement, error) {
			entry := &movement.Movement{
				DocumentID:              doc.ID,
				Seq:                     seq,
				Kind:                    movement.KindForwarding,
				OriginDepartmentID:      &doc.CurrentDepartmentID,
				OriginSectionID:         doc.CurrentSectionID,
				DestinationDepartmentID: destDept,
				DestinationSectionID:    destSection,
				ActorID:                 7,
			}
			if destDept != nil {
				doc.CurrentDepartmentID = *destDept
			}
			doc.CurrentSectionID = destSection
			doc.Status = document.StatusForwarded
			return entry, nil
		})
		Expect(err).NotTo(HaveOccurred())
		return mv
	}

	Describe("CreateWithDocument", func() {
		It("assigns the protocol number from the id and year", func() {
			doc := register()

			Expect(doc.ID).To(BeNumerically(">", 0))
			Expect(doc.ProtocolNumber).To(Equal(fmt.Sprintf("%d/%d", doc.ID, time.Now().Year())))

			history, err := repo.ListForDocument(doc.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(1))
			Expect(history[0].Seq).To(Equal(int64(1)))
			Expect(history[0].Kind).To(Equal(movement.KindCreation))
		})
	})

	Describe("AppendForDocument", func() {
		It("assigns gapless increasing sequence numbers", func() {
			doc := register()

			first := forwardTo(doc, ptr(20), nil)
			second := forwardTo(doc, ptr(30), nil)

			Expect(first.Seq).To(Equal(int64(2)))
			Expect(second.Seq).To(Equal(int64(3)))
		})

		It("persists document changes made by the callback", func() {
			doc := register()

			forwardTo(doc, ptr(20), nil)

			var stored SQLiteDocument
			Expect(db.First(&stored, doc.ID).Error).NotTo(HaveOccurred())
			Expect(stored.CurrentDepartmentID).To(Equal(int64(20)))
			Expect(stored.Status).To(Equal(document.StatusForwarded))
		})

		It("discards the entry when the callback fails", func() {
			doc := register()

			_, err := repo.AppendForDocument(doc.ID, func(doc *document.Document, seq int64) (*movement.Movement, error) {
				return nil, internal.ErrTerminalState
			})

			Expect(err).To(MatchError(internal.ErrTerminalState))
			history, err := repo.ListForDocument(doc.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(1))
		})

		It("fails for an unknown document", func() {
			_, err := repo.AppendForDocument(9999, func(doc *document.Document, seq int64) (*movement.Movement, error) {
				return &movement.Movement{}, nil
			})

			Expect(err).To(MatchError(internal.ErrDocumentNotFound))
		})
	})

	Describe("pending arrivals", func() {
		It("lists an unconfirmed forwarding addressed to a department", func() {
			doc := register()
			fwd := forwardTo(doc, ptr(20), nil)

			pending, err := repo.PendingForDepartment(20)

			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ID).To(Equal(fwd.ID))
		})

		It("lists an unconfirmed forwarding addressed to a section", func() {
			doc := register()
			forwardTo(doc, nil, ptr(100))

			pending, err := repo.PendingForSection(100)

			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
		})

		It("drops the entry once a later movement supersedes it", func() {
			doc := register()
			forwardTo(doc, nil, ptr(100))

			// The document travels onward before the section confirms.
			forwardTo(doc, ptr(30), nil)

			pending, err := repo.PendingForSection(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())

			later, err := repo.PendingForDepartment(30)
			Expect(err).NotTo(HaveOccurred())
			Expect(later).To(HaveLen(1))
		})

		It("drops a confirmed entry", func() {
			doc := register()
			fwd := forwardTo(doc, ptr(20), nil)

			_, err := repo.Confirm(fwd.ID, func(mv *movement.Movement) (bool, error) {
				now := time.Now()
				mv.Confirmed = true
				mv.ConfirmedByID = ptr(9)
				mv.ConfirmedAt = &now
				return true, nil
			})
			Expect(err).NotTo(HaveOccurred())

			pending, err := repo.PendingForDepartment(20)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})
	})

	Describe("Confirm", func() {
		It("saves only when the callback reports a change", func() {
			doc := register()
			fwd := forwardTo(doc, ptr(20), nil)

			unchanged, err := repo.Confirm(fwd.ID, func(mv *movement.Movement) (bool, error) {
				return false, nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(unchanged.Confirmed).To(BeFalse())

			stored, err := repo.GetByID(fwd.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Confirmed).To(BeFalse())
		})

		It("propagates callback errors", func() {
			doc := register()
			fwd := forwardTo(doc, ptr(20), nil)

			_, err := repo.Confirm(fwd.ID, func(mv *movement.Movement) (bool, error) {
				return false, internal.ErrUnauthorizedAction
			})

			Expect(err).To(MatchError(internal.ErrUnauthorizedAction))
		})

		It("fails for an unknown movement", func() {
			_, err := repo.Confirm(9999, func(mv *movement.Movement) (bool, error) {
				return true, nil
			})

			Expect(err).To(MatchError(internal.ErrMovementNotFound))
		})
	})
})
