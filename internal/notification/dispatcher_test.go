package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/records-management/internal/core/events"
	"github.com/frahmantamala/records-management/internal/notification"
)

func TestNotificationDispatcher(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Dispatcher Suite")
}

type mockRecipientDirectory struct {
	departmentLookups []int64
	sectionLookups    []int64
	err               error
}

func (m *mockRecipientDirectory) ActorIDsForDepartment(departmentID int64) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.departmentLookups = append(m.departmentLookups, departmentID)
	return []int64{1, 2}, nil
}

func (m *mockRecipientDirectory) ActorIDsForSection(sectionID int64) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sectionLookups = append(m.sectionLookups, sectionID)
	return []int64{3}, nil
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("Dispatcher", func() {
	var (
		recipients *mockRecipientDirectory
		dispatcher *notification.Dispatcher
		logger     *slog.Logger
	)

	BeforeEach(func() {
		recipients = &mockRecipientDirectory{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		dispatcher = notification.NewDispatcher(recipients, logger)
	})

	Describe("HandleDocumentForwarded", func() {
		It("notifies the destination section when the forwarding targeted one", func() {
			event := events.NewDocumentForwardedEvent(events.DocumentForwardedData{
				DocumentID:           1,
				MovementID:           2,
				DestinationSectionID: ptr(100),
			})

			err := dispatcher.HandleDocumentForwarded(context.Background(), event)

			Expect(err).ToNot(HaveOccurred())
			Expect(recipients.sectionLookups).To(Equal([]int64{100}))
			Expect(recipients.departmentLookups).To(BeEmpty())
		})

		It("notifies the whole department otherwise", func() {
			event := events.NewDocumentForwardedEvent(events.DocumentForwardedData{
				DocumentID:              1,
				MovementID:              2,
				DestinationDepartmentID: ptr(20),
			})

			err := dispatcher.HandleDocumentForwarded(context.Background(), event)

			Expect(err).ToNot(HaveOccurred())
			Expect(recipients.departmentLookups).To(Equal([]int64{20}))
		})

		It("swallows recipient lookup failures", func() {
			recipients.err = errors.New("db down")
			event := events.NewDocumentForwardedEvent(events.DocumentForwardedData{
				DocumentID:              1,
				DestinationDepartmentID: ptr(20),
			})

			err := dispatcher.HandleDocumentForwarded(context.Background(), event)

			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Register", func() {
		It("subscribes the dispatcher to the routing events", func() {
			bus := events.NewEventBus(logger)
			dispatcher.Register(bus)

			event := events.NewDocumentForwardedEvent(events.DocumentForwardedData{
				DocumentID:              1,
				DestinationDepartmentID: ptr(20),
			})

			err := bus.PublishSync(context.Background(), event)

			Expect(err).ToNot(HaveOccurred())
			Expect(recipients.departmentLookups).To(Equal([]int64{20}))
		})

		It("handles finalization and confirmation events without recipients", func() {
			bus := events.NewEventBus(logger)
			dispatcher.Register(bus)

			finalized := events.NewDocumentFinalizedEvent(events.DocumentFinalizedData{DocumentID: 1, Decision: "approved"})
			confirmed := events.NewMovementConfirmedEvent(events.MovementConfirmedData{DocumentID: 1, MovementID: 2})

			Expect(bus.PublishSync(context.Background(), finalized)).To(Succeed())
			Expect(bus.PublishSync(context.Background(), confirmed)).To(Succeed())
		})
	})
})
