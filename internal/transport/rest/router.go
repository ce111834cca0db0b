package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/document"
	"github.com/frahmantamala/records-management/internal/movement"
	"github.com/frahmantamala/records-management/internal/organization"
	"github.com/frahmantamala/records-management/internal/routing"
	"github.com/frahmantamala/records-management/internal/transport/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB,
	authHandler *auth.Handler,
	organizationHandler *organization.Handler,
	documentHandler *document.Handler,
	movementHandler *movement.Handler,
	routingHandler *routing.Handler,
	logger *slog.Logger) {

	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Everything below requires an authenticated actor.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Me)

			pr.Route("/organization", func(or chi.Router) {
				or.Get("/destinations", routingHandler.GetDestinations)
				or.Get("/administrations", organizationHandler.ListAdministrations)
				or.Get("/departments/{id}/sections", routingHandler.GetDepartmentSections)

				// Structure changes are reserved for directors and
				// administrators.
				or.Group(func(er chi.Router) {
					er.Use(middleware.RequireElevated)
					er.Post("/departments", organizationHandler.CreateDepartment)
					er.Post("/sections", organizationHandler.CreateSection)
				})
			})

			pr.Route("/documents", func(dr chi.Router) {
				dr.Get("/", documentHandler.ListDocuments)
				dr.With(middleware.RequirePermissions("register_documents")).
					Post("/", movementHandler.CreateDocument)
				dr.Get("/{id}", documentHandler.GetDocument)
				dr.Get("/{id}/movements", movementHandler.History)
				dr.With(middleware.RequirePermissions("forward_documents")).
					Post("/{id}/forward", movementHandler.Forward)

				// Despatch and finalization are restricted to directors
				// and administrators; the service enforces this too.
				dr.Group(func(er chi.Router) {
					er.Use(middleware.RequireElevated)
					er.With(middleware.RequirePermissions("despatch_documents")).
						Post("/{id}/despatch", movementHandler.Despatch)
					er.With(middleware.RequirePermissions("finalize_documents")).
						Post("/{id}/finalize", movementHandler.Finalize)
				})
			})

			pr.Route("/movements", func(mr chi.Router) {
				mr.Get("/pending", movementHandler.Pending)
				mr.Get("/{id}", movementHandler.GetMovement)
				mr.Post("/{id}/confirm", movementHandler.ConfirmReceipt)
			})

			pr.Route("/document-types", func(tr chi.Router) {
				tr.Get("/", documentHandler.ListDocumentTypes)

				tr.Group(func(er chi.Router) {
					er.Use(middleware.RequireElevated)
					er.With(middleware.RequirePermissions("manage_document_types")).
						Post("/", documentHandler.CreateDocumentType)
				})
			})
		})
	})
}
