/*
 * @module api/routes
 * @description HTTP routes of the QC service
 * @architecture RESTful API
 * @stateFlow stateless request handling
 * @rules Every response uses the APIResponse envelope; error status follows the qcerror type
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, service/container.go
 */

package api

import (
	"ceramiqc/api/controllers"
	qcmiddleware "ceramiqc/api/middleware"
	"ceramiqc/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute mounts every QC route on r.
func InitRoute(r chi.Router, c *service.Container) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(qcmiddleware.Operator)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", qcmiddleware.OperatorHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthController := controllers.NewHealthController(c.Ready)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	r.Route("/measurements", func(r chi.Router) {
		measurementController := controllers.NewMeasurementController(c.Recorder)
		r.Post("/", measurementController.Record)
		r.Get("/", measurementController.List)
		r.Post("/bulk", measurementController.RecordBulk)
	})

	r.Route("/controls", func(r chi.Router) {
		controlController := controllers.NewControlController(c.Scheduler, c.Recorder)
		r.Get("/overdue", controlController.Overdue)
		r.Post("/overdue/mark", controlController.MarkOverdue)
		r.Get("/pending", controlController.Pending)
		r.Post("/assign", controlController.Assign)
		r.Post("/{id}/skip", controlController.Skip)
	})

	r.Route("/schedule", func(r chi.Router) {
		scheduleController := controllers.NewScheduleController(c.Scheduler, c.Now)
		r.Get("/", scheduleController.Get)
		r.Get("/summary", scheduleController.Summary)
		r.Post("/generate", scheduleController.Generate)
		r.Post("/generate-weekly", scheduleController.GenerateWeekly)
	})

	r.Route("/specifications", func(r chi.Router) {
		specController := controllers.NewSpecificationController(c.Specs)
		r.Get("/", specController.List)
		r.Post("/", specController.Create)
		r.Get("/resolve", specController.Resolve)
		r.Get("/control-types", specController.ControlTypes)
		r.Post("/reset-defaults", specController.ResetDefaults)
		r.Get("/{id}", specController.Get)
		r.Put("/{id}", specController.Update)
		r.Delete("/{id}", specController.Delete)
		r.Post("/{id}/activate", specController.Activate)
		r.Post("/{id}/deactivate", specController.Deactivate)
	})

	r.Route("/compliance", func(r chi.Router) {
		complianceController := controllers.NewComplianceController(c.Evaluator, c.Catalog)
		r.Post("/evaluate", complianceController.Evaluate)
		r.Post("/parameters/{id}/evaluate", complianceController.EvaluateParameter)
	})

	r.Route("/catalog", func(r chi.Router) {
		catalogController := controllers.NewCatalogController(c.Catalog)
		r.Post("/initialize", catalogController.Initialize)
		r.Get("/stages", catalogController.Stages)
		r.Get("/parameters", catalogController.Parameters)
		r.Post("/parameters", catalogController.CreateParameter)
		r.Get("/parameters/{id}", catalogController.Parameter)
		r.Put("/parameters/{id}", catalogController.UpdateParameter)
	})

	r.Route("/control-sheets", func(r chi.Router) {
		sheetController := controllers.NewControlSheetController(c.Sheets, c.Now)
		r.Get("/daily", sheetController.Daily)
		r.Get("/weekly", sheetController.Weekly)
		r.Get("/records", sheetController.Records)
		r.Post("/records", sheetController.SaveRecord)
		r.Get("/capability", sheetController.Capability)
		r.Get("/dashboard", sheetController.Dashboard)
		r.Get("/trend", sheetController.Trend)
		r.Get("/defects", sheetController.Defects)
		r.Get("/formats", sheetController.Formats)
	})

	r.Route("/automation", func(r chi.Router) {
		automationController := controllers.NewAutomationController(c.Automation)
		r.Get("/jobs", automationController.Jobs)
		r.Post("/jobs/{id}/trigger", automationController.Trigger)
	})
}
