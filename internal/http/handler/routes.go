package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fdms/docs"
	"fdms/internal/model"
	"fdms/internal/service"
)

// Deps are the collaborators the HTTP surface is built from. Nil Documents or
// Gatherer leave the corresponding routes unregistered.
type Deps struct {
	DB        Pinger
	Store     StoragePinger
	Records   service.RecordService
	Documents service.DocumentService
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger

	// SwaggerHost is the host:port advertised in the API docs. Empty lets
	// the UI call whichever host served it.
	SwaggerHost string
}

// RegisterRoutes attaches the operational routes and the /api surface of every
// catalog entity.
func RegisterRoutes(app *fiber.App, d Deps) {
	log := orNop(d.Logger)

	app.Get("/health", HealthCheck(d.DB, d.Store))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// SwaggerInfo is package state shared by every request; set it once here.
	docs.SwaggerInfo.Host = d.SwaggerHost
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	records := NewRecordHandler(d.Records, log)
	for _, e := range model.Catalog() {
		g := api.Group("/" + e.Path)

		// Static segments first so they are not captured by /:id.
		g.Get("/stats", records.Stats(e))
		for _, en := range e.Enums {
			g.Get("/"+en.Path, records.Distinct(e, en))
		}
		for _, r := range e.Related {
			g.Get("/"+r.Path+"/:value", records.ListBy(e, r))
		}
		if e == model.Documents && d.Documents != nil {
			g.Post("/upload", UploadDocument(d.Documents, log))
			g.Get("/:id/download", DownloadDocument(d.Documents, log))
			g.Get("/:id/file", StreamDocument(d.Documents, log))
		}

		g.Get("/", records.List(e))
		g.Post("/", records.Create(e))
		g.Get("/:id", records.Get(e))
		g.Put("/:id", records.Update(e))
		g.Delete("/:id", records.Delete(e))
	}
}
