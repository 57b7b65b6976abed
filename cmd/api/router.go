package main

import (
	"net/http"

	"github.com/fhuszti/media-converter-go/internal/handler/api"
	cMiddleware "github.com/fhuszti/media-converter-go/internal/middleware"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// services groups what the HTTP routes depend on.
type services struct {
	inline    port.InlineConverter
	submitter port.TaskSubmitter
	poller    port.StatusPoller
	artifacts port.ArtifactFetcher
	renderer  port.HTTPRenderer
}

func newRouter(auth func(http.Handler) http.Handler, svc services, maxUpload int64) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(auth)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Post("/convert", api.ConvertHandler(svc.inline, maxUpload))
	r.Post("/convert/async", api.ConvertAsyncHandler(svc.submitter, maxUpload))

	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Use(cMiddleware.WithTaskID())
		r.Get("/", api.GetTaskHandler(svc.renderer, svc.poller))
		r.Get("/artifact", api.GetArtifactHandler(svc.artifacts))
	})

	return r
}
