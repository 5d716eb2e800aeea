package server

import (
	"net/http"

	gmux "github.com/gorilla/mux"
	"github.com/gorilla/handlers"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const (
	routeDescription           = "/opensearch/description.xml"
	routeCollectionDescription = "/opensearch/collections/description.xml"
	routeSearch                = "/opensearch/search.atom"
	routeCollectionSearch      = "/opensearch/collections"
	routePing                  = "/ping"
)

// NewRouter wires the OpenSearch routes and their middleware.
func NewRouter(config Config, deps Deps) http.Handler {
	h := NewHandler(deps.Logger, deps.Service, deps.Renderer, deps.SiteURL)

	router := gmux.NewRouter()
	router.Use(
		RequestID,
		UserHeaderCtx(config.Identity.HeaderKeyUserUUID),
		StatsD(deps.StatsD),
	)

	handle := func(pattern string, fn http.HandlerFunc) {
		p, wrapped := newrelic.WrapHandle(deps.NRApp, pattern, fn)
		router.Handle(p, wrapped).Methods(http.MethodGet, http.MethodHead)
	}
	handle(routeDescription, h.Description)
	handle(routeCollectionDescription, h.CollectionDescription)
	handle(routeSearch, h.Search)
	handle(routeCollectionSearch, h.CollectionSearch)
	router.HandleFunc(routePing, h.Ping).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not found")
	})

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{deps.Logger}),
	)(router)
}
