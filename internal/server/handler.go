package server

//go:generate mockery --name=OpenSearchService -r --case underscore --with-expecter --structname OpenSearchService --filename opensearch_service.go --output=./mocks

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/internal/atom"
	"github.com/goto/salt/log"
	"github.com/oklog/ulid/v2"
)

const paramOSDD = "osdd"

type OpenSearchService interface {
	Search(ctx context.Context, req opensearch.SearchRequest) (opensearch.Feed, error)
	Describe(ctx context.Context, searchType, selfURL string) (opensearch.Description, error)
	CollectionsEnabled() bool
}

type Handler struct {
	logger   log.Logger
	service  OpenSearchService
	renderer *atom.Renderer
	siteURL  string
}

func NewHandler(logger log.Logger, service OpenSearchService, renderer *atom.Renderer, siteURL string) *Handler {
	if renderer == nil {
		renderer = atom.NewRenderer(nil)
	}
	return &Handler{
		logger:   logger,
		service:  service,
		renderer: renderer,
		siteURL:  strings.TrimSuffix(siteURL, "/"),
	}
}

// Description serves the description document of the search type named by
// the osdd parameter, the dataset search by default.
func (h *Handler) Description(w http.ResponseWriter, r *http.Request) {
	searchType := r.URL.Query().Get(paramOSDD)
	if searchType == "" {
		searchType = opensearch.SearchTypeDataset
	}
	h.describe(w, r, searchType)
}

func (h *Handler) CollectionDescription(w http.ResponseWriter, r *http.Request) {
	if !h.service.CollectionsEnabled() {
		writeText(w, http.StatusNotFound, "Not found")
		return
	}
	h.describe(w, r, opensearch.SearchTypeCollection)
}

func (h *Handler) describe(w http.ResponseWriter, r *http.Request, searchType string) {
	d, err := h.service.Describe(r.Context(), searchType, h.requestURL(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.WriteDescription(&buf, d); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeXML(w, opensearch.MediaTypeOSDD, buf.Bytes())
}

// Search serves a dataset search, scoped to a collection when the
// collection_id parameter is present.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, opensearch.SearchRequest{
		SearchType:   opensearch.SearchTypeDataset,
		CollectionID: r.URL.Query().Get(opensearch.ParamCollectionID),
	})
}

func (h *Handler) CollectionSearch(w http.ResponseWriter, r *http.Request) {
	if !h.service.CollectionsEnabled() {
		writeText(w, http.StatusNotFound, "Not found")
		return
	}
	h.search(w, r, opensearch.SearchRequest{SearchType: opensearch.SearchTypeCollection})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, req opensearch.SearchRequest) {
	req.RawQuery = r.URL.RawQuery
	req.RequestURL = h.requestURL(r)
	req.UserID = UserFromContext(r.Context())

	feed, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.WriteFeed(&buf, feed); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeXML(w, opensearch.MediaTypeAtom, buf.Bytes())
}

func (h *Handler) Ping(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "pong")
}

func (h *Handler) requestURL(r *http.Request) string {
	return h.siteURL + r.URL.RequestURI()
}

// writeError answers client errors with their message and everything else
// with a reference to the logged failure.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if opensearch.IsClientError(err) {
		writeText(w, http.StatusBadRequest, clientMessage(err))
		return
	}

	ref := ulid.Make().String()
	h.logger.Error("request failed",
		"ref", ref,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
		"err", err,
	)
	writeText(w, http.StatusInternalServerError, "Internal server error. Reference: "+ref)
}

func clientMessage(err error) string {
	var valErrs opensearch.ValidationErrors
	if errors.As(err, &valErrs) {
		return strings.Join(valErrs.Messages(), "\n")
	}
	return err.Error()
}

func writeXML(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
