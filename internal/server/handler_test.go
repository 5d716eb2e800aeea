package server_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/internal/server"
	"github.com/goto/datahub/internal/server/mocks"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	siteURL       = "https://data.example.org"
	userHeaderKey = "Datahub-User-UUID"
)

var sampleFeed = opensearch.Feed{
	Title:        "Datahub search results",
	ID:           siteURL + "/opensearch/search.atom?q=ice",
	Updated:      time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC),
	TotalResults: 1,
	StartIndex:   1,
	ItemsPerPage: 20,
	Entries: []opensearch.Entry{{
		Title: "Sea ice extent",
		ID:    siteURL + "/dataset/sea-ice",
	}},
}

var sampleDescription = opensearch.Description{
	ShortName:   "Datahub",
	Description: "Search all datasets.",
	SelfURL:     siteURL + "/opensearch/description.xml",
	Search: opensearch.SearchTemplate{
		Template: siteURL + "/opensearch/search.atom?q={searchTerms?}",
		Rel:      "results",
		Type:     opensearch.MediaTypeAtom,
	},
}

func newRouter(t *testing.T, svc *mocks.OpenSearchService) http.Handler {
	t.Helper()

	return server.NewRouter(
		server.Config{Identity: server.IdentityConfig{HeaderKeyUserUUID: userHeaderKey}},
		server.Deps{
			Logger:  log.NewNoop(),
			Service: svc,
			SiteURL: siteURL + "/",
		},
	)
}

func TestHandlerSearch(t *testing.T) {
	type testCase struct {
		Description  string
		Path         string
		Header       http.Header
		Setup        func(*mocks.OpenSearchService)
		ExpectStatus int
		ExpectType   string
		ExpectBody   string
	}

	var testCases = []testCase{
		{
			Description: "should render the feed of a dataset search",
			Path:        "/opensearch/search.atom?q=ice",
			Header:      http.Header{http.CanonicalHeaderKey(userHeaderKey): {"8b7a4e0c-4d2b-4c4e-9f7d-1f6b0a3c2e11"}},
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().Search(mock.Anything, opensearch.SearchRequest{
					SearchType: opensearch.SearchTypeDataset,
					RawQuery:   "q=ice",
					RequestURL: siteURL + "/opensearch/search.atom?q=ice",
					UserID:     "8b7a4e0c-4d2b-4c4e-9f7d-1f6b0a3c2e11",
				}).Return(sampleFeed, nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "application/atom+xml; charset=utf-8",
			ExpectBody:   "<title>Sea ice extent</title>",
		},
		{
			Description: "should scope the search to a collection",
			Path:        "/opensearch/search.atom?collection_id=SENTINEL-1&q=ice",
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().Search(mock.Anything, mock.MatchedBy(func(req opensearch.SearchRequest) bool {
					return req.CollectionID == "SENTINEL-1" && req.UserID == ""
				})).Return(sampleFeed, nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "application/atom+xml; charset=utf-8",
		},
		{
			Description: "should list every validation message",
			Path:        "/opensearch/search.atom?rows=x&page=0",
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().Search(mock.Anything, mock.Anything).Return(opensearch.Feed{}, opensearch.ValidationErrors{
					{Parameter: "rows", Message: `Invalid value for "rows".`},
					{Parameter: "page", Message: `Invalid value for "page".`},
				})
			},
			ExpectStatus: http.StatusBadRequest,
			ExpectType:   "text/plain; charset=utf-8",
			ExpectBody:   "Invalid value for \"rows\".\nInvalid value for \"page\".",
		},
		{
			Description: "should reject unknown collections",
			Path:        "/opensearch/search.atom?collection_id=nope",
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().Search(mock.Anything, mock.Anything).Return(opensearch.Feed{}, opensearch.InvalidSearchTypeError{SearchType: "nope"})
			},
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "should hide engine failures behind a reference",
			Path:        "/opensearch/search.atom",
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().Search(mock.Anything, mock.Anything).Return(opensearch.Feed{}, opensearch.SearchError{Op: "search", Err: errors.New("connection refused")})
			},
			ExpectStatus: http.StatusInternalServerError,
			ExpectBody:   "Internal server error. Reference: ",
		},
		{
			Description: "should serve collection searches when enabled",
			Path:        "/opensearch/collections?q=sentinel",
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().CollectionsEnabled().Return(true)
				svc.EXPECT().Search(mock.Anything, mock.MatchedBy(func(req opensearch.SearchRequest) bool {
					return req.SearchType == opensearch.SearchTypeCollection
				})).Return(sampleFeed, nil)
			},
			ExpectStatus: http.StatusOK,
		},
		{
			Description: "should not find collection searches when disabled",
			Path:        "/opensearch/collections",
			Setup: func(svc *mocks.OpenSearchService) {
				svc.EXPECT().CollectionsEnabled().Return(false)
			},
			ExpectStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			svc := mocks.NewOpenSearchService(t)
			if tc.Setup != nil {
				tc.Setup(svc)
			}

			req := httptest.NewRequest(http.MethodGet, tc.Path, nil)
			for k := range tc.Header {
				req.Header.Set(k, tc.Header.Get(k))
			}
			rw := httptest.NewRecorder()
			newRouter(t, svc).ServeHTTP(rw, req)

			assert.Equal(t, tc.ExpectStatus, rw.Code)
			if tc.ExpectType != "" {
				assert.Equal(t, tc.ExpectType, rw.Header().Get("Content-Type"))
			}
			if tc.ExpectBody != "" {
				assert.Contains(t, rw.Body.String(), tc.ExpectBody)
			}
			assert.NotEmpty(t, rw.Header().Get("X-Request-Id"))
		})
	}
}

func TestHandlerDescription(t *testing.T) {
	t.Run("should describe the dataset search by default", func(t *testing.T) {
		svc := mocks.NewOpenSearchService(t)
		svc.EXPECT().Describe(mock.Anything, opensearch.SearchTypeDataset, siteURL+"/opensearch/description.xml").
			Return(sampleDescription, nil)

		rw := httptest.NewRecorder()
		newRouter(t, svc).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/opensearch/description.xml", nil))

		assert.Equal(t, http.StatusOK, rw.Code)
		assert.Equal(t, "application/opensearchdescription+xml; charset=utf-8", rw.Header().Get("Content-Type"))
		assert.Contains(t, rw.Body.String(), "<ShortName>Datahub</ShortName>")
	})

	t.Run("should describe the search type named by osdd", func(t *testing.T) {
		svc := mocks.NewOpenSearchService(t)
		svc.EXPECT().Describe(mock.Anything, "SENTINEL-2", siteURL+"/opensearch/description.xml?osdd=SENTINEL-2").
			Return(sampleDescription, nil)

		rw := httptest.NewRecorder()
		newRouter(t, svc).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/opensearch/description.xml?osdd=SENTINEL-2", nil))
		assert.Equal(t, http.StatusOK, rw.Code)
	})

	t.Run("should describe the collection search", func(t *testing.T) {
		svc := mocks.NewOpenSearchService(t)
		svc.EXPECT().CollectionsEnabled().Return(true)
		svc.EXPECT().Describe(mock.Anything, opensearch.SearchTypeCollection, mock.Anything).Return(sampleDescription, nil)

		rw := httptest.NewRecorder()
		newRouter(t, svc).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/opensearch/collections/description.xml", nil))
		assert.Equal(t, http.StatusOK, rw.Code)
	})

	t.Run("should reject unknown search types", func(t *testing.T) {
		svc := mocks.NewOpenSearchService(t)
		svc.EXPECT().Describe(mock.Anything, "nope", mock.Anything).
			Return(opensearch.Description{}, opensearch.InvalidSearchTypeError{SearchType: "nope"})

		rw := httptest.NewRecorder()
		newRouter(t, svc).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/opensearch/description.xml?osdd=nope", nil))
		assert.Equal(t, http.StatusBadRequest, rw.Code)
		assert.True(t, strings.Contains(rw.Body.String(), "nope"))
	})
}

func TestHandlerPing(t *testing.T) {
	rw := httptest.NewRecorder()
	newRouter(t, mocks.NewOpenSearchService(t)).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "pong", rw.Body.String())
}

func TestHandlerNotFound(t *testing.T) {
	rw := httptest.NewRecorder()
	newRouter(t, mocks.NewOpenSearchService(t)).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil))

	assert.Equal(t, http.StatusNotFound, rw.Code)
}
