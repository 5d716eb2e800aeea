package opensearch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/core/opensearch/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Search(t *testing.T) {
	type testCase struct {
		Description string
		Config      func(*opensearch.Config)
		Request     opensearch.SearchRequest
		Setup       func(context.Context, *mocks.Engine, *mocks.PermissionProvider)
		ErrString   string
		Check       func(*testing.T, opensearch.Feed)
	}

	var testCases = []testCase{
		{
			Description: "should run the whole pipeline",
			Request: opensearch.SearchRequest{
				SearchType: opensearch.SearchTypeDataset,
				RawQuery:   "q=flood&rows=5&page=2&amp=1&client_id=abc",
				RequestURL: "http://hub.example/opensearch/search.atom?q=flood&rows=5&page=2&amp=1&client_id=abc",
				UserID:     "user-1",
			},
			Setup: func(ctx context.Context, e *mocks.Engine, p *mocks.PermissionProvider) {
				p.EXPECT().AccessFor(ctx, "user-1").Return(opensearch.Access{Labels: []string{"public"}}, nil)
				e.EXPECT().Search(ctx, mock.MatchedBy(func(q opensearch.EngineQuery) bool {
					return q.Rows == 6 && q.Start == 5 &&
						q.FilterQuery() == `+type:dataset +site_id:"default" +state:active +capacity:public +permission_labels:("public")`
				})).Return(opensearch.EngineResponse{Docs: docs("1", "2", "3", "4", "5", "6"), NumFound: 12}, nil)
			},
			Check: func(t *testing.T, f opensearch.Feed) {
				assert.Len(t, f.Entries, 5)
				assert.Equal(t, 6, f.StartIndex)
				assert.Equal(t, 5, f.ItemsPerPage)
				assert.Equal(t, 12, f.TotalResults)
				assert.Equal(t, "http://hub.example/opensearch/search.atom?q=flood&rows=5&page=2", f.Links[1].Href)
			},
		},
		{
			Description: "should reject unknown parameters in strict mode",
			Request: opensearch.SearchRequest{
				SearchType: opensearch.SearchTypeDataset,
				RawQuery:   "q=flood&foo=bar",
			},
			ErrString: "Invalid parameter: foo.",
		},
		{
			Description: "should drop unknown parameters in lenient mode",
			Config:      func(c *opensearch.Config) { c.StrictParameters = false },
			Request: opensearch.SearchRequest{
				SearchType: opensearch.SearchTypeDataset,
				RawQuery:   "q=flood&foo=bar",
				RequestURL: "http://hub.example/opensearch/search.atom?q=flood&foo=bar",
			},
			Setup: func(ctx context.Context, e *mocks.Engine, p *mocks.PermissionProvider) {
				p.EXPECT().AccessFor(ctx, "").Return(opensearch.PublicAccess(), nil)
				e.EXPECT().Search(ctx, mock.Anything).Return(opensearch.EngineResponse{}, nil)
			},
			Check: func(t *testing.T, f opensearch.Feed) {
				assert.Equal(t, []opensearch.QueryAttr{{Name: "searchTerms", Value: "flood"}, {Name: "role", Value: "request"}}, f.Query)
			},
		},
		{
			Description: "should scope a search to a collection",
			Request: opensearch.SearchRequest{
				SearchType:   opensearch.SearchTypeDataset,
				CollectionID: "SENTINEL-1",
				RawQuery:     "collection_id=SENTINEL-1&q=radar",
				RequestURL:   "http://hub.example/opensearch/search.atom?collection_id=SENTINEL-1&q=radar",
			},
			Setup: func(ctx context.Context, e *mocks.Engine, p *mocks.PermissionProvider) {
				p.EXPECT().AccessFor(ctx, "").Return(opensearch.Access{Unrestricted: true, IncludePrivate: true}, nil)
				e.EXPECT().Search(ctx, mock.MatchedBy(func(q opensearch.EngineQuery) bool {
					return q.FilterQuery() == `+collection_id:"SENTINEL-1" +type:dataset +site_id:"default" +state:active`
				})).Return(opensearch.EngineResponse{Docs: docs("1"), NumFound: 1}, nil)
			},
			Check: func(t *testing.T, f opensearch.Feed) {
				assert.Equal(t, "http://hub.example/opensearch/search.atom?collection_id=SENTINEL-1&q=radar", f.Links[1].Href)
				links := f.Entries[0].Links
				assert.Equal(t, "up", links[len(links)-1].Rel)
			},
		},
		{
			Description: "should reject an unknown collection",
			Request: opensearch.SearchRequest{
				SearchType:   opensearch.SearchTypeDataset,
				CollectionID: "NOPE",
				RawQuery:     "q=x",
			},
			ErrString: `invalid search type: "NOPE"`,
		},
		{
			Description: "should surface permission failures",
			Request: opensearch.SearchRequest{
				SearchType: opensearch.SearchTypeDataset,
				RawQuery:   "q=x",
				UserID:     "u",
			},
			Setup: func(ctx context.Context, e *mocks.Engine, p *mocks.PermissionProvider) {
				p.EXPECT().AccessFor(ctx, "u").Return(opensearch.Access{}, errors.New("db down"))
			},
			ErrString: "resolve permissions: db down",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			ctx := context.Background()
			engine := mocks.NewEngine(t)
			perms := mocks.NewPermissionProvider(t)
			if tc.Setup != nil {
				tc.Setup(ctx, engine, perms)
			}

			cfg := testConfig()
			cfg.StrictParameters = true
			if tc.Config != nil {
				tc.Config(&cfg)
			}

			svc, err := opensearch.NewService(opensearch.ServiceDeps{
				Config:      cfg,
				Schema:      newTestSchema(t),
				Engine:      engine,
				Permissions: perms,
				Clock:       func() time.Time { return fixedNow },
			})
			require.NoError(t, err)

			feed, err := svc.Search(ctx, tc.Request)
			if tc.ErrString != "" {
				assert.EqualError(t, err, tc.ErrString)
				return
			}
			require.NoError(t, err)
			if tc.Check != nil {
				tc.Check(t, feed)
			}
		})
	}
}

func TestService_Collections(t *testing.T) {
	svc, err := opensearch.NewService(opensearch.ServiceDeps{
		Config: testConfig(),
		Schema: newTestSchema(t),
		Engine: mocks.NewEngine(t),
	})
	require.NoError(t, err)

	assert.True(t, svc.CollectionsEnabled())
	assert.Equal(t, []opensearch.Collection{{ID: "SENTINEL-1", Title: "Sentinel 1", SourceSystem: "copernicus"}}, svc.Collections())
}
