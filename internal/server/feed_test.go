package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RobBrazier/audiodrop/internal/market"
	"github.com/RobBrazier/audiodrop/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/feeds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMarket is a mock implementation of the Marketplace interface
type MockMarket struct {
	mock.Mock
}

func (m *MockMarket) Explore(ctx context.Context, s session.Session, query string) (market.Explore, error) {
	args := m.Called(ctx, s, query)
	return args.Get(0).(market.Explore), args.Error(1)
}

func (m *MockMarket) Purchase(ctx context.Context, s session.Session, tokenId string, quantity int) error {
	args := m.Called(ctx, s, tokenId, quantity)
	return args.Error(0)
}

func (m *MockMarket) PurchaseInProgress(ctx context.Context, s session.Session) bool {
	args := m.Called(ctx, s)
	return args.Bool(0)
}

func (m *MockMarket) HasAccess(ctx context.Context, s session.Session, id string) bool {
	args := m.Called(ctx, s, id)
	return args.Bool(0)
}

func (m *MockMarket) Feed(ctx context.Context, link string) (feeds.Feed, error) {
	args := m.Called(ctx, link)
	return args.Get(0).(feeds.Feed), args.Error(1)
}

func feedRouter(s *Server) chi.Router {
	r := chi.NewRouter()
	r.Get("/feed", s.FeedHandler)
	r.Get("/feed.{format:rss|atom|json}", s.FeedHandler)
	return r
}

func TestFeedHandler(t *testing.T) {
	mockMarket := new(MockMarket)
	s := &Server{
		market:  mockMarket,
		baseUrl: "https://audiobooks.example",
	}

	mockFeed := createMockFeed("Audiobooks", "Dune")
	mockMarket.On("Feed", mock.Anything, "https://audiobooks.example").Return(mockFeed, nil)

	r := feedRouter(s)

	// Test default format (RSS)
	req := httptest.NewRequest("GET", "/feed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml; charset=utf-8")
	assert.Contains(t, w.Body.String(), "Dune")

	// Test with format parameter (ATOM)
	req = httptest.NewRequest("GET", "/feed.atom", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/atom+xml; charset=utf-8")

	// Test with format parameter (JSON)
	req = httptest.NewRequest("GET", "/feed.json", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json; charset=utf-8")
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=")
}

func TestFeedHandlerUnknownFormat(t *testing.T) {
	s := &Server{market: new(MockMarket)}

	req := httptest.NewRequest("GET", "/feed.xml", nil)
	w := httptest.NewRecorder()
	feedRouter(s).ServeHTTP(w, req)
	assert.Equal(t, 404, w.Code)
}

func TestFeedHandlerUpstreamError(t *testing.T) {
	mockMarket := new(MockMarket)
	s := &Server{market: mockMarket}
	mockMarket.On("Feed", mock.Anything, mock.Anything).Return(feeds.Feed{}, errors.New("indexer down"))

	req := httptest.NewRequest("GET", "/feed", nil)
	w := httptest.NewRecorder()
	feedRouter(s).ServeHTTP(w, req)
	assert.Equal(t, 502, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestDetermineFormat(t *testing.T) {
	for param, expected := range map[string]Format{
		"":     FORMAT_RSS,
		"rss":  FORMAT_RSS,
		"ATOM": FORMAT_ATOM,
		"json": FORMAT_JSON,
	} {
		req := httptest.NewRequest("GET", "/feed", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("format", param)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		assert.Equal(t, expected, determineFormat(req), param)
	}
}

func createMockFeed(title, itemTitle string) feeds.Feed {
	return feeds.Feed{
		Title:   title,
		Link:    &feeds.Link{Href: "https://audiobooks.example/explore"},
		Created: time.Now(),
		Items: []*feeds.Item{
			{
				Title:   itemTitle,
				Link:    &feeds.Link{Href: "https://audiobooks.example/owned/0"},
				Created: time.Now(),
			},
		},
	}
}
