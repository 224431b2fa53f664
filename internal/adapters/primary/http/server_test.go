package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/services"
)

// newTestServer assemble la stack complète sur les stores mémoire, avec le
// sink direct (pas de broker) pour que les événements feed soient visibles
// immédiatement.
func newTestServer(t *testing.T) (http.Handler, *repository.MemoryDirectory) {
	t.Helper()

	dir := repository.NewMemoryDirectory()
	likes := repository.NewMemoryLikeRepo()
	feedSvc := services.NewFeedService(repository.NewMemoryFeedRepo(), nil, dir)
	sink := eventbroker.NewDirectSink(feedSvc)

	server := NewServer(
		services.NewFriendshipService(repository.NewMemoryFriendshipRepo(), dir, sink),
		services.NewLikeService(likes, dir, sink),
		services.NewRankingService(likes, dir),
		services.NewRecommendationService(likes, dir),
		services.NewReviewService(repository.NewMemoryReviewRepo(), dir, sink),
		feedSvc,
	)
	return server.Router(), dir
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFriendRoutes(t *testing.T) {
	handler, dir := newTestServer(t)
	dir.AddUser(1)
	dir.AddUser(2)

	rec := doRequest(t, handler, http.MethodPut, "/users/1/friends/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/users/1/friends", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &friends))
	assert.Equal(t, []int64{2}, friends)

	rec = doRequest(t, handler, http.MethodGet, "/users/1/friends/2/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		IsFollowing bool `json:"isFollowing"`
		IsMutual    bool `json:"isMutual"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsFollowing)
	assert.False(t, status.IsMutual)
}

func TestFriendRoutes_ErrorMapping(t *testing.T) {
	handler, dir := newTestServer(t)
	dir.AddUser(1)

	// Cible inconnue : 404.
	rec := doRequest(t, handler, http.MethodPut, "/users/1/friends/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Auto-amitié : 400.
	rec = doRequest(t, handler, http.MethodPut, "/users/1/friends/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Id non numérique : 400.
	rec = doRequest(t, handler, http.MethodPut, "/users/abc/friends/2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeAndFeedRoutes(t *testing.T) {
	handler, dir := newTestServer(t)
	dir.AddUser(1)
	dir.AddFilm(10, 0)

	rec := doRequest(t, handler, http.MethodPut, "/films/10/like/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/films/10/likes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Likes int64 `json:"likes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Likes)

	// Le like est passé par le sink direct jusque dans le feed.
	rec = doRequest(t, handler, http.MethodGet, "/users/1/feed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []struct {
		EventType string `json:"eventType"`
		Operation string `json:"operation"`
		EntityID  int64  `json:"entityId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "LIKE", feed[0].EventType)
	assert.Equal(t, "ADD", feed[0].Operation)
	assert.Equal(t, int64(10), feed[0].EntityID)
}

func TestReviewRoutes(t *testing.T) {
	handler, dir := newTestServer(t)
	dir.AddUser(1)
	dir.AddUser(2)
	dir.AddFilm(10, 0)

	rec := doRequest(t, handler, http.MethodPost, "/reviews", map[string]any{
		"filmId":     10,
		"userId":     1,
		"content":    "très bon film",
		"isPositive": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ReviewID int64 `json:"reviewId"`
		Useful   int64 `json:"useful"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ReviewID)
	base := fmt.Sprintf("/reviews/%d", created.ReviewID)

	rec = doRequest(t, handler, http.MethodPut, base+"/like/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Useful int64 `json:"useful"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, int64(1), fetched.Useful)

	rec = doRequest(t, handler, http.MethodGet, "/reviews/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPopularRoute(t *testing.T) {
	handler, dir := newTestServer(t)
	dir.AddFilm(1, 0)
	dir.AddFilm(2, 0)

	rec := doRequest(t, handler, http.MethodGet, "/films/popular?count=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ranks []struct {
		FilmID int64 `json:"filmId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranks))
	assert.Len(t, ranks, 1)
}
