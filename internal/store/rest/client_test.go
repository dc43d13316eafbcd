package rest_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelfeed/internal/config"
	"reelfeed/internal/core"
	"reelfeed/internal/store/rest"
)

func newClient(t *testing.T, handler http.Handler) *rest.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := &rest.Client{
		Logger: slog.New(slog.DiscardHandler),
		Config: &config.Config{APIURL: srv.URL},
	}
	require.NoError(t, c.Init(context.Background()))
	t.Cleanup(func() { c.Shutdown(context.Background()) }) //nolint:errcheck

	return c
}

func TestListVideoPostsFiltersAndOrders(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/feed/videos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"posts": []map[string]any{
				{"id": "old", "type": "video", "createdAt": "2026-08-01T10:00:00Z", "likeCount": 3},
				{"id": "", "type": "video", "createdAt": "2026-08-20T10:00:00Z"},
				{"id": "img", "type": "image", "createdAt": "2026-08-21T10:00:00Z"},
				{"id": "new", "type": "video", "createdAt": "2026-08-15T10:00:00Z", "commentCount": 2},
			},
		})
	}))

	items, err := c.ListVideoPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "old", items[1].ID)
	assert.Equal(t, 2, items[0].CommentCountSeed)
	assert.Equal(t, 3, items[1].LikeCountSeed)
}

func TestListVideoPostsNonJSONResponseIsTransport(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>service degraded</html>")) //nolint:errcheck
	}))

	// A 200 that isn't the feed must surface as a failure, not an empty feed.
	_, err := c.ListVideoPosts(context.Background())
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestCurrentUserNonJSONResponseIsTransport(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok")) //nolint:errcheck
	}))

	_, err := c.CurrentUser(context.Background())
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestListVideoPostsServerErrorIsTransport(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListVideoPosts(context.Background())
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestCurrentUserSignedOutIsNotAnError(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestHasLikedDistinguishesAbsenceFromFailure(t *testing.T) {
	t.Parallel()

	status := http.StatusNotFound
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/posts/p1/likes/u1", r.URL.Path)
		w.WriteHeader(status)
	}))

	liked, err := c.HasLiked(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.False(t, liked)

	status = http.StatusOK
	liked, err = c.HasLiked(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.True(t, liked)

	status = http.StatusBadGateway
	_, err = c.HasLiked(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestInsertAndDeleteLike(t *testing.T) {
	t.Parallel()

	var methods []string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.InsertLike(context.Background(), "u1", "p1"))
	require.NoError(t, c.DeleteLike(context.Background(), "u1", "p1"))
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}
