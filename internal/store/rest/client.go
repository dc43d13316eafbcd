// Package rest implements the remote store over the feed service's HTTP API.
package rest

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"resty.dev/v3"

	"reelfeed/internal/config"
	"reelfeed/internal/core"
)

const (
	listVideosPath  = "/v1/feed/videos"
	currentUserPath = "/v1/me"
	likePath        = "/v1/posts/{post}/likes/{user}"
)

type Client struct {
	Logger *slog.Logger
	Config *config.Config

	client *resty.Client
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "rest.Client")

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         5 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}).SetBaseURL(c.Config.APIURL)

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx)
}

// isJSON guards SetResult decoding: resty leaves the result zero-valued for
// other content types, which would read as an empty feed instead of a failure.
func isJSON(res *resty.Response) bool {
	return strings.Contains(res.Header().Get("Content-Type"), "application/json")
}

type post struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	MediaURL        string    `json:"mediaUrl"`
	Caption         string    `json:"caption"`
	AuthorID        string    `json:"authorId"`
	AuthorUsername  string    `json:"authorUsername"`
	AuthorAvatarURL string    `json:"authorAvatarUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	LikeCount       int       `json:"likeCount"`
	CommentCount    int       `json:"commentCount"`
	ViewCount       int       `json:"viewCount"`
}

type feedResponse struct {
	Posts []post `json:"posts"`
}

// ListVideoPosts returns video posts newest first, dropping records without
// an identifier.
func (c *Client) ListVideoPosts(ctx context.Context) ([]core.FeedItem, error) {
	res, err := c.r(ctx).
		SetResult(&feedResponse{}).
		Get(listVideosPath)
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", core.ErrTransport, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: list posts: unexpected status %d", core.ErrTransport, res.StatusCode())
	}
	if !isJSON(res) {
		return nil, fmt.Errorf("%w: list posts: unexpected content type %q", core.ErrTransport, res.Header().Get("Content-Type"))
	}

	posts := res.Result().(*feedResponse).Posts
	posts = lo.Filter(posts, func(p post, _ int) bool {
		return p.ID != "" && p.Type == "video"
	})

	items := lo.Map(posts, func(p post, _ int) core.FeedItem {
		return core.FeedItem{
			ID:               p.ID,
			MediaURL:         p.MediaURL,
			Caption:          p.Caption,
			AuthorID:         p.AuthorID,
			AuthorUsername:   p.AuthorUsername,
			AuthorAvatarURL:  p.AuthorAvatarURL,
			CreatedAt:        p.CreatedAt,
			LikeCountSeed:    p.LikeCount,
			CommentCountSeed: p.CommentCount,
			ViewCountSeed:    p.ViewCount,
		}
	})
	slices.SortFunc(items, func(a, b core.FeedItem) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return items, nil
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CurrentUser returns nil when nobody is signed in; that is a valid state.
func (c *Client) CurrentUser(ctx context.Context) (*core.User, error) {
	res, err := c.r(ctx).
		SetResult(&userResponse{}).
		Get(currentUserPath)
	if err != nil {
		return nil, fmt.Errorf("%w: current user: %v", core.ErrTransport, err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		if !isJSON(res) {
			return nil, fmt.Errorf("%w: current user: unexpected content type %q", core.ErrTransport, res.Header().Get("Content-Type"))
		}
		u := res.Result().(*userResponse)
		return &core.User{ID: u.ID, Username: u.Username}, nil
	case http.StatusNotFound, http.StatusUnauthorized:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: current user: unexpected status %d", core.ErrTransport, res.StatusCode())
	}
}

// HasLiked reports whether a like record exists; a 404 is plain "not liked".
func (c *Client) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	res, err := c.r(ctx).
		SetPathParam("post", postID).
		SetPathParam("user", userID).
		Get(likePath)
	if err != nil {
		return false, fmt.Errorf("%w: like lookup: %v", core.ErrTransport, err)
	}

	switch res.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: like lookup: unexpected status %d", core.ErrTransport, res.StatusCode())
	}
}

func (c *Client) InsertLike(ctx context.Context, userID, postID string) error {
	res, err := c.r(ctx).
		SetPathParam("post", postID).
		SetPathParam("user", userID).
		Put(likePath)
	if err != nil {
		return fmt.Errorf("%w: insert like: %v", core.ErrTransport, err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("%w: insert like: unexpected status %d", core.ErrTransport, res.StatusCode())
	}
	return nil
}

func (c *Client) DeleteLike(ctx context.Context, userID, postID string) error {
	res, err := c.r(ctx).
		SetPathParam("post", postID).
		SetPathParam("user", userID).
		Delete(likePath)
	if err != nil {
		return fmt.Errorf("%w: delete like: %v", core.ErrTransport, err)
	}
	// Deleting an already-absent record settles to the same state.
	if !res.IsSuccess() && res.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("%w: delete like: unexpected status %d", core.ErrTransport, res.StatusCode())
	}
	return nil
}
