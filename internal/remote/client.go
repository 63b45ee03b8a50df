// Package remote is the player's HTTP client for the harmony server.
//
// A [Client] built with a session token satisfies both the library's Remote
// (favorites and playlists) and the player's Catalog (search and lyrics). Built
// without one, catalog reads still work and every account call returns
// [shared.ErrLocalOnly].
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/player"
	"github.com/desertthunder/harmony/internal/shared"
)

const DefaultBaseURL = "http://127.0.0.1:5000"

var (
	_ library.Remote = (*Client)(nil)
	_ player.Catalog = (*Client)(nil)
)

// Client calls the harmony API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithToken sets the session token sent as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient sets the base transport. The bearer token is layered on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the server at baseURL. An empty baseURL uses [DefaultBaseURL].
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"})
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc := *c.httpClient
		hc.Transport = &oauth2.Transport{Source: src, Base: base}
		c.httpClient = &hc
	}
	return c
}

// Authenticated reports whether the client carries a session token.
func (c *Client) Authenticated() bool { return c.token != "" }

// APIError is a non-2xx response. It unwraps to the matching shared sentinel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return shared.ErrInvalidInput
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case http.StatusForbidden:
		return shared.ErrForbidden
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusConflict:
		return shared.ErrAlreadyExists
	default:
		return shared.ErrAPIRequest
	}
}

// doRequest sends body as JSON and decodes the response into result.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// account guards calls that need a session.
func (c *Client) account(ctx context.Context, method, endpoint string, body, result any) error {
	if !c.Authenticated() {
		return shared.ErrLocalOnly
	}
	return c.doRequest(ctx, method, endpoint, body, result)
}

type data[T any] struct {
	Data T `json:"data"`
}

// Search returns catalog songs matching term.
func (c *Client) Search(ctx context.Context, term string) ([]models.Track, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Track{}, fmt.Errorf("%w: empty search term", shared.ErrMissingArgument)
	}

	var resp data[struct {
		Results []models.Track `json:"results"`
	}]
	if err := c.doRequest(ctx, http.MethodGet, "/api/music/search?"+url.Values{"query": {term}}.Encode(), nil, &resp); err != nil {
		return []models.Track{}, err
	}
	if resp.Data.Results == nil {
		return []models.Track{}, nil
	}
	return resp.Data.Results, nil
}

// Song returns the catalog song(s) for id.
func (c *Client) Song(ctx context.Context, id string) ([]models.Track, error) {
	var resp data[[]models.Track]
	err := c.doRequest(ctx, http.MethodGet, "/api/music/songs/"+url.PathEscape(id), nil, &resp)
	return resp.Data, err
}

func (c *Client) Album(ctx context.Context, id string) (models.Album, error) {
	var resp data[models.Album]
	err := c.doRequest(ctx, http.MethodGet, "/api/music/albums/"+url.PathEscape(id), nil, &resp)
	return resp.Data, err
}

func (c *Client) Artist(ctx context.Context, id string) (models.Artist, error) {
	var resp data[models.Artist]
	err := c.doRequest(ctx, http.MethodGet, "/api/music/artists/"+url.PathEscape(id), nil, &resp)
	return resp.Data, err
}

// Lyrics returns the lyrics for id. The server substitutes a placeholder when
// none exist.
func (c *Client) Lyrics(ctx context.Context, id string) (models.Lyrics, error) {
	var resp models.Lyrics
	err := c.doRequest(ctx, http.MethodGet, "/api/music/songs/"+url.PathEscape(id)+"/lyrics", nil, &resp)
	return resp, err
}

// CurrentUser returns the session user's profile, favorites and playlists included.
func (c *Client) CurrentUser(ctx context.Context) (models.Profile, error) {
	var profile models.Profile
	err := c.account(ctx, http.MethodGet, "/api/auth/me", nil, &profile)
	return profile, err
}

func (c *Client) AddFavorite(ctx context.Context, track models.Track) ([]models.Track, error) {
	var liked []models.Track
	err := c.account(ctx, http.MethodPost, "/api/users/favorites/add", map[string]any{"song": track}, &liked)
	return liked, err
}

func (c *Client) RemoveFavorite(ctx context.Context, trackID string) ([]models.Track, error) {
	var liked []models.Track
	err := c.account(ctx, http.MethodPost, "/api/users/favorites/remove", map[string]string{"songId": trackID}, &liked)
	return liked, err
}

func (c *Client) CreatePlaylist(ctx context.Context, fields models.PlaylistFields) (models.PlaylistView, error) {
	var view models.PlaylistView
	err := c.account(ctx, http.MethodPost, "/api/music/playlists", fields, &view)
	return view, err
}

func (c *Client) EditPlaylist(ctx context.Context, id string, fields models.PlaylistFields) (models.PlaylistView, error) {
	var view models.PlaylistView
	err := c.account(ctx, http.MethodPut, "/api/music/playlists/"+url.PathEscape(id), fields, &view)
	return view, err
}

func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	err := c.account(ctx, http.MethodDelete, "/api/music/playlists/"+url.PathEscape(id), nil, nil)
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return err
}

func (c *Client) AddSongToPlaylist(ctx context.Context, id string, track models.Track) (models.PlaylistView, error) {
	var view models.PlaylistView
	err := c.account(ctx, http.MethodPost, "/api/music/playlists/"+url.PathEscape(id)+"/songs", map[string]any{"song": track}, &view)
	return view, err
}

func (c *Client) RemoveSongFromPlaylist(ctx context.Context, id, songID string) (models.PlaylistView, error) {
	var view models.PlaylistView
	endpoint := "/api/music/playlists/" + url.PathEscape(id) + "/songs/" + url.PathEscape(songID)
	err := c.account(ctx, http.MethodDelete, endpoint, nil, &view)
	return view, err
}
