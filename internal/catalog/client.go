package catalog

import (
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
	"golang.org/x/time/rate"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

const (
	DefaultBaseURL = "https://saavn.me"
	searchLimit    = 20
)

// Client talks to the upstream catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces [http.DefaultClient].
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit allows rps requests per second with the given burst. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout bounds each request. Zero keeps the HTTP client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a catalog client. An empty baseURL uses [DefaultBaseURL].
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     shared.NewLogger(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the upstream root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrServiceUnavailable, err)
	}

	apiURL := c.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: catalog returned status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrServiceUnavailable, err)
	}
	if !env.ok() {
		return fmt.Errorf("%w: catalog reported failure: %s", shared.ErrServiceUnavailable, env.Message)
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("%w: failed to decode data: %v", shared.ErrServiceUnavailable, err)
		}
	}
	return nil
}

func (c *Client) fail(op string, err error, kv ...any) {
	if errors.Is(err, context.Canceled) {
		return
	}
	c.logger.Warn("catalog request failed", append([]any{"op", op, "err", err}, kv...)...)
}

// Search returns up to 20 songs matching term.
func (c *Client) Search(ctx context.Context, term string) ([]models.Track, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Track{}, fmt.Errorf("%w: empty search term", shared.ErrMissingArgument)
	}

	params := url.Values{"query": {term}, "page": {"1"}, "limit": {fmt.Sprint(searchLimit)}}

	var raw rawSearch
	if err := c.doRequest(ctx, "/search/songs", params, &raw); err != nil {
		c.fail("search", err, "query", term)
		return []models.Track{}, err
	}
	return toTracks(raw.Results), nil
}

// Song returns the song(s) for id. The catalog answers with one object or a list.
func (c *Client) Song(ctx context.Context, id string) ([]models.Track, error) {
	var data json.RawMessage
	if err := c.doRequest(ctx, "/songs", url.Values{"id": {id}}, &data); err != nil {
		c.fail("song", err, "id", id)
		return []models.Track{}, err
	}

	var songs []rawSong
	if err := json.Unmarshal(data, &songs); err != nil {
		var one rawSong
		if err := json.Unmarshal(data, &one); err != nil {
			err = fmt.Errorf("%w: failed to decode song: %v", shared.ErrServiceUnavailable, err)
			c.fail("song", err, "id", id)
			return []models.Track{}, err
		}
		songs = []rawSong{one}
	}
	return toTracks(songs), nil
}

// Album returns an album with its songs.
func (c *Client) Album(ctx context.Context, id string) (models.Album, error) {
	var raw rawAlbum
	if err := c.doRequest(ctx, "/albums", url.Values{"id": {id}}, &raw); err != nil {
		c.fail("album", err, "id", id)
		return models.Album{Songs: []models.Track{}}, err
	}
	return toAlbum(raw), nil
}

// Artist returns an artist with their top songs.
func (c *Client) Artist(ctx context.Context, id string) (models.Artist, error) {
	params := url.Values{"id": {id}, "page": {"1"}, "limit": {fmt.Sprint(searchLimit)}}

	var raw rawArtistDetail
	if err := c.doRequest(ctx, "/artists", params, &raw); err != nil {
		c.fail("artist", err, "id", id)
		return models.Artist{TopSongs: []models.Track{}}, err
	}
	return toArtist(raw), nil
}

// Playlist returns a catalog-curated playlist.
func (c *Client) Playlist(ctx context.Context, id string) (models.CatalogPlaylist, error) {
	var raw rawPlaylist
	if err := c.doRequest(ctx, "/playlists", url.Values{"id": {id}}, &raw); err != nil {
		c.fail("playlist", err, "id", id)
		return models.CatalogPlaylist{Songs: []models.Track{}}, err
	}
	return toPlaylist(raw), nil
}

// Lyrics returns the lyrics for a song id. Empty text means none are available.
func (c *Client) Lyrics(ctx context.Context, id string) (models.Lyrics, error) {
	var raw rawLyrics
	if err := c.doRequest(ctx, "/lyrics", url.Values{"id": {id}}, &raw); err != nil {
		c.fail("lyrics", err, "id", id)
		return models.Lyrics{}, err
	}
	return models.Lyrics{Lyrics: lyricsText(raw)}, nil
}
