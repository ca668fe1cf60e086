// Package spotify fetches playlist, track, and artist data from the
// Spotify Web API and turns it into track observations for scoring.
//
// The client handles client-credentials token acquisition and refresh,
// playlist pagination, and batched artist lookups. The scoring core
// never touches this package; it only sees the observations.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/clout/internal/domain/model"
	"github.com/okian/clout/pkg/logger"
	"github.com/okian/clout/pkg/metrics"
)

const (
	defaultAPIURL      = "https://api.spotify.com/v1"
	defaultAuthURL     = "https://accounts.spotify.com/api/token"
	defaultMaxTracks   = 500
	defaultConcurrency = 4
	defaultMaxRetries  = 3
	artistBatchSize    = 50 // Spotify caps GET /artists at 50 ids
	tokenSafetyMargin  = 30 * time.Second
	baseBackoff        = 500 * time.Millisecond
)

// Fetcher supplies observations for a playlist. The app layer depends
// on this interface so tests can stub the network away.
type Fetcher interface {
	FetchPlaylist(ctx context.Context, playlistID string) (string, []model.TrackObservation, error)
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithCredentials sets the client-credentials pair.
func WithCredentials(id, secret string) Option {
	return func(c *Client) {
		c.clientID = id
		c.clientSecret = secret
	}
}

// WithAPIURL overrides the Web API base URL.
func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAuthURL overrides the token endpoint.
func WithAuthURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.authURL = u
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxTracks caps how many playlist entries are fetched.
func WithMaxTracks(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTracks = n
		}
	}
}

// WithConcurrency bounds parallel artist batch lookups.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxRetries sets how many times a request is retried on 429/5xx.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client implements Fetcher against the Spotify Web API.
type Client struct {
	http         *http.Client
	apiURL       string
	authURL      string
	clientID     string
	clientSecret string
	maxTracks    int
	concurrency  int
	maxRetries   int
	logger       logger.Logger

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a Spotify client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		apiURL:      defaultAPIURL,
		authURL:     defaultAuthURL,
		maxTracks:   defaultMaxTracks,
		concurrency: defaultConcurrency,
		maxRetries:  defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPlaylist pulls the playlist with all its tracks, resolves the
// primary artist of every track, and returns one observation per
// playlist entry. Entries with a missing track payload come through
// with empty fields; the aggregator skips those.
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (string, []model.TrackObservation, error) {
	var playlist playlistResponse
	if err := c.getJSON(ctx, c.apiURL+"/playlists/"+url.PathEscape(playlistID), &playlist); err != nil {
		return "", nil, err
	}

	items := playlist.Tracks.Items
	next := playlist.Tracks.Next
	for next != "" && len(items) < c.maxTracks {
		var page trackPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return "", nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}
	if len(items) > c.maxTracks {
		items = items[:c.maxTracks]
	}

	artists, err := c.fetchArtists(ctx, collectArtistIDs(items))
	if err != nil {
		return "", nil, err
	}

	observations := make([]model.TrackObservation, 0, len(items))
	for _, item := range items {
		observations = append(observations, toObservation(item, artists))
	}
	return playlist.Name, observations, nil
}

func collectArtistIDs(items []playlistItem) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.Track == nil || len(item.Track.Artists) == 0 {
			continue
		}
		id := item.Track.Artists[0].ID
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// fetchArtists resolves artist details in batches of 50 with bounded
// concurrency.
func (c *Client) fetchArtists(ctx context.Context, ids []string) (map[string]artistObject, error) {
	batches := make([][]string, 0, len(ids)/artistBatchSize+1)
	for start := 0; start < len(ids); start += artistBatchSize {
		end := start + artistBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, c.concurrency)
		result  = make(map[string]artistObject, len(ids))
		fetchEr error
	)
	for _, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(batch []string) {
			defer wg.Done()
			defer func() { <-sem }()

			var resp artistsResponse
			u := c.apiURL + "/artists?ids=" + url.QueryEscape(strings.Join(batch, ","))
			if err := c.getJSON(ctx, u, &resp); err != nil {
				mu.Lock()
				if fetchEr == nil {
					fetchEr = err
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			for _, a := range resp.Artists {
				result[a.ID] = a
			}
			mu.Unlock()
		}(batch)
	}
	wg.Wait()

	if fetchEr != nil {
		return nil, fetchEr
	}
	return result, nil
}

func toObservation(item playlistItem, artists map[string]artistObject) model.TrackObservation {
	obs := model.TrackObservation{}
	if t, err := time.Parse(time.RFC3339, item.AddedAt); err == nil {
		obs.AddedAt = t
	}
	if item.Track == nil {
		return obs
	}
	obs.TrackName = item.Track.Name
	if len(item.Track.Artists) == 0 {
		return obs
	}
	ref := item.Track.Artists[0]
	obs.ArtistID = ref.ID
	obs.ArtistName = ref.Name
	if a, ok := artists[ref.ID]; ok {
		obs.CurrentFollowers = a.Followers.Total
		obs.CurrentPopularity = a.Popularity
	}
	return obs
}

// getJSON issues an authorized GET with retry/backoff on 429 and 5xx,
// honoring Retry-After when present.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordFetchRetry()
		}

		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFetch, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		start := time.Now()
		resp, err := c.http.Do(req)
		metrics.RecordFetchRequest(time.Since(start).Seconds())
		if err != nil {
			metrics.RecordFetchError()
			lastErr = fmt.Errorf("%w: %w", ErrFetch, err)
			if !sleepBackoff(ctx, backoff(attempt, "")) {
				return lastErr
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: decode: %w", ErrFetch, err)
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound
		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			// Token may have expired server-side; drop it and retry.
			c.invalidateToken()
			metrics.RecordFetchError()
			lastErr = ErrUnauthorized
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			retryAfter := resp.Header.Get("Retry-After")
			resp.Body.Close()
			metrics.RecordFetchError()
			lastErr = fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
			if !sleepBackoff(ctx, backoff(attempt, retryAfter)) {
				return lastErr
			}
			continue
		default:
			resp.Body.Close()
			metrics.RecordFetchError()
			return fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
		}
	}
	return lastErr
}

// accessToken returns a cached token or fetches a fresh one via the
// client-credentials flow.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode: %w", ErrUnauthorized, err)
	}
	if tok.AccessToken == "" {
		return "", ErrUnauthorized
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSafetyMargin)
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenMu.Unlock()
}

// backoff computes the wait before the next attempt, preferring the
// server's Retry-After header over exponential backoff.
func backoff(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return baseBackoff << attempt
}

func sleepBackoff(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
