package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpotify struct {
	mux        *http.ServeMux
	tokenCalls atomic.Int32
	rateLimit  atomic.Int32 // remaining 429s to serve on /v1/playlists
}

func newFakeSpotify(t *testing.T) (*fakeSpotify, *httptest.Server) {
	t.Helper()
	f := &fakeSpotify{mux: http.NewServeMux()}

	f.mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(
		WithCredentials("client-id", "client-secret"),
		WithAPIURL(srv.URL+"/v1"),
		WithAuthURL(srv.URL+"/token"),
		WithHTTPClient(srv.Client()),
		WithMaxRetries(2),
	)
}

func playlistJSON(srvURL, next string, items ...map[string]any) map[string]any {
	tracks := map[string]any{"items": items, "next": ""}
	if next != "" {
		tracks["next"] = srvURL + next
	}
	return map[string]any{"id": "pl1", "name": "Crate Diggers", "tracks": tracks}
}

func item(artistID, artistName, track string) map[string]any {
	return map[string]any{
		"added_at": "2024-01-15T10:00:00Z",
		"track": map[string]any{
			"id":      "t-" + track,
			"name":    track,
			"artists": []map[string]any{{"id": artistID, "name": artistName}},
		},
	}
}

func TestFetchPlaylist(t *testing.T) {
	f, srv := newFakeSpotify(t)

	f.mux.HandleFunc("/v1/playlists/pl1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(playlistJSON(srv.URL, "/v1/playlists/pl1/tracks?offset=2",
			item("a1", "Artist One", "Track One"),
			item("a2", "Artist Two", "Track Two"),
		))
	})
	f.mux.HandleFunc("/v1/playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{item("a3", "Artist Three", "Track Three")},
			"next":  "",
		})
	})
	f.mux.HandleFunc("/v1/artists", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		artists := make([]map[string]any, 0, len(ids))
		for i, id := range ids {
			artists = append(artists, map[string]any{
				"id":         id,
				"name":       "resolved-" + id,
				"popularity": 40 + i,
				"followers":  map[string]any{"total": 10_000 * (i + 1)},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"artists": artists})
	})

	name, obs, err := newTestClient(srv).FetchPlaylist(context.Background(), "pl1")
	require.NoError(t, err)

	assert.Equal(t, "Crate Diggers", name)
	require.Len(t, obs, 3, "pagination should pull the second page")

	assert.Equal(t, "a1", obs[0].ArtistID)
	assert.Equal(t, "Track One", obs[0].TrackName)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), obs[0].AddedAt)
	assert.Positive(t, obs[0].CurrentFollowers)
	assert.Positive(t, obs[0].CurrentPopularity)

	assert.EqualValues(t, 1, f.tokenCalls.Load(), "token should be fetched once and reused")
}

func TestFetchPlaylistMissingTrackPayload(t *testing.T) {
	f, srv := newFakeSpotify(t)

	f.mux.HandleFunc("/v1/playlists/pl1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(playlistJSON(srv.URL, "",
			item("a1", "Artist One", "Track One"),
			map[string]any{"added_at": "2024-01-15T10:00:00Z", "track": nil},
		))
	})
	f.mux.HandleFunc("/v1/artists", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"artists": []map[string]any{
			{"id": "a1", "name": "Artist One", "popularity": 50, "followers": map[string]any{"total": 500}},
		}})
	})

	_, obs, err := newTestClient(srv).FetchPlaylist(context.Background(), "pl1")
	require.NoError(t, err)

	require.Len(t, obs, 2, "malformed entries pass through for the aggregator to skip")
	assert.Empty(t, obs[1].ArtistID)
	assert.Empty(t, obs[1].TrackName)
}

func TestFetchPlaylistNotFound(t *testing.T) {
	f, srv := newFakeSpotify(t)

	f.mux.HandleFunc("/v1/playlists/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, _, err := newTestClient(srv).FetchPlaylist(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchPlaylistRetriesOn429(t *testing.T) {
	f, srv := newFakeSpotify(t)
	f.rateLimit.Store(1)

	f.mux.HandleFunc("/v1/playlists/pl1", func(w http.ResponseWriter, r *http.Request) {
		if f.rateLimit.Add(-1) >= 0 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(playlistJSON(srv.URL, "", item("a1", "Artist One", "Track One")))
	})
	f.mux.HandleFunc("/v1/artists", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"artists": []map[string]any{
			{"id": "a1", "name": "Artist One", "popularity": 10, "followers": map[string]any{"total": 100}},
		}})
	})

	_, obs, err := newTestClient(srv).FetchPlaylist(context.Background(), "pl1")
	require.NoError(t, err)
	assert.Len(t, obs, 1)
}

func TestFetchPlaylistBadCredentials(t *testing.T) {
	_, srv := newFakeSpotify(t)

	client := NewClient(
		WithCredentials("client-id", "wrong"),
		WithAPIURL(srv.URL+"/v1"),
		WithAuthURL(srv.URL+"/token"),
		WithHTTPClient(srv.Client()),
	)
	_, _, err := client.FetchPlaylist(context.Background(), "pl1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestArtistBatching(t *testing.T) {
	f, srv := newFakeSpotify(t)

	items := make([]map[string]any, 0, 60)
	for i := 0; i < 60; i++ {
		items = append(items, item(fmt.Sprintf("a%02d", i), "Artist", fmt.Sprintf("Track %02d", i)))
	}
	f.mux.HandleFunc("/v1/playlists/pl1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(playlistJSON(srv.URL, "", items...))
	})

	var batchCalls atomic.Int32
	f.mux.HandleFunc("/v1/artists", func(w http.ResponseWriter, r *http.Request) {
		batchCalls.Add(1)
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		require.LessOrEqual(t, len(ids), 50, "batches must respect the 50-id cap")
		artists := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			artists = append(artists, map[string]any{
				"id": id, "name": "n", "popularity": 1, "followers": map[string]any{"total": 1},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"artists": artists})
	})

	_, obs, err := newTestClient(srv).FetchPlaylist(context.Background(), "pl1")
	require.NoError(t, err)
	assert.Len(t, obs, 60)
	assert.EqualValues(t, 2, batchCalls.Load())
}
