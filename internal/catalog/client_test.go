package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/harmony/internal/shared"
)

const searchBody = `{
  "status": "SUCCESS",
  "data": {
    "results": [
      {
        "id": "s1",
        "name": "Tum Hi Ho &amp; Reprise",
        "album": {"id": "a1", "name": "Aashiqui 2"},
        "duration": "262",
        "primaryArtists": "Arijit Singh",
        "image": [
          {"quality": "50x50", "link": "https://img/50.jpg"},
          {"quality": "500x500", "link": "https://img/500.jpg"},
          {"quality": "150x150", "link": "https://img/150.jpg"}
        ],
        "downloadUrl": [
          {"quality": "96kbps", "link": "https://aac/96.mp4"},
          {"quality": "320kbps", "link": "https://aac/320.mp4"},
          {"quality": "160kbps", "link": "https://aac/160.mp4"}
        ]
      },
      {
        "id": "s2",
        "title": "Kesariya",
        "album": "Brahmastra",
        "duration": 268,
        "artists": {"primary": [{"id": 1, "name": "Pritam"}, {"id": 2, "name": "Arijit Singh"}]},
        "image": [{"quality": "500x500", "url": "https://img/k.jpg"}],
        "downloadUrl": [{"quality": "320kbps", "url": "https://aac/k.mp4"}]
      },
      {"id": "s3", "name": "No Audio", "primaryArtists": [], "downloadUrl": []}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, WithHTTPClient(server.Client()))
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		if c := New(""); c.BaseURL() != DefaultBaseURL {
			t.Errorf("expected base url %s, got %s", DefaultBaseURL, c.BaseURL())
		}
		if c := New("http://localhost:9000/"); c.BaseURL() != "http://localhost:9000" {
			t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
		}
	})

	t.Run("Search normalizes every shape", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search/songs" {
				t.Errorf("expected path /search/songs, got %s", r.URL.Path)
			}
			if q := r.URL.Query().Get("query"); q != "arijit" {
				t.Errorf("expected query arijit, got %s", q)
			}
			w.Write([]byte(searchBody))
		})

		tracks, err := client.Search(context.Background(), "arijit")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}

		first := tracks[0]
		if first.Title != "Tum Hi Ho & Reprise" {
			t.Errorf("expected unescaped title, got %q", first.Title)
		}
		if first.PlayableURL != "https://aac/320.mp4" {
			t.Errorf("expected highest quality link, got %s", first.PlayableURL)
		}
		if first.CoverURL != "https://img/500.jpg" {
			t.Errorf("expected largest image, got %s", first.CoverURL)
		}
		if first.Duration != 262 || first.Artist != "Arijit Singh" || first.Album != "Aashiqui 2" {
			t.Errorf("unexpected track %+v", first)
		}

		second := tracks[1]
		if second.Title != "Kesariya" || second.Album != "Brahmastra" || second.Duration != 268 {
			t.Errorf("unexpected track %+v", second)
		}
		if second.Artist != "Pritam, Arijit Singh" {
			t.Errorf("expected joined artist list, got %q", second.Artist)
		}
		if second.PlayableURL != "https://aac/k.mp4" {
			t.Errorf("expected url field to be read, got %s", second.PlayableURL)
		}

		if tracks[2].Playable() {
			t.Error("track without download links should not be playable")
		}
	})

	t.Run("success flag envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": true, "data": {"id": "s9", "name": "One", "downloadUrl": [{"quality": "12kbps", "url": "u"}]}}`))
		})

		tracks, err := client.Song(context.Background(), "s9")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "s9" {
			t.Errorf("expected single object to be wrapped, got %+v", tracks)
		}
	})

	t.Run("failures degrade to empty values", func(t *testing.T) {
		tt := []struct {
			name    string
			handler http.HandlerFunc
		}{
			{
				name: "server error",
				handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadGateway)
				},
			},
			{
				name: "failed envelope",
				handler: func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"status": "FAILED", "message": "nope"}`))
				},
			},
			{
				name: "garbage body",
				handler: func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`<html>`))
				},
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				client := newTestClient(t, tc.handler)
				ctx := context.Background()

				tracks, err := client.Search(ctx, "x")
				if !errors.Is(err, shared.ErrServiceUnavailable) {
					t.Errorf("expected ErrServiceUnavailable, got %v", err)
				}
				if tracks == nil || len(tracks) != 0 {
					t.Errorf("expected empty non-nil slice, got %#v", tracks)
				}

				album, _ := client.Album(ctx, "a")
				if album.Songs == nil {
					t.Error("expected empty album songs slice")
				}

				lyrics, _ := client.Lyrics(ctx, "s")
				if lyrics.Lyrics != "" {
					t.Errorf("expected empty lyrics, got %q", lyrics.Lyrics)
				}
			})
		}
	})

	t.Run("empty search term", func(t *testing.T) {
		client := New("http://127.0.0.1:1")
		if _, err := client.Search(context.Background(), "  "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Album, Artist, Playlist and Lyrics", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/albums":
				w.Write([]byte(`{"status":"SUCCESS","data":{"id":"a1","name":"Album","year":2013,"primaryArtists":"Mithoon","songs":[{"id":"s1","name":"One"}]}}`))
			case "/artists":
				w.Write([]byte(`{"status":"SUCCESS","data":{"id":"ar1","name":"Arijit","followerCount":"1200","topSongs":[{"id":"s1","name":"One"},{"id":"s2","name":"Two"}]}}`))
			case "/playlists":
				w.Write([]byte(`{"status":"SUCCESS","data":{"id":"p1","title":"Top 50","songs":[]}}`))
			case "/lyrics":
				w.Write([]byte(`{"status":"SUCCESS","data":{"lyrics":"line one<br>line two"}}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})
		ctx := context.Background()

		album, err := client.Album(ctx, "a1")
		if err != nil || album.Name != "Album" || album.Year != "2013" || album.Artist != "Mithoon" || len(album.Songs) != 1 {
			t.Errorf("unexpected album %+v (err %v)", album, err)
		}

		artist, err := client.Artist(ctx, "ar1")
		if err != nil || artist.Followers != 1200 || len(artist.TopSongs) != 2 {
			t.Errorf("unexpected artist %+v (err %v)", artist, err)
		}

		playlist, err := client.Playlist(ctx, "p1")
		if err != nil || playlist.Name != "Top 50" || playlist.Songs == nil {
			t.Errorf("unexpected playlist %+v (err %v)", playlist, err)
		}

		lyrics, err := client.Lyrics(ctx, "s1")
		if err != nil || lyrics.Lyrics != "line one\nline two" {
			t.Errorf("unexpected lyrics %q (err %v)", lyrics.Lyrics, err)
		}
	})
}

func TestLinkRanking(t *testing.T) {
	tc := []struct {
		name  string
		links linkList
		want  string
	}{
		{name: "empty", links: nil, want: ""},
		{name: "unranked keeps last", links: linkList{{Link: "a"}, {Link: "b"}}, want: "b"},
		{name: "kbps", links: linkList{{Quality: "320kbps", Link: "hi"}, {Quality: "48kbps", Link: "lo"}}, want: "hi"},
		{name: "skips blank", links: linkList{{Quality: "999kbps"}, {Quality: "12kbps", URL: "ok"}}, want: "ok"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.links.best(); got != tt.want {
				t.Errorf("best() = %q, want %q", got, tt.want)
			}
		})
	}
}
