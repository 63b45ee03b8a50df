package catalog

import (
	"html"
	"strings"

	"github.com/desertthunder/harmony/internal/models"
)

func unescape(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// artistName picks the most specific artist credit available.
func artistName(primary artistList, artists rawArtists) string {
	return unescape(firstNonEmpty(primary.names(), artists.Primary.names(), artists.All.names()))
}

// toTrack is the only place upstream song shapes become a [models.Track].
func toTrack(s rawSong) models.Track {
	return models.Track{
		ID:          string(s.ID),
		Title:       unescape(firstNonEmpty(s.Name, s.Title)),
		Artist:      artistName(s.PrimaryArtists, s.Artists),
		Album:       unescape(s.Album.Name),
		CoverURL:    s.Image.best(),
		Duration:    s.Duration.Int(),
		PlayableURL: firstNonEmpty(s.DownloadURL.best(), s.MediaURL),
	}
}

func toTracks(songs []rawSong) []models.Track {
	tracks := make([]models.Track, 0, len(songs))
	for _, s := range songs {
		tracks = append(tracks, toTrack(s))
	}
	return tracks
}

func toAlbum(a rawAlbum) models.Album {
	return models.Album{
		ID:       string(a.ID),
		Name:     unescape(firstNonEmpty(a.Name, a.Title)),
		Artist:   artistName(a.PrimaryArtists, a.Artists),
		Year:     string(a.Year),
		CoverURL: a.Image.best(),
		Songs:    toTracks(a.Songs),
	}
}

func toArtist(a rawArtistDetail) models.Artist {
	return models.Artist{
		ID:        string(a.ID),
		Name:      unescape(a.Name),
		ImageURL:  a.Image.best(),
		Followers: a.FollowerCount.Int(),
		TopSongs:  toTracks(a.TopSongs),
	}
}

func toPlaylist(p rawPlaylist) models.CatalogPlaylist {
	return models.CatalogPlaylist{
		ID:          string(p.ID),
		Name:        unescape(firstNonEmpty(p.Name, p.Title)),
		Description: unescape(p.Description),
		CoverURL:    p.Image.best(),
		Songs:       toTracks(p.Songs),
	}
}

// lyricsText converts the catalog's <br> separated markup to plain lines.
func lyricsText(l rawLyrics) string {
	text := firstNonEmpty(l.Lyrics, l.Snippet)
	for _, br := range []string{"<br/>", "<br />", "<br>"} {
		text = strings.ReplaceAll(text, br, "\n")
	}
	return unescape(text)
}
