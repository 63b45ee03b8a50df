// package formatter renders track listings (albums, artists, playlists, search results) as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// Format names an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name, case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Listing is a titled list of tracks.
type Listing struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle,omitempty"`
	Description string         `json:"description,omitempty"`
	CoverURL    string         `json:"coverUrl,omitempty"`
	Tracks      []models.Track `json:"tracks"`
}

func FromTracks(title string, tracks []models.Track) Listing {
	return Listing{Title: title, Tracks: tracks}
}

func FromAlbum(a models.Album) Listing {
	sub := a.Artist
	if a.Year != "" {
		sub = fmt.Sprintf("%s (%s)", sub, a.Year)
	}
	return Listing{ID: a.ID, Title: a.Name, Subtitle: sub, CoverURL: a.CoverURL, Tracks: a.Songs}
}

func FromArtist(a models.Artist) Listing {
	l := Listing{ID: a.ID, Title: a.Name, CoverURL: a.ImageURL, Tracks: a.TopSongs}
	if a.Followers > 0 {
		l.Subtitle = humanize.Comma(int64(a.Followers)) + " followers"
	}
	return l
}

func FromCatalogPlaylist(p models.CatalogPlaylist) Listing {
	return Listing{ID: p.ID, Title: p.Name, Description: p.Description, CoverURL: p.CoverURL, Tracks: p.Songs}
}

func FromPlaylistView(v models.PlaylistView) Listing {
	return Listing{ID: v.ID, Title: v.Name, Description: v.Description, CoverURL: v.CoverURL, Tracks: v.Tracks}
}

// TotalDuration sums the track durations in seconds.
func (l Listing) TotalDuration() int {
	var total int
	for _, t := range l.Tracks {
		total += t.Duration
	}
	return total
}

func (l Listing) summary() string {
	n := len(l.Tracks)
	noun := "tracks"
	if n == 1 {
		noun = "track"
	}
	return fmt.Sprintf("%s %s, %s", humanize.Comma(int64(n)), noun, shared.FormatDuration(l.TotalDuration()))
}

// ToCSV renders the tracks with columns: ID, Title, Artist, Album, Duration, URL
func ToCSV(l Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range l.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			track.PlayableURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown renders the listing with an optional cover image
func ToMarkdown(l Listing, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}
	if l.Subtitle != "" {
		fmt.Fprintf(&buf, "_%s_\n\n", l.Subtitle)
	}
	if l.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", l.Description)
	}
	fmt.Fprintf(&buf, "**Tracks**: %s\n\n", l.summary())

	buf.WriteString("## Tracks\n\n")
	for i, track := range l.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, shared.FormatDuration(track.Duration))
	}
	return buf.Bytes(), nil
}

// ToText renders the listing as plain text
func ToText(l Listing) ([]byte, error) {
	var buf bytes.Buffer

	if l.Title != "" {
		fmt.Fprintf(&buf, "%s\n", l.Title)
	}
	if l.Subtitle != "" {
		fmt.Fprintf(&buf, "%s\n", l.Subtitle)
	}
	if l.Description != "" {
		fmt.Fprintf(&buf, "%s\n", l.Description)
	}
	fmt.Fprintf(&buf, "%s\n\n", l.summary())

	for i, track := range l.Tracks {
		fmt.Fprintf(&buf, "%2d. %s - %s [%s]", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
		if track.ID != "" {
			fmt.Fprintf(&buf, "  (%s)", track.ID)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// ToJSON renders v as indented JSON.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render encodes the listing in format f.
func Render(l Listing, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ToCSV(l)
	case FormatMarkdown:
		return ToMarkdown(l, "")
	case FormatJSON:
		return ToJSON(l)
	default:
		return ToText(l)
	}
}

// Print writes the listing in format f to w.
func Print(w io.Writer, l Listing, f Format) error {
	data, err := Render(l, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// DownloadImage fetches an image and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

// ExportResult lists the files written by an export
type ExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteExport writes the listing into outputDir.
//
// Directory name defaults to the listing ID. Markdown exports also try to
// fetch the cover into {dir}/cover.jpg; a failed download only drops the image.
// Creates {dir}/README.md, {dir}/tracks.csv, {dir}/tracks.txt or {dir}/listing.json
func WriteExport(ctx context.Context, client *http.Client, l Listing, f Format, outputDir string) (*ExportResult, error) {
	if outputDir == "" {
		outputDir = l.ID
	}
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{Directory: outputDir, Files: []string{}}

	var (
		data []byte
		name string
		err  error
	)
	switch f {
	case FormatMarkdown:
		var cover string
		if l.CoverURL != "" {
			cover = result.writeCover(ctx, client, l.CoverURL)
		}
		data, err = ToMarkdown(l, cover)
		name = "README.md"
	case FormatCSV:
		data, err = ToCSV(l)
		name = "tracks.csv"
	case FormatJSON:
		data, err = ToJSON(l)
		name = "listing.json"
	default:
		data, err = ToText(l)
		name = "tracks.txt"
	}
	if err != nil {
		return nil, err
	}

	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	result.Files = append(result.Files, path)
	return result, nil
}

func (r *ExportResult) writeCover(ctx context.Context, client *http.Client, url string) string {
	imageData, err := DownloadImage(ctx, client, url)
	if err != nil {
		return ""
	}
	path := filepath.Join(r.Directory, "cover.jpg")
	if err := os.WriteFile(path, imageData, 0644); err != nil {
		return ""
	}
	r.CoverImage = path
	r.Files = append(r.Files, path)
	return "cover.jpg"
}
