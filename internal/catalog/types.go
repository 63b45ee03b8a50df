package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// envelope is the wrapper every catalog response arrives in. Older deployments
// report status "SUCCESS", newer ones success: true.
type envelope struct {
	Status  string          `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) ok() bool {
	return strings.EqualFold(e.Status, "SUCCESS") || e.Success
}

// flexString decodes a JSON string, number, or null into a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(string(b))
	}
	return nil
}

// Int parses the value as whole seconds, ignoring fractions. Unparseable values are 0.
func (f flexString) Int() int {
	s := strings.TrimSpace(string(f))
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}

type rawArtist struct {
	ID    flexString `json:"id"`
	Name  string     `json:"name"`
	Image []rawLink  `json:"image"`
}

// artistList decodes either a comma separated string or a list of artist objects.
type artistList []rawArtist

func (a *artistList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = nil
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*a = nil
			return nil
		}
		*a = artistList{{Name: s}}
		return nil
	}

	var list []rawArtist
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*a = list
	return nil
}

func (a artistList) names() string {
	names := make([]string, 0, len(a))
	for _, artist := range a {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	return strings.Join(names, ", ")
}

// albumRef decodes either an album name or an {id, name} object.
type albumRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a *albumRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &a.Name)
	}

	var obj struct {
		ID   flexString `json:"id"`
		Name string     `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	a.ID, a.Name = string(obj.ID), obj.Name
	return nil
}

// rawLink is an image or download entry. Quality is "320kbps" for audio and "500x500" for images.
type rawLink struct {
	Quality string `json:"quality"`
	Link    string `json:"link"`
	URL     string `json:"url"`
}

func (l rawLink) href() string {
	if l.URL != "" {
		return l.URL
	}
	return l.Link
}

// rank extracts the leading number from the quality label.
func (l rawLink) rank() int {
	q := strings.TrimSpace(l.Quality)
	end := 0
	for end < len(q) && q[end] >= '0' && q[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(q[:end])
	return n
}

// linkList decodes a list of links, or a bare URL string.
type linkList []rawLink

func (l *linkList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == "false" {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = linkList{{Link: s}}
		return nil
	}

	var list []rawLink
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// best returns the href with the highest rank; later entries win ties.
func (l linkList) best() string {
	best, bestRank := "", -1
	for _, link := range l {
		if link.href() == "" {
			continue
		}
		if r := link.rank(); r >= bestRank {
			best, bestRank = link.href(), r
		}
	}
	return best
}

type rawArtists struct {
	Primary artistList `json:"primary"`
	All     artistList `json:"all"`
}

type rawSong struct {
	ID             flexString `json:"id"`
	Name           string     `json:"name"`
	Title          string     `json:"title"`
	Album          albumRef   `json:"album"`
	Duration       flexString `json:"duration"`
	PrimaryArtists artistList `json:"primaryArtists"`
	Artists        rawArtists `json:"artists"`
	Image          linkList   `json:"image"`
	DownloadURL    linkList   `json:"downloadUrl"`
	MediaURL       string     `json:"media_url"`
}

type rawSearch struct {
	Results []rawSong `json:"results"`
}

type rawAlbum struct {
	ID             flexString `json:"id"`
	Name           string     `json:"name"`
	Title          string     `json:"title"`
	Year           flexString `json:"year"`
	PrimaryArtists artistList `json:"primaryArtists"`
	Artists        rawArtists `json:"artists"`
	Image          linkList   `json:"image"`
	Songs          []rawSong  `json:"songs"`
}

type rawArtistDetail struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	Image         linkList   `json:"image"`
	FollowerCount flexString `json:"followerCount"`
	TopSongs      []rawSong  `json:"topSongs"`
}

type rawPlaylist struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       linkList   `json:"image"`
	Songs       []rawSong  `json:"songs"`
}

type rawLyrics struct {
	Lyrics  string `json:"lyrics"`
	Snippet string `json:"snippet"`
}
