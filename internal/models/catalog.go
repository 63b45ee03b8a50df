package models

// Album is a catalog album with its songs.
type Album struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Artist   string  `json:"artist"`
	Year     string  `json:"year,omitempty"`
	CoverURL string  `json:"coverUrl"`
	Songs    []Track `json:"songs"`
}

// Artist is a catalog artist with their top songs.
type Artist struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	Followers int     `json:"followers,omitempty"`
	TopSongs  []Track `json:"topSongs"`
}

// CatalogPlaylist is a playlist curated by the catalog (as opposed to a user [Playlist]).
type CatalogPlaylist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	CoverURL    string  `json:"coverUrl"`
	Songs       []Track `json:"songs"`
}

// Lyrics wraps lyric text. Empty text means none were found.
type Lyrics struct {
	Lyrics string `json:"lyrics"`
}
