package models

// Track is the canonical song record. Catalog responses are normalized into it at
// the client boundary, so nothing downstream deals with upstream field variants.
//
// Duration is in whole seconds.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	CoverURL    string `json:"coverUrl"`
	Duration    int    `json:"duration"`
	PlayableURL string `json:"playableUrl"`
}

// Key is the track identity: the catalog id, or the playable url when the id is missing.
func (t Track) Key() string {
	if t.ID != "" {
		return t.ID
	}
	return t.PlayableURL
}

// Playable reports whether the track has a source a sink can load.
func (t Track) Playable() bool {
	return t.PlayableURL != ""
}

// Same reports whether t and o identify the same song. Two keyless tracks are never the same.
func (t Track) Same(o Track) bool {
	k := t.Key()
	return k != "" && k == o.Key()
}

// IndexOf returns the position of the track with key in tracks, or -1.
func IndexOf(tracks []Track, key string) int {
	if key == "" {
		return -1
	}
	for i, t := range tracks {
		if t.Key() == key {
			return i
		}
	}
	return -1
}
