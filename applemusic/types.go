package applemusic

// Request is a parsed Apple Music or iTunes track link.
type Request struct {
	Country string // e.g. "us", empty when the path carries none
	AlbumID string
	TrackID string
}

// Track is one entry of an iTunes Search or Lookup API response.
type Track struct {
	WrapperType    string `json:"wrapperType"`
	Kind           string `json:"kind"`
	TrackID        int64  `json:"trackId"`
	CollectionID   int64  `json:"collectionId"`
	TrackName      string `json:"trackName"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	TrackViewURL   string `json:"trackViewUrl"`
	ArtistViewURL  string `json:"artistViewUrl"`
}

type lookupResponse struct {
	ResultCount int     `json:"resultCount"`
	Results     []Track `json:"results"`
}

// TrackInfo is the metadata recoverable from a music.apple.com page.
type TrackInfo struct {
	Title   string
	Artists []string
	Album   string
}
