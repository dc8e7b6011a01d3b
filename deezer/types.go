package deezer

// Track is the subset of the Deezer track object the resolver reads.
type Track struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Link   string `json:"link"`
	Artist struct {
		Name string `json:"name"`
		Link string `json:"link"`
	} `json:"artist"`
	Album struct {
		Title string `json:"title"`
	} `json:"album"`
}

// apiError is returned in a 200 response body when a request fails.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type trackResponse struct {
	Track
	Error *apiError `json:"error,omitempty"`
}

type searchResponse struct {
	Data  []Track   `json:"data"`
	Total int       `json:"total"`
	Error *apiError `json:"error,omitempty"`
}

// Deezer reports "no data" with code 800.
const codeDataNotFound = 800
