package platform

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrEmptyID           = errors.New("platform id is empty")
	ErrInvalidCompoundID = errors.New("invalid compound platform id")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

var (
	spotifyTrackRegex = regexp.MustCompile(`track[:/]([0-9A-Za-z=]+)`)
	deezerTrackRegex  = regexp.MustCompile(`track/(\d+)`)
	appleTrackRegex   = regexp.MustCompile(`album/.*[?&]i=(\d+)`)
)

const compoundSeparator = "-"

// hostMarkers is the prefilter applied before any pattern: the URI host must
// be one of these domains or a subdomain of one.
var hostMarkers = map[Platform][]string{
	Spotify:    {"spotify.com"},
	YouTube:    {"youtube.com", "youtu.be"},
	Deezer:     {"deezer.com"},
	AppleMusic: {"itunes.apple.com", "music.apple.com"},
}

const spotifyScheme = "spotify:"

// ParseID extracts the platform-local track id from uri.
// For Apple Music this is the track component only; see ParseCompoundID.
func ParseID(p Platform, uri string) (string, bool) {
	switch p {
	case Spotify:
		return firstGroup(spotifyTrackRegex, uri)
	case YouTube:
		return parseYouTubeID(uri)
	case Deezer:
		return firstGroup(deezerTrackRegex, uri)
	case AppleMusic:
		return firstGroup(appleTrackRegex, uri)
	}
	return "", false
}

func IsParsable(p Platform, uri string) bool {
	_, ok := ParseID(p, uri)
	return ok
}

// ParseCompoundID returns the id a normalizer would assign to the track at uri.
// It equals ParseID except for Apple Music, where both album and track ids are
// required and joined into "<albumId>-<trackId>".
func ParseCompoundID(p Platform, uri string) (string, bool) {
	if p != AppleMusic {
		return ParseID(p, uri)
	}
	albumID, trackID, ok := ParseAppleMusicIDs(uri)
	if !ok || albumID == "" {
		return "", false
	}
	return EncodeAppleMusicID(albumID, trackID), true
}

// Classify reports the first platform, in All order, whose host marker
// matches the host of uri and whose pattern parses it. Text in the path or
// query never selects a platform.
func Classify(uri string) (Platform, bool) {
	for _, p := range All {
		if !hasMarker(p, uri) {
			continue
		}
		if IsParsable(p, uri) {
			return p, true
		}
	}
	return "", false
}

// ReconstructURI builds the canonical public URL for a platform id.
func ReconstructURI(p Platform, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyID
	}

	switch p {
	case Spotify:
		return "https://open.spotify.com/track/" + id, nil
	case YouTube:
		return "https://www.youtube.com/watch?v=" + id, nil
	case Deezer:
		return "https://www.deezer.com/track/" + id, nil
	case AppleMusic:
		albumID, trackID, err := DecodeAppleMusicID(id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://music.apple.com/us/album/%s?i=%s", albumID, trackID), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, string(p))
}

// ParseAppleMusicIDs extracts the album and track ids from an Apple Music or
// iTunes track URL. albumID may be empty when the path carries no numeric
// album segment; ok is false when there is no track id.
func ParseAppleMusicIDs(uri string) (albumID, trackID string, ok bool) {
	trackID, ok = firstGroup(appleTrackRegex, uri)
	if !ok {
		return "", "", false
	}

	idx := strings.Index(uri, "album/")
	rest := uri[idx+len("album/"):]
	if cut := strings.IndexAny(rest, "?#"); cut >= 0 {
		rest = rest[:cut]
	}

	segments := strings.Split(rest, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		segment := strings.TrimPrefix(segments[i], "id")
		if isDigits(segment) {
			return segment, trackID, true
		}
	}
	return "", trackID, true
}

func EncodeAppleMusicID(albumID, trackID string) string {
	return albumID + compoundSeparator + trackID
}

func DecodeAppleMusicID(id string) (albumID, trackID string, err error) {
	parts := strings.Split(id, compoundSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCompoundID, id)
	}
	return parts[0], parts[1], nil
}

func parseYouTubeID(uri string) (string, bool) {
	if _, query, found := strings.Cut(uri, "?"); found {
		if hash := strings.IndexByte(query, '#'); hash >= 0 {
			query = query[:hash]
		}
		// ParseQuery still returns the pairs it could decode alongside an error.
		values, _ := url.ParseQuery(query)
		if v := values.Get("v"); v != "" {
			return v, true
		}
	}

	if _, rest, found := strings.Cut(uri, "youtu.be/"); found {
		if cut := strings.IndexAny(rest, "?#"); cut >= 0 {
			rest = rest[:cut]
		}
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	matches := re.FindStringSubmatch(s)
	if len(matches) < 2 || matches[1] == "" {
		return "", false
	}
	return matches[1], true
}

func hasMarker(p Platform, uri string) bool {
	if p == Spotify && strings.HasPrefix(strings.ToLower(uri), spotifyScheme) {
		return true
	}
	host := hostOf(uri)
	for _, marker := range hostMarkers[p] {
		if host == marker || strings.HasSuffix(host, "."+marker) {
			return true
		}
	}
	return false
}

// hostOf returns the lower-cased host of uri. The scheme is optional.
func hostOf(uri string) string {
	if _, rest, found := strings.Cut(uri, "://"); found {
		uri = rest
	}
	if cut := strings.IndexAny(uri, "/?#"); cut >= 0 {
		uri = uri[:cut]
	}
	if at := strings.LastIndexByte(uri, '@'); at >= 0 {
		uri = uri[at+1:]
	}
	if colon := strings.LastIndexByte(uri, ':'); colon >= 0 {
		uri = uri[:colon]
	}
	return strings.ToLower(uri)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
