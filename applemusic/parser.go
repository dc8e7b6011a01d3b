package applemusic

import (
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"muc/platform"
)

var errNotTrackURL = errors.New("not an Apple Music track URL")

// ParseAppleMusicURL extracts the storefront country, album id and track id
// from a track link such as https://music.apple.com/us/album/name/123?i=456.
// The scheme is optional.
func ParseAppleMusicURL(rawURL string) (Request, error) {
	albumID, trackID, ok := platform.ParseAppleMusicIDs(rawURL)
	if !ok {
		log.Warnf("Not an Apple Music track URL: %s", rawURL)
		return Request{}, errNotTrackURL
	}

	request := Request{AlbumID: albumID, TrackID: trackID}

	// Storefront is the path segment right before "album/" (e.g., /us/album/...)
	prefix := strings.TrimSuffix(rawURL[:strings.Index(rawURL, "album/")], "/")
	if storefront := prefix[strings.LastIndex(prefix, "/")+1:]; isStorefront(storefront) {
		request.Country = storefront
	}

	log.Tracef("Parsed Apple Music track URL: country=%s album=%s track=%s", request.Country, albumID, trackID)
	return request, nil
}

func isStorefront(segment string) bool {
	if len(segment) != 2 {
		return false
	}
	for _, r := range segment {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
