package resolver

import (
	"regexp"
	"strings"

	"muc/models"
	"muc/platform"
)

const topicSuffix = " - Topic"

var (
	featuringRegex  = regexp.MustCompile(`(?i)\s*[(\[]\s*(?:feat\.?|ft\.?|featuring)\s[^)\]]*[)\]]`)
	annotationRegex = regexp.MustCompile(`(?i)\s*[(\[][^)\]]*\b(?:official|lyrics?|visuali[sz]er|audio|music video|video clip|hd|4k|remastered)\b[^)\]]*[)\]]`)
	spacesRegex     = regexp.MustCompile(`\s+`)
)

// BuildQuery derives the search text used to find track on other platforms.
func BuildQuery(track models.Track) string {
	title := featuringRegex.ReplaceAllString(track.Title, "")
	artist := strings.TrimSpace(track.ArtistName)

	if track.Platform != platform.YouTube {
		return collapse(artist + " " + title)
	}

	// Video titles carry upload annotations and usually the artist already;
	// channel names are only trusted for auto-generated "Artist - Topic" channels.
	title = collapse(annotationRegex.ReplaceAllString(title, ""))
	if !strings.HasSuffix(artist, topicSuffix) {
		return title
	}
	artist = strings.TrimSpace(strings.TrimSuffix(artist, topicSuffix))
	if artist == "" || strings.HasPrefix(strings.ToLower(title), strings.ToLower(artist)) {
		return title
	}
	return collapse(artist + " " + title)
}

func collapse(s string) string {
	return strings.TrimSpace(spacesRegex.ReplaceAllString(s, " "))
}
