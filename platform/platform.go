// Package platform identifies which music platform a URI belongs to and
// converts between URIs and platform-local track ids.
package platform

type Platform string

const (
	Spotify    Platform = "spotify"
	YouTube    Platform = "youtube"
	Deezer     Platform = "deezer"
	AppleMusic Platform = "itunes"
)

// All lists every supported platform in classification and result order.
var All = []Platform{Spotify, YouTube, Deezer, AppleMusic}

func (p Platform) String() string {
	return string(p)
}

func (p Platform) Valid() bool {
	switch p {
	case Spotify, YouTube, Deezer, AppleMusic:
		return true
	}
	return false
}

// Rank is the position of p in All, or len(All) for unknown platforms.
func Rank(p Platform) int {
	for i, candidate := range All {
		if candidate == p {
			return i
		}
	}
	return len(All)
}

// DisplayName is used in log lines and span descriptions.
func (p Platform) DisplayName() string {
	switch p {
	case Spotify:
		return "Spotify"
	case YouTube:
		return "YouTube"
	case Deezer:
		return "Deezer"
	case AppleMusic:
		return "AppleMusic"
	}
	return string(p)
}
