package applemusic

import (
	"errors"
	"strconv"

	"muc/models"
	"muc/platform"
)

// NormalizeTrack maps an iTunes API result onto models.Track. The platform id
// is the compound "<collectionId>-<trackId>" so the track link can be rebuilt.
func NormalizeTrack(track Track) (models.Track, error) {
	if track.TrackID == 0 || track.CollectionID == 0 || track.TrackName == "" {
		return models.Track{}, errors.New("applemusic: result is missing track id, collection id or name")
	}

	id := platform.EncodeAppleMusicID(strconv.FormatInt(track.CollectionID, 10), strconv.FormatInt(track.TrackID, 10))
	return newTrack(id, track.TrackName, track.ArtistName, track.CollectionName, track.ArtistViewURL)
}

// normalizeScraped builds a track from page metadata when the API could not be reached.
func normalizeScraped(albumID, trackID string, info *TrackInfo) (models.Track, error) {
	if info == nil || info.Title == "" {
		return models.Track{}, errors.New("applemusic: page metadata has no title")
	}
	artist := ""
	if len(info.Artists) > 0 {
		artist = info.Artists[0]
	}
	return newTrack(platform.EncodeAppleMusicID(albumID, trackID), info.Title, artist, info.Album, "")
}

func newTrack(id, title, artist, album, artistURL string) (models.Track, error) {
	sourceURL, err := platform.ReconstructURI(platform.AppleMusic, id)
	if err != nil {
		return models.Track{}, err
	}
	track, err := models.NewTrack(platform.AppleMusic, id, title, artist, sourceURL)
	if err != nil {
		return models.Track{}, err
	}
	track.AlbumName = album
	track.ArtistURL = artistURL
	return track, nil
}
