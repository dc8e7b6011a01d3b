package deezer

import (
	"errors"
	"strconv"

	"muc/models"
	"muc/platform"
)

func NormalizeTrack(track Track) (models.Track, error) {
	if track.ID == 0 || track.Title == "" {
		return models.Track{}, errors.New("deezer: track is missing id or title")
	}

	id := strconv.FormatInt(track.ID, 10)
	sourceURL := track.Link
	if sourceURL == "" {
		var err error
		if sourceURL, err = platform.ReconstructURI(platform.Deezer, id); err != nil {
			return models.Track{}, err
		}
	}

	normalized, err := models.NewTrack(platform.Deezer, id, track.Title, track.Artist.Name, sourceURL)
	if err != nil {
		return models.Track{}, err
	}
	normalized.AlbumName = track.Album.Title
	normalized.ArtistURL = track.Artist.Link
	return normalized, nil
}
