package spotify

import (
	"errors"

	spotifyclient "github.com/zmb3/spotify/v2"

	"muc/models"
	"muc/platform"
)

const unknownArtist = "Unknown Artist"

// NormalizeTrack maps a Spotify Web API track onto models.Track.
func NormalizeTrack(track *spotifyclient.FullTrack) (models.Track, error) {
	if track == nil {
		return models.Track{}, errors.New("spotify: nil track")
	}
	if track.ID == "" || track.Name == "" {
		return models.Track{}, errors.New("spotify: track is missing id or name")
	}

	id := string(track.ID)
	sourceURL := track.ExternalURLs["spotify"]
	if sourceURL == "" {
		var err error
		if sourceURL, err = platform.ReconstructURI(platform.Spotify, id); err != nil {
			return models.Track{}, err
		}
	}

	artistName := unknownArtist
	artistURL := ""
	if len(track.Artists) > 0 && track.Artists[0].Name != "" {
		artistName = track.Artists[0].Name
		artistURL = track.Artists[0].ExternalURLs["spotify"]
	}

	normalized, err := models.NewTrack(platform.Spotify, id, track.Name, artistName, sourceURL)
	if err != nil {
		return models.Track{}, err
	}
	normalized.AlbumName = track.Album.Name
	normalized.ArtistURL = artistURL
	return normalized, nil
}
