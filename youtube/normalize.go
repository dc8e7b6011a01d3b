package youtube

import (
	"errors"
	"fmt"
	"html"

	ytapi "google.golang.org/api/youtube/v3"

	"muc/models"
	"muc/platform"
)

const unknownCreator = "Unknown Creator"

// NormalizeVideo accepts either a videos.list item or a search.list item.
// The two differ in where the video id lives.
func NormalizeVideo(item any) (models.Track, error) {
	var (
		videoID string
		snippet videoSnippet
	)

	switch v := item.(type) {
	case *ytapi.Video:
		if v == nil {
			return models.Track{}, errors.New("youtube: nil video")
		}
		videoID = v.Id
		if v.Snippet != nil {
			snippet = videoSnippet{v.Snippet.Title, v.Snippet.ChannelTitle, v.Snippet.ChannelId}
		}
	case *ytapi.SearchResult:
		if v == nil || v.Id == nil {
			return models.Track{}, errors.New("youtube: search result without id")
		}
		videoID = v.Id.VideoId
		if v.Snippet != nil {
			snippet = videoSnippet{v.Snippet.Title, v.Snippet.ChannelTitle, v.Snippet.ChannelId}
		}
	default:
		return models.Track{}, fmt.Errorf("youtube: unsupported item type %T", item)
	}

	if videoID == "" || snippet.title == "" {
		return models.Track{}, errors.New("youtube: item is missing video id or title")
	}

	sourceURL, err := platform.ReconstructURI(platform.YouTube, videoID)
	if err != nil {
		return models.Track{}, err
	}

	artist := html.UnescapeString(snippet.channelTitle)
	if artist == "" {
		artist = unknownCreator
	}

	track, err := models.NewTrack(platform.YouTube, videoID, html.UnescapeString(snippet.title), artist, sourceURL)
	if err != nil {
		return models.Track{}, err
	}
	if snippet.channelID != "" {
		track.ArtistURL = "https://www.youtube.com/channel/" + snippet.channelID
	}
	return track, nil
}

type videoSnippet struct {
	title        string
	channelTitle string
	channelID    string
}
