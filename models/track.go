package models

import (
	"context"
	"strings"

	"muc/platform"
)

// Track is the normalized, platform-agnostic view of one upstream track.
// Build it with NewTrack so ID and UniqueID are always consistent.
type Track struct {
	Platform   platform.Platform `json:"platform"`
	ID         string            `json:"id"`
	UniqueID   string            `json:"uniqueId"`
	Title      string            `json:"title"`
	ArtistName string            `json:"artistName"`
	SourceURL  string            `json:"sourceUrl"`
	AlbumName  string            `json:"albumName,omitempty"`
	ArtistURL  string            `json:"artistUrl,omitempty"`
}

// NewTrack trims id and derives the unique id. An empty or blank id is rejected.
func NewTrack(p platform.Platform, id, title, artistName, sourceURL string) (Track, error) {
	uniqueID, err := GenerateUniqueID(p, id)
	if err != nil {
		return Track{}, err
	}
	return Track{
		Platform:   p,
		ID:         strings.TrimSpace(id),
		UniqueID:   uniqueID,
		Title:      title,
		ArtistName: artistName,
		SourceURL:  sourceURL,
	}, nil
}

func (t Track) IsZero() bool {
	return t.ID == ""
}

func (t Track) Identifier() TrackIdentifier {
	return TrackIdentifier{Platform: t.Platform, PlatformID: t.ID, UniqueID: t.UniqueID}
}

// PlatformClient is implemented by every raw client and every decorator around one.
//
// FetchByID fails with ErrInvalidURI, ErrNotFound or ErrUpstreamUnavailable.
// Search returns a nil track and no error when the platform has no match.
type PlatformClient interface {
	Platform() platform.Platform
	FetchByID(ctx context.Context, uri string) (Track, error)
	Search(ctx context.Context, query string) (*Track, error)
}
