package models

import (
	"fmt"
	"strings"

	"muc/platform"
)

// TrackIdentifier is the compact cross-platform identity of a track.
type TrackIdentifier struct {
	Platform   platform.Platform `json:"platform"`
	PlatformID string            `json:"platformId"`
	UniqueID   string            `json:"uniqueId"`
}

var platformPrefixes = map[platform.Platform]byte{
	platform.Spotify:    's',
	platform.Deezer:     'd',
	platform.AppleMusic: 'i',
	platform.YouTube:    'y',
}

func NewTrackIdentifier(p platform.Platform, platformID string) (TrackIdentifier, error) {
	uniqueID, err := GenerateUniqueID(p, platformID)
	if err != nil {
		return TrackIdentifier{}, err
	}
	return TrackIdentifier{Platform: p, PlatformID: strings.TrimSpace(platformID), UniqueID: uniqueID}, nil
}

// GenerateUniqueID prefixes the trimmed platform id with the platform's letter.
func GenerateUniqueID(p platform.Platform, platformID string) (string, error) {
	trimmed := strings.TrimSpace(platformID)
	if trimmed == "" {
		return "", ErrEmptyPlatformID
	}
	prefix, ok := platformPrefixes[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", platform.ErrUnknownPlatform, string(p))
	}
	return string(prefix) + trimmed, nil
}

// ParseUniqueID splits a unique id into platform and platform id. Whitespace
// around the platform id is dropped from both fields of the result.
func ParseUniqueID(uniqueID string) (TrackIdentifier, error) {
	if len(uniqueID) < 2 {
		return TrackIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidUniqueID, uniqueID)
	}

	var p platform.Platform
	for candidate, prefix := range platformPrefixes {
		if prefix == uniqueID[0] {
			p = candidate
			break
		}
	}
	if p == "" {
		return TrackIdentifier{}, fmt.Errorf("%w: %q", ErrUnknownPlatformPrefix, uniqueID[:1])
	}

	if strings.TrimSpace(uniqueID[1:]) == "" {
		return TrackIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidUniqueID, uniqueID)
	}
	// Rebuilt so UniqueID always matches the trimmed PlatformID.
	return NewTrackIdentifier(p, uniqueID[1:])
}

// ReconstructURI returns the canonical URL of the identified track.
func (id TrackIdentifier) ReconstructURI() (string, error) {
	return platform.ReconstructURI(id.Platform, id.PlatformID)
}
