// Package mocks holds testify doubles shared by package tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"muc/models"
	"muc/platform"
)

// PlatformClient is a mock.Mock implementation of models.PlatformClient.
type PlatformClient struct {
	mock.Mock
	platform platform.Platform
}

func NewPlatformClient(p platform.Platform) *PlatformClient {
	return &PlatformClient{platform: p}
}

func (m *PlatformClient) Platform() platform.Platform {
	return m.platform
}

func (m *PlatformClient) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	args := m.Called(ctx, uri)
	return args.Get(0).(models.Track), args.Error(1)
}

func (m *PlatformClient) Search(ctx context.Context, query string) (*models.Track, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Track), args.Error(1)
}

// Track builds a normalized track for tests and panics on an invalid id.
func Track(p platform.Platform, id, title, artist string) models.Track {
	sourceURL, err := platform.ReconstructURI(p, id)
	if err != nil {
		panic(err)
	}
	track, err := models.NewTrack(p, id, title, artist, sourceURL)
	if err != nil {
		panic(err)
	}
	return track
}
