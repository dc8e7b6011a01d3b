package resolver

import (
	"testing"

	"muc/models"
	"muc/platform"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		platform platform.Platform
		title    string
		artist   string
		want     string
	}{
		{"spotify plain", platform.Spotify, "Bohemian Rhapsody", "Queen", "Queen Bohemian Rhapsody"},
		{"spotify feat parens", platform.Spotify, "Old Town Road (feat. Billy Ray Cyrus)", "Lil Nas X", "Lil Nas X Old Town Road"},
		{"deezer ft brackets", platform.Deezer, "Stay [ft. Justin Bieber] - Remix", "The Kid LAROI", "The Kid LAROI Stay - Remix"},
		{"itunes featuring uppercase", platform.AppleMusic, "Song (FEATURING Someone)", "Artist", "Artist Song"},
		{"youtube topic", platform.YouTube, "Bohemian Rhapsody", "Queen - Topic", "Queen Bohemian Rhapsody"},
		{"youtube topic title has artist", platform.YouTube, "queen - Bohemian Rhapsody", "Queen - Topic", "queen - Bohemian Rhapsody"},
		{"youtube official video", platform.YouTube, "Rick Astley - Never Gonna Give You Up (Official Music Video)", "Rick Astley", "Rick Astley - Never Gonna Give You Up"},
		{"youtube lyrics and feat", platform.YouTube, "Song (feat. Guest) [Lyrics]", "SomeUploader", "Song"},
		{"youtube non-topic channel ignored", platform.YouTube, "Bohemian Rhapsody", "Queen Official", "Bohemian Rhapsody"},
		{"whitespace collapsed", platform.Spotify, "  Song   Title ", " Artist ", "Artist Song Title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := models.Track{Platform: tt.platform, Title: tt.title, ArtistName: tt.artist}
			if got := BuildQuery(track); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
