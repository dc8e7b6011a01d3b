package platform

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		uri      string
		want     string
		wantOK   bool
	}{
		{"spotify url", Spotify, "https://open.spotify.com/track/4BFd6LqI5Nf9h7Xm9tK3dY", "4BFd6LqI5Nf9h7Xm9tK3dY", true},
		{"spotify url with si", Spotify, "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b?si=abc123", "0VjIjW4GlUZAMYd2vXMi3b", true},
		{"spotify uri", Spotify, "spotify:track:4BFd6LqI5Nf9h7Xm9tK3dY", "4BFd6LqI5Nf9h7Xm9tK3dY", true},
		{"spotify playlist", Spotify, "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "", false},
		{"youtube watch", YouTube, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"youtube watch extra params", YouTube, "https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", true},
		{"youtube music", YouTube, "https://music.youtube.com/watch?v=dQw4w9WgXcQ&feature=share", "dQw4w9WgXcQ", true},
		{"youtube short", YouTube, "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"youtube short with query", YouTube, "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", true},
		{"youtube short with fragment", YouTube, "https://youtu.be/dQw4w9WgXcQ#t=10", "dQw4w9WgXcQ", true},
		{"youtube channel", YouTube, "https://www.youtube.com/@queen", "", false},
		{"deezer", Deezer, "https://www.deezer.com/track/3135556", "3135556", true},
		{"deezer localized", Deezer, "https://www.deezer.com/en/track/3135556?utm=x", "3135556", true},
		{"deezer album", Deezer, "https://www.deezer.com/album/302127", "", false},
		{"apple music", AppleMusic, "https://music.apple.com/us/album/bohemian-rhapsody/1440650428?i=1440650711", "1440650711", true},
		{"itunes", AppleMusic, "https://itunes.apple.com/us/album/id1440650428?i=1440650711&uo=4", "1440650711", true},
		{"apple album only", AppleMusic, "https://music.apple.com/us/album/a-night-at-the-opera/1440650428", "", false},
		{"unknown platform", Platform("tidal"), "https://tidal.com/track/1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseID(tt.platform, tt.uri)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseID(%s, %q) = (%q, %v), want (%q, %v)", tt.platform, tt.uri, got, ok, tt.want, tt.wantOK)
			}
			if IsParsable(tt.platform, tt.uri) != ok {
				t.Errorf("IsParsable(%s, %q) disagrees with ParseID", tt.platform, tt.uri)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		uri    string
		want   Platform
		wantOK bool
	}{
		{"https://open.spotify.com/track/4BFd6LqI5Nf9h7Xm9tK3dY", Spotify, true},
		{"spotify:track:4BFd6LqI5Nf9h7Xm9tK3dY", Spotify, true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", YouTube, true},
		{"https://youtu.be/dQw4w9WgXcQ", YouTube, true},
		{"https://www.deezer.com/track/3135556", Deezer, true},
		{"https://music.apple.com/us/album/bohemian-rhapsody/1440650428?i=1440650711", AppleMusic, true},
		{"https://itunes.apple.com/us/album/id1440650428?i=1440650711", AppleMusic, true},
		{"https://open.spotify.com/album/4yP0hdKOZPNshxUOjY0cZj", "", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&si=open.spotify.com/track/abc", YouTube, true},
		{"open.spotify.com/track/4BFd6LqI5Nf9h7Xm9tK3dY", Spotify, true},
		{"music.apple.com/us/album/bohemian-rhapsody/1440650428?i=1440650711", AppleMusic, true},
		{"https://M.YouTube.com/watch?v=dQw4w9WgXcQ", YouTube, true},
		{"https://notyoutube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"https://example.com/?u=https://www.deezer.com/track/3135556", "", false},
		{"https://example.com/track/123", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, ok := Classify(tt.uri)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.uri, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassifyIsExclusive(t *testing.T) {
	uris := []string{
		"https://open.spotify.com/track/4BFd6LqI5Nf9h7Xm9tK3dY",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.deezer.com/track/3135556",
		"https://music.apple.com/us/album/1440650428?i=1440650711",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&si=open.spotify.com/track/abc",
		"https://www.deezer.com/track/3135556?utm_source=youtube.com/watch?v=dQw4w9WgXcQ",
		"music.apple.com/us/album/1440650428?i=1440650711&ref=spotify:track:abc",
	}
	for _, uri := range uris {
		matched := 0
		for _, p := range All {
			if hasMarker(p, uri) && IsParsable(p, uri) {
				matched++
			}
		}
		if matched != 1 {
			t.Errorf("%q matched %d platforms, want 1", uri, matched)
		}
	}
}

func TestReconstructRoundTrip(t *testing.T) {
	tests := []struct {
		platform Platform
		id       string
		want     string
	}{
		{Spotify, "4BFd6LqI5Nf9h7Xm9tK3dY", "https://open.spotify.com/track/4BFd6LqI5Nf9h7Xm9tK3dY"},
		{YouTube, "dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{Deezer, "3135556", "https://www.deezer.com/track/3135556"},
		{AppleMusic, "1440650428-1440650711", "https://music.apple.com/us/album/1440650428?i=1440650711"},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			uri, err := ReconstructURI(tt.platform, tt.id)
			if err != nil {
				t.Fatalf("ReconstructURI() error = %v", err)
			}
			if uri != tt.want {
				t.Errorf("ReconstructURI() = %q, want %q", uri, tt.want)
			}
			got, ok := ParseCompoundID(tt.platform, uri)
			if !ok || got != tt.id {
				t.Errorf("ParseCompoundID(%q) = (%q, %v), want %q", uri, got, ok, tt.id)
			}
			if p, ok := Classify(uri); !ok || p != tt.platform {
				t.Errorf("Classify(%q) = %q, want %q", uri, p, tt.platform)
			}
		})
	}
}

func TestReconstructURIErrors(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		id       string
		wantErr  error
	}{
		{"empty", Spotify, "", ErrEmptyID},
		{"whitespace", Deezer, "   ", ErrEmptyID},
		{"compound missing track", AppleMusic, "1440650428", ErrInvalidCompoundID},
		{"compound too many parts", AppleMusic, "1-2-3", ErrInvalidCompoundID},
		{"compound empty part", AppleMusic, "1440650428-", ErrInvalidCompoundID},
		{"unknown platform", Platform("tidal"), "1", ErrUnknownPlatform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReconstructURI(tt.platform, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReconstructURI(%s, %q) error = %v, want %v", tt.platform, tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestParseAppleMusicIDs(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		wantAlbum string
		wantTrack string
		wantOK    bool
	}{
		{"slugged", "https://music.apple.com/us/album/bohemian-rhapsody/1440650428?i=1440650711", "1440650428", "1440650711", true},
		{"canonical", "https://music.apple.com/us/album/1440650428?i=1440650711", "1440650428", "1440650711", true},
		{"itunes id prefix", "https://itunes.apple.com/gb/album/song/id1440650428?i=1440650711&uo=4", "1440650428", "1440650711", true},
		{"no album segment", "https://music.apple.com/us/album/song?i=1440650711", "", "1440650711", true},
		{"no track", "https://music.apple.com/us/album/song/1440650428", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			album, track, ok := ParseAppleMusicIDs(tt.uri)
			if album != tt.wantAlbum || track != tt.wantTrack || ok != tt.wantOK {
				t.Errorf("ParseAppleMusicIDs(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.uri, album, track, ok, tt.wantAlbum, tt.wantTrack, tt.wantOK)
			}
		})
	}
}

func TestRank(t *testing.T) {
	if Rank(Spotify) != 0 || Rank(AppleMusic) != 3 {
		t.Errorf("Rank() does not follow All order")
	}
	if Rank(Platform("tidal")) != len(All) {
		t.Errorf("Rank(unknown) = %d, want %d", Rank(Platform("tidal")), len(All))
	}
}
