package deezer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"muc/models"
	"muc/platform"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/track/3135556", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":3135556,"title":"Harder, Better, Faster, Stronger","link":"https://www.deezer.com/track/3135556",
			"artist":{"name":"Daft Punk","link":"https://www.deezer.com/artist/27"},"album":{"title":"Discovery"}}`))
	})
	mux.HandleFunc("/track/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"type":"DataException","message":"no data","code":800}}`))
	})
	mux.HandleFunc("/track/2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`))
	})
	mux.HandleFunc("/track/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/track/5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":5,"artist":{"name":"Daft Punk"}}`))
	})
	mux.HandleFunc("/search/track", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("search limit = %q, want 1", r.URL.Query().Get("limit"))
		}
		if r.URL.Query().Get("q") == "nothing at all" {
			w.Write([]byte(`{"data":[],"total":0}`))
			return
		}
		w.Write([]byte(`{"data":[{"id":3135556,"title":"Harder, Better, Faster, Stronger","artist":{"name":"Daft Punk"},"album":{"title":"Discovery"}}],"total":1}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return New(Options{BaseURL: server.URL, RequestsPerSecond: 50})
}

func TestFetchByID(t *testing.T) {
	client := newTestClient(t)

	got, err := client.FetchByID(context.Background(), "https://www.deezer.com/en/track/3135556")
	if err != nil {
		t.Fatalf("FetchByID() error = %v", err)
	}
	want := models.Track{
		Platform:   platform.Deezer,
		ID:         "3135556",
		UniqueID:   "d3135556",
		Title:      "Harder, Better, Faster, Stronger",
		ArtistName: "Daft Punk",
		SourceURL:  "https://www.deezer.com/track/3135556",
		AlbumName:  "Discovery",
		ArtistURL:  "https://www.deezer.com/artist/27",
	}
	if got != want {
		t.Errorf("FetchByID() = %+v, want %+v", got, want)
	}
}

func TestFetchByIDErrors(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name    string
		uri     string
		wantErr error
	}{
		{"no data", "https://www.deezer.com/track/1", models.ErrNotFound},
		{"quota", "https://www.deezer.com/track/2", models.ErrUpstreamUnavailable},
		{"bad gateway", "https://www.deezer.com/track/3", models.ErrUpstreamUnavailable},
		{"unknown route", "https://www.deezer.com/track/4", models.ErrNotFound},
		{"track without title", "https://www.deezer.com/track/5", models.ErrUpstreamUnavailable},
		{"album url", "https://www.deezer.com/album/302127", models.ErrInvalidURI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.FetchByID(context.Background(), tt.uri); !errors.Is(err, tt.wantErr) {
				t.Errorf("FetchByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	client := newTestClient(t)

	got, err := client.Search(context.Background(), "Daft Punk Harder Better Faster Stronger")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got == nil || got.UniqueID != "d3135556" {
		t.Fatalf("Search() = %+v, want d3135556", got)
	}
	if got.SourceURL != "https://www.deezer.com/track/3135556" {
		t.Errorf("Search() SourceURL = %q, want reconstructed url", got.SourceURL)
	}

	got, err = client.Search(context.Background(), "nothing at all")
	if err != nil || got != nil {
		t.Errorf("Search() = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestNormalizeTrackRequiresID(t *testing.T) {
	if _, err := NormalizeTrack(Track{Title: "Song"}); err == nil {
		t.Error("NormalizeTrack() error = nil, want error for missing id")
	}
}
