package applemusic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// scrapeTrackInfo reads track metadata from the public music.apple.com page.
func (c *Client) scrapeTrackInfo(ctx context.Context, country, albumID, trackID string) (*TrackInfo, error) {
	pageURL := fmt.Sprintf("%s/%s/album/%s?i=%s", c.pageBaseURL, country, albumID, trackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	c.logger.Tracef("Fetching Apple Music page: %s", pageURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	info, err := extractFromJSONLD(doc)
	if err == nil {
		return info, nil
	}
	c.logger.Debugf("JSON-LD extraction failed (%v), trying Open Graph fallback", err)

	info, err = extractFromOpenGraph(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to extract metadata: %w", err)
	}
	return info, nil
}

// extractFromJSONLD looks for the first MusicRecording block.
func extractFromJSONLD(doc *goquery.Document) (*TrackInfo, error) {
	var info *TrackInfo

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if getString(data, "@type") != "MusicRecording" || getString(data, "name") == "" {
			return true
		}

		info = &TrackInfo{Title: getString(data, "name"), Artists: artistNames(data["byArtist"])}
		if album, ok := data["inAlbum"].(map[string]any); ok {
			info.Album = getString(album, "name")
		}
		return false
	})

	if info == nil {
		return nil, errors.New("no JSON-LD MusicRecording data found")
	}
	if len(info.Artists) == 0 {
		return nil, errors.New("no artist data found in JSON-LD")
	}
	return info, nil
}

// artistNames accepts byArtist as a single object or a list of objects.
func artistNames(byArtist any) []string {
	var names []string
	switch v := byArtist.(type) {
	case map[string]any:
		if name := getString(v, "name"); name != "" {
			names = append(names, name)
		}
	case []any:
		for _, a := range v {
			if artist, ok := a.(map[string]any); ok {
				if name := getString(artist, "name"); name != "" {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

func extractFromOpenGraph(doc *goquery.Document) (*TrackInfo, error) {
	title := firstMeta(doc, "meta[property='og:title']", "meta[name='twitter:title']")
	if title == "" {
		return nil, errors.New("no title found in Open Graph tags")
	}

	artist := firstMeta(doc, "meta[property='music:musician_description']", "meta[name='music:musician']")
	if artist == "" {
		// Page titles look like "Track Name - Artist Name on Apple Music".
		pageTitle := doc.Find("title").First().Text()
		if _, after, found := strings.Cut(pageTitle, " - "); found {
			artist = strings.TrimSpace(strings.TrimSuffix(after, " on Apple Music"))
		}
	}
	if artist == "" {
		return nil, errors.New("no artist found in Open Graph tags or page title")
	}

	album := firstMeta(doc, "meta[property='music:album']")
	if album == "" {
		// og:description reads "Song · Album · Year".
		description := firstMeta(doc, "meta[property='og:description']")
		if parts := strings.Split(description, "·"); len(parts) >= 2 {
			album = strings.TrimSpace(parts[1])
		}
	}

	return &TrackInfo{Title: title, Artists: []string{artist}, Album: album}, nil
}

func firstMeta(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}

func getString(data map[string]any, key string) string {
	if val, ok := data[key].(string); ok {
		return val
	}
	return ""
}
