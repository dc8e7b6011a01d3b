package resolver

import (
	"sort"

	"muc/models"
	"muc/platform"
)

// Match is a result track, flagged when it is the track the user asked about.
type Match struct {
	models.Track
	IsSource bool `json:"isSource"`
}

// DeduplicateTracks keeps one entry per unique id, in first-seen order. When
// two entries collide the source-flagged one wins.
func DeduplicateTracks(matches []Match) []Match {
	index := make(map[string]int, len(matches))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		i, seen := index[m.UniqueID]
		if !seen {
			index[m.UniqueID] = len(out)
			out = append(out, m)
			continue
		}
		if m.IsSource && !out[i].IsSource {
			out[i] = m
		}
	}
	return out
}

// SortResults puts the source first, then orders by platform.All.
func SortResults(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].IsSource != matches[j].IsSource {
			return matches[i].IsSource
		}
		return platform.Rank(matches[i].Platform) < platform.Rank(matches[j].Platform)
	})
}
