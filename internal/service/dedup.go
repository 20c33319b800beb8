package service

import "github.com/maubot/rss/internal/model"

// NewEntries returns the parsed entries whose id is not in stored, oldest first.
// An id repeated inside parsed is kept once.
func NewEntries(stored, parsed []model.Entry) []model.Entry {
	seen := make(map[string]struct{}, len(stored)+len(parsed))
	for _, e := range stored {
		seen[e.ID] = struct{}{}
	}
	var fresh []model.Entry
	for _, e := range parsed {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		fresh = append(fresh, e)
	}
	model.SortEntries(fresh)
	return fresh
}
