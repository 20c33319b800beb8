package model

import (
	"sort"
	"time"
)

type Entry struct {
	FeedID  int64
	ID      string
	Date    time.Time
	Title   string
	Summary string
	Link    string
	Content *string
}

// SortEntries orders entries by date, then id, ascending.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
}
