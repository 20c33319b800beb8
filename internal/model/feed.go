package model

import "time"

type Feed struct {
	ID            int64
	URL           string
	Title         string
	Subtitle      string
	Link          string
	ErrorCount    int
	NextRetry     int64 // unix seconds, 0 = due immediately
	Subscriptions []Subscription
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Degraded reports whether the feed has failed often enough to warn subscribers.
func (f Feed) Degraded() bool {
	return f.ErrorCount > 1
}

// Metadata returns the parser-owned part of the feed.
func (f Feed) Metadata() FeedMetadata {
	return FeedMetadata{URL: f.URL, Title: f.Title, Subtitle: f.Subtitle, Link: f.Link}
}

// WithMetadata replaces title, subtitle and link, keeping identity and backoff state.
func (f Feed) WithMetadata(meta FeedMetadata) Feed {
	f.Title = meta.Title
	f.Subtitle = meta.Subtitle
	f.Link = meta.Link
	return f
}

type FeedMetadata struct {
	URL      string
	Title    string
	Subtitle string
	Link     string
}

// RoomFeed is a feed as seen from one room, with the user who subscribed it.
type RoomFeed struct {
	Feed   Feed
	UserID string
}
