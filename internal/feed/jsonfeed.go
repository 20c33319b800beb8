package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/maubot/rss/internal/model"

	"github.com/tidwall/gjson"
)

var jsonFeedVersions = map[string]struct{}{
	"https://jsonfeed.org/version/1":   {},
	"https://jsonfeed.org/version/1.1": {},
}

// ISO 8601 variants seen in the wild. Fractional seconds are accepted by every
// layout that has a seconds field.
var jsonDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (p *Parser) parseJSON(feed model.Feed, body []byte) (model.FeedMetadata, []model.Entry, error) {
	if !gjson.ValidBytes(body) {
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: invalid json", ErrMalformedFeed)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: json feed is not an object", ErrMalformedFeed)
	}

	version := doc.Get("version").String()
	if _, ok := jsonFeedVersions[version]; !ok {
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: json feed version %q", ErrUnsupportedFormat, version)
	}

	items := doc.Get("items")
	if !items.IsArray() {
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: json feed items is not an array", ErrMalformedFeed)
	}

	meta := model.FeedMetadata{
		URL:      feed.URL,
		Title:    strings.TrimSpace(doc.Get("title").String()),
		Subtitle: strings.TrimSpace(doc.Get("description").String()),
		Link:     strings.TrimSpace(doc.Get("home_page_url").String()),
	}
	if meta.Title == "" {
		meta.Title = feed.URL
	}

	now := p.now()
	var entries []model.Entry
	var itemErr error
	items.ForEach(func(index, item gjson.Result) bool {
		id := item.Get("id")
		if !id.Exists() || id.Type == gjson.Null {
			itemErr = fmt.Errorf("%w: json feed item %d has no id", ErrMalformedFeed, index.Int())
			return false
		}
		entry := model.Entry{
			FeedID:  feed.ID,
			ID:      id.String(),
			Date:    parseJSONDate(item.Get("date_published").String(), now),
			Title:   item.Get("title").String(),
			Summary: firstNonEmpty(item.Get("summary").String(), item.Get("content_html").String(), item.Get("content_text").String()),
			Link:    item.Get("url").String(),
		}
		if entry.Link == "" {
			entry.Link = entry.ID
		}
		if content := firstNonEmpty(item.Get("content_html").String(), item.Get("content_text").String()); content != "" {
			entry.Content = &content
		}
		entries = append(entries, entry)
		return true
	})
	if itemErr != nil {
		return model.FeedMetadata{}, nil, itemErr
	}

	return meta, entries, nil
}

func parseJSONDate(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.UTC()
	}
	for _, layout := range jsonDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
