package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/model"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	"golang.org/x/net/html/charset"
)

var xmlEncodingPattern = regexp.MustCompile(`^\s*(?:\xef\xbb\xbf)?<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// Parser turns a fetched response into feed metadata and entries.
// It holds no per-document state and is safe for concurrent use.
type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// NewParserWithClock is NewParser with a fixed source for fallback entry dates.
func NewParserWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Parse decodes body according to the declared Content-Type. For a first fetch
// pass model.Feed{URL: url}. Entries of a document that repeats an id keep the last occurrence.
func (p *Parser) Parse(feed model.Feed, header http.Header, body []byte) (model.FeedMetadata, []model.Entry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: empty body", ErrMalformedFeed)
	}

	mediaType, params := contentType(header)
	var (
		meta    model.FeedMetadata
		entries []model.Entry
		err     error
	)
	switch mediaType {
	case "application/json", "application/feed+json":
		meta, entries, err = p.parseJSON(feed, body)
	default:
		meta, entries, err = p.parseXML(feed, params["charset"], body)
	}
	if err != nil {
		return model.FeedMetadata{}, nil, err
	}

	entries = lo.Reverse(lo.UniqBy(lo.Reverse(entries), func(e model.Entry) string { return e.ID }))
	return meta, entries, nil
}

func (p *Parser) parseXML(feed model.Feed, declaredCharset string, body []byte) (model.FeedMetadata, []model.Entry, error) {
	decoded, err := decodeBody(feed.URL, declaredCharset, body)
	if err != nil {
		return model.FeedMetadata{}, nil, err
	}

	switch gofeed.DetectFeedType(bytes.NewReader(decoded)) {
	case gofeed.FeedTypeJSON:
		return p.parseJSON(feed, decoded)
	case gofeed.FeedTypeUnknown:
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, gofeed.ErrFeedTypeNotDetected)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(decoded))
	if err != nil {
		if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
			return model.FeedMetadata{}, nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}

	meta := model.FeedMetadata{
		URL:      feed.URL,
		Title:    strings.TrimSpace(parsed.Title),
		Subtitle: strings.TrimSpace(parsed.Description),
		Link:     strings.TrimSpace(parsed.Link),
	}
	if meta.Title == "" {
		meta.Title = feed.URL
	}

	now := p.now()
	entries := make([]model.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, itemToEntry(feed.ID, item, now))
	}
	return meta, entries, nil
}

func itemToEntry(feedID int64, item *gofeed.Item, now time.Time) model.Entry {
	entry := model.Entry{
		FeedID:  feedID,
		ID:      EntryID(item),
		Date:    EntryDate(item, now),
		Title:   item.Title,
		Summary: item.Description,
		Link:    strings.TrimSpace(item.Link),
	}
	if item.Content != "" {
		content := item.Content
		entry.Content = &content
	}
	return entry
}

// decodeBody yields UTF-8 text for the XML parser. Invalid input is repaired rather
// than rejected; a repair is logged as a warning and parsing goes on.
func decodeBody(feedURL, declaredCharset string, body []byte) ([]byte, error) {
	if utf8.Valid(body) {
		return body, nil
	}
	// The XML decoder honours a non UTF-8 prolog encoding on its own.
	if m := xmlEncodingPattern.FindSubmatch(body); m != nil && !isUTF8Label(string(m[1])) {
		return body, nil
	}
	if declaredCharset != "" && !isUTF8Label(declaredCharset) {
		reader, err := charset.NewReaderLabel(declaredCharset, bytes.NewReader(body))
		if err == nil {
			transcoded, readErr := io.ReadAll(reader)
			if readErr == nil {
				logger.Warn("feed body transcoded", "module", "feed", "action", "parse", "resource", "feed", "result", "degraded", "feed_url", feedURL, "charset", declaredCharset)
				return transcoded, nil
			}
			err = readErr
		}
		logger.Warn("feed charset unusable", "module", "feed", "action", "parse", "resource", "feed", "result", "degraded", "feed_url", feedURL, "charset", declaredCharset, "error", err)
	}

	repaired := bytes.ToValidUTF8(body, []byte("\uFFFD"))
	if len(bytes.TrimSpace(repaired)) == 0 {
		return nil, ErrEncoding
	}
	logger.Warn("feed body is not valid utf-8", "module", "feed", "action", "parse", "resource", "feed", "result", "degraded", "feed_url", feedURL)
	return repaired, nil
}

func contentType(header http.Header) (string, map[string]string) {
	raw := header.Get("Content-Type")
	if raw == "" {
		return "", map[string]string{}
	}
	mediaType, params, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
		return mediaType, map[string]string{}
	}
	return mediaType, params
}

func isUTF8Label(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8":
		return true
	}
	return false
}
