package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/network"
)

//go:generate mockgen -source=loader.go -destination=mock/mock_loader.go -package=mock

// FeedFetcher retrieves a feed document. *network.Fetcher implements it.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string, header http.Header) (*network.Response, error)
}

// feedLoader fetches and parses one feed, turning every failure into an error.
type feedLoader struct {
	fetcher FeedFetcher
	parser  *feed.Parser
}

func (l feedLoader) load(ctx context.Context, f model.Feed) (meta model.FeedMetadata, entries []model.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: parser panic: %v", feed.ErrMalformedFeed, r)
		}
	}()

	resp, err := l.fetcher.Fetch(ctx, f.URL, nil)
	if err != nil {
		return model.FeedMetadata{}, nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return model.FeedMetadata{}, nil, &feed.HTTPError{StatusCode: resp.StatusCode}
	}
	return l.parser.Parse(f, resp.Header, resp.Body)
}

func (l feedLoader) preview(ctx context.Context, feedURL string) (model.FeedMetadata, []model.Entry, error) {
	trimmedURL := strings.TrimSpace(feedURL)
	if !isValidURL(trimmedURL) {
		return model.FeedMetadata{}, nil, ErrInvalid
	}

	meta, entries, err := l.load(ctx, model.Feed{URL: trimmedURL})
	if err != nil {
		return model.FeedMetadata{}, nil, fmt.Errorf("%w: %w", ErrFeedFetch, err)
	}
	model.SortEntries(entries)
	return meta, entries, nil
}

// Previewer parses feeds for display only. It needs no database.
type Previewer struct {
	loader feedLoader
}

func NewPreviewer(fetcher FeedFetcher, parser *feed.Parser) *Previewer {
	if parser == nil {
		parser = feed.NewParser()
	}
	return &Previewer{loader: feedLoader{fetcher: fetcher, parser: parser}}
}

func (p *Previewer) Preview(ctx context.Context, feedURL string) (model.FeedMetadata, []model.Entry, error) {
	return p.loader.preview(ctx, feedURL)
}
