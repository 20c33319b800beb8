package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maubot/rss/internal/config"
	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/network"
	"github.com/maubot/rss/internal/repository"
	"github.com/maubot/rss/internal/repository/mock"
	"github.com/maubot/rss/internal/repository/testutil"
	"github.com/maubot/rss/internal/service"
	servicemock "github.com/maubot/rss/internal/service/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var baseDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func rssItem(guid string, date time.Time) string {
	return fmt.Sprintf("<item><guid>%s</guid><title>Title %s</title><link>https://example.com/%s</link><pubDate>%s</pubDate></item>",
		guid, guid, guid, date.Format(time.RFC1123Z))
}

func rssDoc(title string, items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>` + title +
		`</title><link>https://example.com</link>` + strings.Join(items, "") + `</channel></rss>`
}

func response(contentType, body string) *network.Response {
	h := make(http.Header)
	h.Set("Content-Type", contentType)
	return &network.Response{StatusCode: http.StatusOK, Header: h, Body: []byte(body)}
}

type pollDeps struct {
	feeds       *mock.MockFeedRepository
	entries     *mock.MockEntryRepository
	fetcher     *servicemock.MockFeedFetcher
	broadcaster *servicemock.MockBroadcastService
}

func newPollDeps(t *testing.T) (pollDeps, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	return pollDeps{
		feeds:       mock.NewMockFeedRepository(ctrl),
		entries:     mock.NewMockEntryRepository(ctrl),
		fetcher:     servicemock.NewMockFeedFetcher(ctrl),
		broadcaster: servicemock.NewMockBroadcastService(ctrl),
	}, ctrl
}

func (d pollDeps) service(settings service.SettingsSource) service.PollService {
	return service.NewPollService(d.feeds, d.entries, d.fetcher, feed.NewParser(), d.broadcaster, settings)
}

func TestPollOnce_BroadcastsInDateThenIDOrder(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	subs := []model.Subscription{{FeedID: 1, RoomID: "!room", SendNotice: true}}
	f := model.Feed{ID: 1, URL: "https://example.com/rss", Title: "Ordered", Link: "https://example.com", Subscriptions: subs}
	body := rssDoc("Ordered",
		rssItem("c", baseDate.Add(3*time.Hour)),
		rssItem("a", baseDate.Add(1*time.Hour)),
		rssItem("b", baseDate.Add(2*time.Hour)),
	)

	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{f}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), f.URL, gomock.Nil()).Return(response("application/rss+xml", body), nil)
	deps.entries.EXPECT().ListByFeed(gomock.Any(), int64(1)).Return(nil, nil)

	var persisted []string
	var broadcast []string
	deps.entries.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entries []model.Entry) error {
		require.Empty(t, broadcast, "entries must be stored before any broadcast")
		for _, e := range entries {
			persisted = append(persisted, e.ID)
		}
		return nil
	})
	deps.broadcaster.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any(), subs).Times(3).
		DoAndReturn(func(_ context.Context, _ model.Feed, e model.Entry, _ []model.Subscription) service.BroadcastReport {
			broadcast = append(broadcast, e.ID)
			return service.BroadcastReport{Delivered: 1}
		})

	report, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, persisted)
	require.Equal(t, []string{"a", "b", "c"}, broadcast)
	require.Equal(t, 3, report.NewEntries)
	require.Equal(t, 3, report.Deliveries)
	require.Equal(t, 1, report.Due)
	require.NotEmpty(t, report.ID)
}

func TestPollOnce_PartialFailureIsolation(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	good1 := model.Feed{ID: 1, URL: "https://one.example.com/rss", Title: "One", Link: "https://example.com"}
	bad := model.Feed{ID: 2, URL: "https://bad.example.com/feed.json", Title: "Bad"}
	good2 := model.Feed{ID: 3, URL: "https://three.example.com/rss", Title: "Three", Link: "https://example.com"}

	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{good1, bad, good2}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), good1.URL, gomock.Any()).Return(response("application/rss+xml", rssDoc("One", rssItem("1a", baseDate))), nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), bad.URL, gomock.Any()).Return(response("application/json", `{"version":"https://jsonfeed.org/version/1","items":{}}`), nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), good2.URL, gomock.Any()).Return(response("application/rss+xml", rssDoc("Three", rssItem("3a", baseDate), rssItem("3b", baseDate))), nil)

	deps.entries.EXPECT().ListByFeed(gomock.Any(), int64(1)).Return(nil, nil)
	deps.entries.EXPECT().ListByFeed(gomock.Any(), int64(3)).Return(nil, nil)
	deps.entries.EXPECT().InsertBatch(gomock.Any(), gomock.Len(1)).Return(nil)
	deps.entries.EXPECT().InsertBatch(gomock.Any(), gomock.Len(2)).Return(nil)
	deps.broadcaster.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(3).Return(service.BroadcastReport{})

	before := time.Now().Unix()
	deps.feeds.EXPECT().UpdateBackoff(gomock.Any(), int64(2), 1, gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, _ int, nextRetry int64) error {
		require.GreaterOrEqual(t, nextRetry, before+int64(time.Hour/time.Second))
		return nil
	})

	report, err := deps.service(settingsWith(func(s *config.Settings) { s.UpdateInterval = time.Hour })).PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Due)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, 3, report.NewEntries)
}

func TestPollOnce_UnsupportedJSONVersionBacksOff(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	f := model.Feed{ID: 7, URL: "https://example.com/feed.json", ErrorCount: 2}
	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{f}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), f.URL, gomock.Any()).
		Return(response("application/feed+json", `{"version":"https://jsonfeed.org/version/0.1","items":[]}`), nil)
	deps.feeds.EXPECT().UpdateBackoff(gomock.Any(), int64(7), 3, gomock.Any()).Return(nil)

	report, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Failed)
}

func TestPollOnce_TransportAndStatusFailures(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	down := model.Feed{ID: 1, URL: "https://down.example.com/rss"}
	gone := model.Feed{ID: 2, URL: "https://gone.example.com/rss"}
	empty := model.Feed{ID: 3, URL: "https://empty.example.com/rss"}
	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{down, gone, empty}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), down.URL, gomock.Any()).Return(nil, fmt.Errorf("%w: dial tcp", feed.ErrTransport))
	deps.fetcher.EXPECT().Fetch(gomock.Any(), gone.URL, gomock.Any()).Return(&network.Response{StatusCode: http.StatusGone}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), empty.URL, gomock.Any()).Return(response("application/rss+xml", ""), nil)
	deps.feeds.EXPECT().UpdateBackoff(gomock.Any(), gomock.Any(), 1, gomock.Any()).Times(3).Return(nil)

	report, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Failed)
}

func TestPollOnce_SkipsFeedsNotDue(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	waiting := model.Feed{ID: 1, URL: "https://example.com/rss", ErrorCount: 4, NextRetry: time.Now().Add(time.Hour).Unix()}
	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{waiting}, nil)

	report, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Feeds)
	require.Zero(t, report.Due)
}

func TestPollOnce_RecoveryResetsBackoffAndUpdatesMetadata(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	f := model.Feed{ID: 4, URL: "https://example.com/rss", Title: "Old title", ErrorCount: 3, NextRetry: time.Now().Add(-time.Minute).Unix()}
	stored := []model.Entry{{FeedID: 4, ID: "seen"}}

	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{f}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), f.URL, gomock.Any()).Return(response("application/rss+xml", rssDoc("New title", rssItem("seen", baseDate))), nil)
	deps.feeds.EXPECT().UpdateBackoff(gomock.Any(), int64(4), 0, int64(0)).Return(nil)
	deps.feeds.EXPECT().UpdateMetadata(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, updated model.Feed) error {
		require.Equal(t, int64(4), updated.ID)
		require.Equal(t, "New title", updated.Title)
		require.Equal(t, "https://example.com", updated.Link)
		require.Equal(t, f.URL, updated.URL)
		return nil
	})
	deps.entries.EXPECT().ListByFeed(gomock.Any(), int64(4)).Return(stored, nil)

	report, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.Failed)
	require.Zero(t, report.NewEntries)
}

func TestPollOnce_InsertFailureSkipsBroadcast(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	f := model.Feed{ID: 1, URL: "https://example.com/rss", Title: "T", Link: "https://example.com"}
	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{f}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), f.URL, gomock.Any()).Return(response("application/rss+xml", rssDoc("T", rssItem("x", baseDate))), nil)
	deps.entries.EXPECT().ListByFeed(gomock.Any(), int64(1)).Return(nil, nil)
	deps.entries.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	report, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.NewEntries)
}

func TestPollOnce_ListFailure(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return(nil, errors.New("db locked"))

	_, err := deps.service(settingsWith(nil)).PollOnce(context.Background())
	require.Error(t, err)
}

func TestPollOnce_CancelDoesNotWaitForFetches(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	f := model.Feed{ID: 1, URL: "https://slow.example.com/rss"}
	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{f}, nil)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), f.URL, gomock.Any()).DoAndReturn(func(ctx context.Context, _ string, _ http.Header) (*network.Response, error) {
		close(started)
		<-release
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	start := time.Now()
	_, err := deps.service(settingsWith(nil)).PollOnce(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestPollOnce_RejectsOverlappingCycles(t *testing.T) {
	deps, ctrl := newPollDeps(t)
	defer ctrl.Finish()

	f := model.Feed{ID: 1, URL: "https://example.com/rss"}
	deps.feeds.EXPECT().ListWithSubscriptions(gomock.Any()).Return([]model.Feed{f}, nil)
	started := make(chan struct{})
	release := make(chan struct{})
	deps.fetcher.EXPECT().Fetch(gomock.Any(), f.URL, gomock.Any()).DoAndReturn(func(context.Context, string, http.Header) (*network.Response, error) {
		close(started)
		<-release
		return nil, feed.ErrTransport
	})
	deps.feeds.EXPECT().UpdateBackoff(gomock.Any(), int64(1), 1, gomock.Any()).Return(nil)

	svc := deps.service(settingsWith(nil))
	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.PollOnce(context.Background())
	}()

	<-started
	require.True(t, svc.IsPolling())
	_, err := svc.PollOnce(context.Background())
	require.ErrorIs(t, err, service.ErrAlreadyPolling)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	require.False(t, svc.IsPolling())
}

// Polling identical content twice stores and announces every entry exactly once.
func TestPollOnce_DedupIdempotentWithSQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	subscribed := testutil.SeedFeed(t, db, model.Feed{URL: "https://example.com/rss", Title: "Example"})
	orphan := testutil.SeedFeed(t, db, model.Feed{URL: "https://example.com/orphan", Title: "Orphan"})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: subscribed, RoomID: "!a", SendNotice: true})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: subscribed, RoomID: "!b"})

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fetcher := servicemock.NewMockFeedFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(func(_ context.Context, url string, _ http.Header) (*network.Response, error) {
		// Two id-less items exercise the hash fallback.
		return response("application/rss+xml", rssDoc("Example",
			rssItem("one", baseDate),
			"<item><title>Hello</title><description>World</description></item>",
			"<item><title>Bye</title><description>World</description></item>",
		)), nil
	})

	settings := settingsWith(nil)
	sink := &recordingSink{}
	feeds := repository.NewFeedRepository(db)
	entries := repository.NewEntryRepository(db)
	svc := service.NewPollService(feeds, entries, fetcher, feed.NewParser(), service.NewBroadcastService(sink, settings), settings)

	first, err := svc.PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 6, first.NewEntries)
	require.Equal(t, 6, first.Deliveries)
	require.Len(t, sink.all(), 6)

	second, err := svc.PollOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, second.NewEntries)
	require.Zero(t, second.Deliveries)
	require.Len(t, sink.all(), 6)

	stored, err := entries.ListByFeed(context.Background(), orphan)
	require.NoError(t, err)
	require.Len(t, stored, 3)
}
