package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// EntryID returns the GUID or Atom id, then the link, then a digest of title and summary.
// The digest keeps id-less entries stable as long as their text does not change.
func EntryID(item *gofeed.Item) string {
	if id := strings.TrimSpace(item.GUID); id != "" {
		return id
	}
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	return ContentHash(item.Title, item.Description)
}

func ContentHash(title, summary string) string {
	sum := sha256.Sum256([]byte(title + summary))
	return hex.EncodeToString(sum[:])
}

// EntryDate prefers the published timestamp, then the updated one, then now.
func EntryDate(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return now.UTC()
}
