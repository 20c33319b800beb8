package service

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/maubot/rss/internal/model"
)

const notificationDateLayout = "2006-01-02 15:04:05"

// $$, $name, ${name}, or a lone $ (last group) which is kept as is.
var placeholderPattern = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|())`)

var textPolicy = bluemonday.StrictPolicy()

// RenderNotification fills template from feed and entry. Unknown placeholders
// stay in the output untouched, so rendering never fails.
func RenderNotification(template string, feed model.Feed, entry model.Entry) string {
	return substitute(template, notificationVars(feed, entry))
}

func notificationVars(feed model.Feed, entry model.Entry) map[string]string {
	content := ""
	if entry.Content != nil {
		content = *entry.Content
	}
	return map[string]string{
		"feed_id":       strconv.FormatInt(feed.ID, 10),
		"feed_url":      feed.URL,
		"feed_title":    feed.Title,
		"feed_subtitle": feed.Subtitle,
		"feed_link":     feed.Link,
		"id":            entry.ID,
		"date":          entry.Date.Format(notificationDateLayout),
		"title":         entry.Title,
		"summary":       entry.Summary,
		"summary_text":  htmlToText(entry.Summary),
		"link":          entry.Link,
		"content":       content,
	}
}

func htmlToText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func substitute(template string, vars map[string]string) string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(template[last:m[0]])
		last = m[1]
		switch {
		case m[2] >= 0:
			b.WriteByte('$')
		case m[4] >= 0:
			writeVar(&b, vars, template[m[4]:m[5]], template[m[0]:m[1]])
		case m[6] >= 0:
			writeVar(&b, vars, template[m[6]:m[7]], template[m[0]:m[1]])
		default:
			b.WriteString(template[m[0]:m[1]])
		}
	}
	b.WriteString(template[last:])
	return b.String()
}

func writeVar(b *strings.Builder, vars map[string]string, name, raw string) {
	if value, ok := vars[name]; ok {
		b.WriteString(value)
		return
	}
	b.WriteString(raw)
}
