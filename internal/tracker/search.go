package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zetronik/tv-movies-parser/internal/textutil"
)

// SearchResult is one row of the tracker's search page.
type SearchResult struct {
	TopicID int64
	Title   string
	Seeds   int
	Leeches int
}

// Search queries the tracker for a title and returns the result rows in
// page order. Rows without a topic link are forum chrome and are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("nm", query)

	doc, err := c.get(ctx, "/tracker.php", params)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var results []SearchResult
	doc.Find("tr.tCenter").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a.tLink").First()
		if link.Length() == 0 {
			return
		}
		topicID := topicIDFromHref(link.AttrOr("href", ""))
		if topicID <= 0 {
			return
		}
		results = append(results, SearchResult{
			TopicID: topicID,
			Title:   strings.TrimSpace(link.Text()),
			Seeds:   textutil.DigitsToInt(row.Find(`[class*="seedmed"]`).First().Text()),
			Leeches: textutil.DigitsToInt(row.Find(`[class*="leechmed"]`).First().Text()),
		})
	})
	return results, nil
}

// topicIDFromHref pulls the t= parameter out of a viewtopic link.
func topicIDFromHref(href string) int64 {
	parsed, err := url.Parse(href)
	if err != nil {
		return 0
	}
	return int64(textutil.DigitsToInt(parsed.Query().Get("t")))
}
