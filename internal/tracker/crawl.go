package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zetronik/tv-movies-parser/internal/textutil"
)

// topicsPerPage is the forum's fixed page size for topic listings.
const topicsPerPage = 50

// Forum is one sub-forum inside a category.
type Forum struct {
	ID   int64
	Name string
}

// Topic is one listing row of a forum page.
type Topic struct {
	ID    int64
	Title string
}

// ForumsFromCategory lists the sub-forums of a category index page. The
// page links each forum several times; duplicates are dropped, first link
// wins the name.
func (c *Client) ForumsFromCategory(ctx context.Context, categoryID int64) ([]Forum, error) {
	params := url.Values{}
	params.Set("c", strconv.FormatInt(categoryID, 10))

	doc, err := c.get(ctx, "/index.php", params)
	if err != nil {
		return nil, fmt.Errorf("list forums for category %d: %w", categoryID, err)
	}

	seen := make(map[int64]struct{})
	var forums []Forum
	doc.Find(`a[href*="viewforum.php?f="]`).Each(func(_ int, link *goquery.Selection) {
		id := forumIDFromHref(link.AttrOr("href", ""))
		if id <= 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		forums = append(forums, Forum{ID: id, Name: strings.TrimSpace(link.Text())})
	})
	return forums, nil
}

// TopicsFromForum lists one page of a forum's topics. Pages are zero-based.
func (c *Client) TopicsFromForum(ctx context.Context, forumID int64, page int) ([]Topic, error) {
	params := url.Values{}
	params.Set("f", strconv.FormatInt(forumID, 10))
	if page > 0 {
		params.Set("start", strconv.Itoa(page*topicsPerPage))
	}

	doc, err := c.get(ctx, "/viewforum.php", params)
	if err != nil {
		return nil, fmt.Errorf("list topics for forum %d page %d: %w", forumID, page, err)
	}

	seen := make(map[int64]struct{})
	var topics []Topic
	doc.Find(`a.tt-text, a.torTopic`).Each(func(_ int, link *goquery.Selection) {
		id := topicIDFromHref(link.AttrOr("href", ""))
		if id <= 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		topics = append(topics, Topic{ID: id, Title: strings.TrimSpace(link.Text())})
	})
	return topics, nil
}

// forumIDFromHref pulls the f= parameter out of a viewforum link.
func forumIDFromHref(href string) int64 {
	parsed, err := url.Parse(href)
	if err != nil {
		return 0
	}
	return int64(textutil.DigitsToInt(parsed.Query().Get("f")))
}
