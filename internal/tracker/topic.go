package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/zetronik/tv-movies-parser/internal/textutil"
)

// Label synonyms used by release posts. Different sub-forums phrase the
// same field differently.
var (
	qualityLabels     = []string{"Качество", "Качество видео", "Тип релиза"}
	fileFormatLabels  = []string{"Формат видео", "Формат", "Контейнер"}
	translationLabels = []string{"Перевод", "Озвучивание", "Озвучка"}
)

// TopicDetails is the release information scraped from a topic page.
type TopicDetails struct {
	TopicID     int64
	Title       string
	MagnetLink  string
	SizeGB      float64
	Seeds       int
	Leeches     int
	Quality     string
	FileFormat  string
	Translation string
}

// TopicDetails fetches a topic page and scrapes the release fields. Missing
// fields come back zero-valued; only a failed fetch is an error.
func (c *Client) TopicDetails(ctx context.Context, topicID int64) (*TopicDetails, error) {
	params := url.Values{}
	params.Set("t", strconv.FormatInt(topicID, 10))

	doc, err := c.get(ctx, "/viewtopic.php", params)
	if err != nil {
		return nil, fmt.Errorf("fetch topic %d: %w", topicID, err)
	}

	heading := strings.TrimSpace(doc.Find("h1.maintitle a").First().Text())
	details := &TopicDetails{
		TopicID:     topicID,
		Title:       heading,
		MagnetLink:  doc.Find("a.magnet-link").First().AttrOr("href", ""),
		SizeGB:      textutil.RoundGB(textutil.ParseSizeGB(doc.Find("span#tor-size-humn").First().Text())),
		Seeds:       textutil.DigitsToInt(doc.Find("span.seed").First().Text()),
		Leeches:     textutil.DigitsToInt(doc.Find("span.leech").First().Text()),
		Quality:     ExtractLabeled(doc, qualityLabels),
		FileFormat:  ExtractLabeled(doc, fileFormatLabels),
		Translation: ExtractLabeled(doc, translationLabels),
	}
	if details.Quality == "" {
		details.Quality = QualityFromHeading(heading)
	}
	return details, nil
}
