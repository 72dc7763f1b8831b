package tracker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const labelCutset = " :\t\n\r\u00a0"

// ExtractLabeled finds a "Label: value" field inside a topic's first post.
// Posts mark labels with span, b, or strong elements; the value is whatever
// inline text follows until the next line break or the next label element.
func ExtractLabeled(doc *goquery.Document, synonyms []string) string {
	var value string
	doc.Find("div.post_body span, div.post_body b, div.post_body strong").EachWithBreak(
		func(_ int, sel *goquery.Selection) bool {
			label := strings.Trim(sel.Text(), labelCutset)
			if !matchesSynonym(label, synonyms) {
				return true
			}
			if extracted := collectSiblingText(sel); extracted != "" {
				value = extracted
				return false
			}
			return true
		})
	return value
}

// matchesSynonym treats a label as a match when it contains a synonym,
// so decorated labels such as "Качество видео (исходник)" still resolve.
func matchesSynonym(label string, synonyms []string) bool {
	folded := strings.ToLower(label)
	for _, synonym := range synonyms {
		if strings.Contains(folded, strings.ToLower(synonym)) {
			return true
		}
	}
	return false
}

// collectSiblingText concatenates the text after a label element, stopping
// at a <br> or at the next label element.
func collectSiblingText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	var builder strings.Builder
	for node := sel.Nodes[0].NextSibling; node != nil; node = node.NextSibling {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "br", "span", "b", "strong":
				return strings.Trim(builder.String(), labelCutset)
			}
		}
		builder.WriteString(nodeText(node))
	}
	return strings.Trim(builder.String(), labelCutset)
}

func nodeText(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Data
	}
	var builder strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		builder.WriteString(nodeText(child))
	}
	return builder.String()
}
