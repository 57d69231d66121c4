package scraper

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nDmitry/tgpulse/internal/entity"
)

var beforeRegex = regexp.MustCompile(`before=(\d+)`)

// PageResult is the outcome of extracting one page of channel markup.
// Containers that could not be parsed are reported per item in
// Skipped instead of failing the page.
type PageResult struct {
	Posts   []entity.Post
	Skipped []SkippedPost

	// NextCursor is the opaque pagination token for the following
	// page; empty means the source signaled end-of-feed.
	NextCursor string
}

// SkippedPost records one post container that was dropped during
// extraction and why.
type SkippedPost struct {
	PostID string
	Reason string
}

// extractPage locates every post container in document order and
// extracts it independently, then looks for the "load more"
// affordance to obtain the next pagination cursor.
func (s *Scraper) extractPage(markup, channelName string) (*PageResult, error) {
	if strings.TrimSpace(markup) == "" {
		return &PageResult{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescapeMarkup(markup)))

	if err != nil {
		return nil, fmt.Errorf("could not parse page markup: %w", err)
	}

	result := &PageResult{}

	doc.Find(".tgme_widget_message").Each(func(_ int, sel *goquery.Selection) {
		post, skipped := s.extractPost(sel, channelName)

		if skipped != nil {
			result.Skipped = append(result.Skipped, *skipped)
			return
		}

		result.Posts = append(result.Posts, *post)
	})

	href, exists := doc.Find(".js-messages_more_wrap a.js-messages_more").Attr("href")

	if exists {
		if match := beforeRegex.FindStringSubmatch(href); match != nil {
			result.NextCursor = match[1]
		}
	}

	return result, nil
}

func (s *Scraper) extractPost(sel *goquery.Selection, channelName string) (*entity.Post, *SkippedPost) {
	composite, _ := sel.Attr("data-post")

	if composite == "" {
		return nil, &SkippedPost{Reason: "missing data-post attribute"}
	}

	id, ok := extractNumericID(composite)

	if !ok {
		return nil, &SkippedPost{PostID: composite, Reason: "malformed post identifier"}
	}

	dtText, exists := sel.Find("time[datetime]").First().Attr("datetime")

	if !exists || dtText == "" {
		return nil, &SkippedPost{PostID: id, Reason: "missing datetime"}
	}

	date, err := time.Parse(time.RFC3339, dtText)

	if err != nil {
		return nil, &SkippedPost{PostID: id, Reason: "unparseable datetime: " + dtText}
	}

	author := strings.TrimSpace(sel.Find(".tgme_widget_message_author_name").First().Text())

	if author == "" {
		author = channelName
	}

	contentHTML, err := sel.Find(".tgme_widget_message_text").First().Html()

	if err != nil {
		contentHTML = ""
	}

	viewsText := sel.Find(".tgme_widget_message_views").First().Text()

	return &entity.Post{
		ID:     id,
		Views:  ParseAbbreviatedNumber(viewsText),
		Date:   date,
		Author: author,
		Text:   strings.TrimSpace(s.converter.Convert(contentHTML)),
	}, nil
}

// extractNumericID takes the final path segment of a composite
// identifier like "channel/123" and requires it to be numeric.
func extractNumericID(composite string) (string, bool) {
	parts := strings.Split(composite, "/")

	if len(parts) < 2 {
		return "", false
	}

	last := parts[len(parts)-1]

	if last == "" {
		return "", false
	}

	for _, r := range last {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	return last, true
}

// unescapeMarkup undoes the JSON string escaping of paginated
// responses: surrounding quotes, backslash escapes and HTML entities.
func unescapeMarkup(markup string) string {
	if len(markup) >= 2 && strings.HasPrefix(markup, `"`) && strings.HasSuffix(markup, `"`) {
		markup = markup[1 : len(markup)-1]
	}

	markup = strings.ReplaceAll(markup, `\"`, `"`)
	markup = strings.ReplaceAll(markup, `\/`, "/")

	return html.UnescapeString(markup)
}
