package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nDmitry/tgpulse/internal/entity"
)

func newTestConfig() *entity.Config {
	return &entity.Config{
		LogLevel:     "ERROR",
		OutputDir:    "output",
		OutputFormat: "json",
		Network: entity.NetworkConfig{
			VerifySSL:         true,
			RequestTimeout:    30,
			RetryAttempts:     1,
			RetryDelay:        0,
			RequestsPerSecond: 1000,
		},
		Parsing: entity.ParsingConfig{
			BaseURL:       "https://t.me",
			DefaultDays:   30,
			MaxPosts:      1000,
			FetchAgeInfo:  false,
			AgePostsLimit: 20,
		},
	}
}

func newTestScraper(fetcher Fetcher) *Scraper {
	return NewWithFetcher(newTestConfig(), fetcher)
}

func TestExtractPage(t *testing.T) {
	s := newTestScraper(nil)

	markup := `
		<div class="tgme_widget_message" data-post="somechannel/101">
			<div class="tgme_widget_message_author_name">Some Channel</div>
			<div class="tgme_widget_message_text"><b>Hello</b> world</div>
			<span class="tgme_widget_message_views">1.5K</span>
			<time datetime="2025-06-01T10:00:00+00:00"></time>
		</div>
		<div class="tgme_widget_message" data-post="somechannel/102">
			<div class="tgme_widget_message_text">Second post</div>
			<span class="tgme_widget_message_views">250</span>
			<time datetime="2025-06-02T12:30:00+00:00"></time>
		</div>
		<div class="js-messages_more_wrap">
			<a class="js-messages_more" href="/s/somechannel?before=101">Load more</a>
		</div>`

	page, err := s.extractPage(markup, "somechannel")
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Empty(t, page.Skipped)

	first := page.Posts[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, 1500, first.Views)
	assert.Equal(t, "Some Channel", first.Author)
	assert.Equal(t, "**Hello** world", first.Text)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), first.Date.UTC())

	second := page.Posts[1]
	assert.Equal(t, "102", second.ID)
	assert.Equal(t, 250, second.Views)
	// Author falls back to the channel name when the element is absent.
	assert.Equal(t, "somechannel", second.Author)

	assert.Equal(t, "101", page.NextCursor)
}

func TestExtractPage_SkippedPosts(t *testing.T) {
	s := newTestScraper(nil)

	tests := []struct {
		name       string
		markup     string
		skipReason string
	}{
		{
			name: "Missing data-post attribute",
			markup: `<div class="tgme_widget_message">
				<time datetime="2025-06-01T10:00:00+00:00"></time>
			</div>`,
			skipReason: "missing data-post attribute",
		},
		{
			name: "Malformed identifier",
			markup: `<div class="tgme_widget_message" data-post="somechannel/abc">
				<time datetime="2025-06-01T10:00:00+00:00"></time>
			</div>`,
			skipReason: "malformed post identifier",
		},
		{
			name:       "Missing datetime",
			markup:     `<div class="tgme_widget_message" data-post="somechannel/101"></div>`,
			skipReason: "missing datetime",
		},
		{
			name: "Unparseable datetime",
			markup: `<div class="tgme_widget_message" data-post="somechannel/101">
				<time datetime="not-a-date"></time>
			</div>`,
			skipReason: "unparseable datetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.extractPage(tt.markup, "somechannel")
			require.NoError(t, err)

			assert.Empty(t, page.Posts)
			require.Len(t, page.Skipped, 1)
			assert.Contains(t, page.Skipped[0].Reason, tt.skipReason)
		})
	}
}

func TestExtractPage_Empty(t *testing.T) {
	s := newTestScraper(nil)

	for _, markup := range []string{"", "   ", "<div>nothing here</div>"} {
		page, err := s.extractPage(markup, "somechannel")
		require.NoError(t, err)

		assert.Empty(t, page.Posts)
		assert.Empty(t, page.Skipped)
		assert.Empty(t, page.NextCursor)
	}
}

func TestExtractPage_EscapedMarkup(t *testing.T) {
	s := newTestScraper(nil)

	// Paginated responses arrive JSON-escaped: surrounding quotes,
	// escaped slashes and quotes, HTML entities.
	markup := `"<div class=\"tgme_widget_message\" data-post=\"somechannel\/7\">` +
		`<div class=\"tgme_widget_message_text\">Fish &amp; chips<\/div>` +
		`<span class=\"tgme_widget_message_views\">2M<\/span>` +
		`<time datetime=\"2025-06-03T08:00:00+00:00\"><\/time>` +
		`<\/div>"`

	page, err := s.extractPage(markup, "somechannel")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	post := page.Posts[0]
	assert.Equal(t, "7", post.ID)
	assert.Equal(t, 2_000_000, post.Views)
	assert.Contains(t, post.Text, "Fish & chips")
}

func TestExtractNumericID(t *testing.T) {
	tests := []struct {
		composite string
		id        string
		ok        bool
	}{
		{"somechannel/123", "123", true},
		{"a/b/456", "456", true},
		{"somechannel/12a", "", false},
		{"somechannel/", "", false},
		{"123", "", false},
	}

	for _, tt := range tests {
		id, ok := extractNumericID(tt.composite)

		assert.Equal(t, tt.ok, ok, tt.composite)
		assert.Equal(t, tt.id, id, tt.composite)
	}
}
